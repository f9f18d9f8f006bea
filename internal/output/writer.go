package output

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"
)

// Writer places generated files under a root directory.
// Paths passed to it are slash-separated and relative to the root.
type Writer struct {
	root string
}

// New creates a Writer rooted at root.
func New(root string) *Writer {
	return &Writer{root: root}
}

// Root returns the output root directory.
func (w *Writer) Root() string {
	return w.root
}

// Abs returns the filesystem path of rel.
func (w *Writer) Abs(rel string) string {
	return filepath.Join(w.root, filepath.FromSlash(rel))
}

// EnsureTree creates the root and every listed subdirectory.
// Existing directories are left untouched.
func (w *Writer) EnsureTree(dirs ...string) error {
	if err := os.MkdirAll(w.root, 0755); err != nil {
		return fmt.Errorf("failed to create output root: %w", err)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(w.Abs(dir), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Write atomically replaces rel with data, creating parent directories.
func (w *Writer) Write(rel string, data []byte) error {
	target := w.Abs(rel)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := atomic.WriteFile(target, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	// atomic creates new files 0600; the site is served as static files
	if err := os.Chmod(target, 0644); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", rel, err)
	}
	return nil
}

// Prune removes files with the given extension under dirs whose relative
// path is not in keep. It returns the removed paths, sorted.
// Missing directories are skipped.
func (w *Writer) Prune(dirs []string, ext string, keep map[string]struct{}) ([]string, error) {
	var removed []string
	for _, dir := range dirs {
		files, err := w.List(dir, ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, err
		}
		for _, rel := range files {
			if _, ok := keep[rel]; ok {
				continue
			}
			if err := os.Remove(w.Abs(rel)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return removed, fmt.Errorf("failed to remove stale file %s: %w", rel, err)
			}
			removed = append(removed, rel)
		}
	}
	sort.Strings(removed)
	return removed, nil
}

// List returns the relative paths of files with ext under dir, sorted.
func (w *Writer) List(dir, ext string) ([]string, error) {
	var files []string
	base := w.Abs(dir)
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		rel, err := filepath.Rel(w.root, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
