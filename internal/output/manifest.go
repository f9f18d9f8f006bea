package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/timmy/gustovivo/internal/domain"
)

const (
	// ManifestFileName is the JSON Lines index written at the output root.
	ManifestFileName = "manifest.jsonl"

	// ManifestContentType is the MIME type used when publishing the manifest.
	ManifestContentType = "application/x-ndjson"
)

// ManifestItem describes one generated file.
type ManifestItem struct {
	ID        string           `json:"id"`
	Path      string           `json:"path"`
	Preview   string           `json:"preview,omitempty"`
	Kind      domain.ImageKind `json:"kind"`
	Category  domain.Category  `json:"category"`
	Title     string           `json:"title"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Padding   bool             `json:"padding,omitempty"`
	Primary   string           `json:"primary"`
	Secondary string           `json:"secondary"`
	Icon      string           `json:"icon"`
	Size      int64            `json:"size"`
	MD5Hash   string           `json:"md5_hash"`
}

// EncodeManifest renders items as JSON Lines.
func EncodeManifest(items []ManifestItem) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return nil, fmt.Errorf("failed to encode manifest item %s: %w", item.Path, err)
		}
	}
	return buf.Bytes(), nil
}

// WriteManifest writes items to the manifest file at the output root.
func (w *Writer) WriteManifest(items []ManifestItem) error {
	data, err := EncodeManifest(items)
	if err != nil {
		return err
	}
	return w.Write(ManifestFileName, data)
}

// ReadManifest loads the manifest of the output root.
// Malformed lines are skipped.
func (w *Writer) ReadManifest() ([]ManifestItem, error) {
	file, err := os.Open(w.Abs(ManifestFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer file.Close()

	var items []ManifestItem
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var item ManifestItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}
	return items, nil
}
