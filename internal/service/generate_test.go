package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/timmy/gustovivo/internal/catalog"
	"github.com/timmy/gustovivo/internal/domain"
	"github.com/timmy/gustovivo/internal/logger"
	"github.com/timmy/gustovivo/internal/output"
	"github.com/timmy/gustovivo/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func quietLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: "error", Format: "text", Output: io.Discard})
}

func newTestService(root string, cfg GenerateConfig) *GenerateService {
	return NewGenerateService(output.New(root), nil, nil, nil, quietLogger(), cfg)
}

func countGallery(t *testing.T, w *output.Writer) int {
	t.Helper()
	files, err := w.List("gallery", ".svg")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	return len(files)
}

func readTree(t *testing.T, root string) map[string][]byte {
	t.Helper()
	files := make(map[string][]byte)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		files[filepath.ToSlash(rel)] = data
		return nil
	})
	if err != nil {
		t.Fatalf("WalkDir() error = %v", err)
	}
	return files
}

func TestRunWritesCatalog(t *testing.T) {
	root := filepath.Join(t.TempDir(), "images")
	svc := newTestService(root, GenerateConfig{Seed: 42, GalleryTarget: catalog.DefaultGalleryTarget, Workers: 4})

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	w := output.New(root)
	if got := countGallery(t, w); got != 300 {
		t.Errorf("gallery files = %d, want 300", got)
	}
	if stats.Gallery != 300 || stats.Hero != 1 || stats.Menu != 6 || stats.Logo != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Padding != 300-catalog.LiteralGalleryCount() {
		t.Errorf("Padding = %d, want %d", stats.Padding, 300-catalog.LiteralGalleryCount())
	}

	hero, err := os.ReadFile(filepath.Join(root, "hero", "signature-dish.svg"))
	if err != nil {
		t.Fatalf("hero not written: %v", err)
	}
	if !bytes.Contains(hero, []byte("Piatto Signature")) || !bytes.Contains(hero, []byte(">HERO</text>")) {
		t.Errorf("hero image missing title or badge")
	}

	if _, err := os.Stat(filepath.Join(root, catalog.LogoFilename)); err != nil {
		t.Errorf("logo not written: %v", err)
	}
	menu, err := w.List("dishes", ".svg")
	if err != nil || len(menu) != 6 {
		t.Errorf("menu files = %d (err %v), want 6", len(menu), err)
	}

	items, err := w.ReadManifest()
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if len(items) != stats.Total() {
		t.Errorf("manifest items = %d, want %d", len(items), stats.Total())
	}
	for _, item := range items {
		if item.Primary == item.Secondary {
			t.Errorf("%s: primary equals secondary %s", item.Path, item.Primary)
		}
		if _, err := os.Stat(w.Abs(item.Path)); err != nil {
			t.Errorf("manifest lists missing file %s", item.Path)
		}
	}
}

func TestRunSameSeedIsByteIdentical(t *testing.T) {
	base := t.TempDir()
	a := filepath.Join(base, "a")
	b := filepath.Join(base, "b")

	if _, err := newTestService(a, GenerateConfig{Seed: 7, GalleryTarget: 300, Workers: 1}).Run(context.Background()); err != nil {
		t.Fatalf("Run(a) error = %v", err)
	}
	if _, err := newTestService(b, GenerateConfig{Seed: 7, GalleryTarget: 300, Workers: 8}).Run(context.Background()); err != nil {
		t.Fatalf("Run(b) error = %v", err)
	}

	treeA, treeB := readTree(t, a), readTree(t, b)
	if len(treeA) != len(treeB) {
		t.Fatalf("file count %d != %d", len(treeA), len(treeB))
	}
	for rel, data := range treeA {
		if !bytes.Equal(data, treeB[rel]) {
			t.Errorf("%s differs between runs", rel)
		}
	}
}

func TestRunStaleFiles(t *testing.T) {
	root := t.TempDir()
	w := output.New(root)
	ctx := context.Background()

	if _, err := newTestService(root, GenerateConfig{Seed: 3, GalleryTarget: 320, Workers: 4}).Run(ctx); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if got := countGallery(t, w); got != 320 {
		t.Fatalf("gallery files = %d, want 320", got)
	}

	// same seed: the smaller plan is a prefix of the larger one
	stats, err := newTestService(root, GenerateConfig{Seed: 3, GalleryTarget: 300, Workers: 4}).Run(ctx)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if got := countGallery(t, w); got != 320 {
		t.Errorf("without clean gallery files = %d, want 320", got)
	}
	if stats.Pruned != 0 {
		t.Errorf("Pruned = %d, want 0", stats.Pruned)
	}

	stats, err = newTestService(root, GenerateConfig{Seed: 3, GalleryTarget: 300, Workers: 4, Clean: true}).Run(ctx)
	if err != nil {
		t.Fatalf("clean Run() error = %v", err)
	}
	if got := countGallery(t, w); got != 300 {
		t.Errorf("with clean gallery files = %d, want 300", got)
	}
	if stats.Pruned != 20 {
		t.Errorf("Pruned = %d, want 20", stats.Pruned)
	}
}

func TestRunWritesPreviews(t *testing.T) {
	root := t.TempDir()
	stats, err := newTestService(root, GenerateConfig{Seed: 5, Workers: 2, PNGPreviews: true}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.Previews != stats.Total() {
		t.Errorf("Previews = %d, want %d", stats.Previews, stats.Total())
	}
	if _, err := os.Stat(filepath.Join(root, PreviewDir, "hero", "signature-dish.png")); err != nil {
		t.Errorf("hero preview missing: %v", err)
	}

	w := output.New(root)
	if got := countGallery(t, w); got != catalog.LiteralGalleryCount() {
		t.Errorf("gallery files = %d, want %d", got, catalog.LiteralGalleryCount())
	}
	pngs, err := w.List("gallery", ".png")
	if err != nil || len(pngs) != 0 {
		t.Errorf("previews leaked into gallery: %v (err %v)", pngs, err)
	}
}

func TestRunCleanRemovesPreviewsWhenDisabled(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	if _, err := newTestService(root, GenerateConfig{Seed: 3, GalleryTarget: 320, Workers: 4, PNGPreviews: true}).Run(ctx); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	stats, err := newTestService(root, GenerateConfig{Seed: 3, GalleryTarget: 300, Workers: 4, Clean: true}).Run(ctx)
	if err != nil {
		t.Fatalf("clean Run() error = %v", err)
	}

	pngs, err := output.New(root).List(PreviewDir+"/gallery", ".png")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(pngs) != 0 {
		t.Errorf("%d gallery previews left after clean run without previews", len(pngs))
	}
	// 20 stale SVGs plus all 320 gallery previews
	if stats.Pruned != 340 {
		t.Errorf("Pruned = %d, want 340", stats.Pruned)
	}
}

func TestRunFailsWhenRootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "images")
	if err := os.WriteFile(root, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := newTestService(root, GenerateConfig{Seed: 1, GalleryTarget: 300, Workers: 2}).Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want filesystem error")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(t.TempDir(), GenerateConfig{Seed: 1, GalleryTarget: 300, Workers: 2}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

type memoryStorage struct {
	mu      sync.Mutex
	ensured bool
	objects map[string]string
	failKey string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string]string)}
}

func (m *memoryStorage) EnsureBucket(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensured = true
	return nil
}

func (m *memoryStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch for %s: %d != %d", key, len(data), size)
	}
	if key == m.failKey {
		return errors.New("upload refused")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = contentType
	return nil
}

func (m *memoryStorage) GetURL(key string) string {
	return "memory://" + key
}

func (m *memoryStorage) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func TestRunPublishesToStorage(t *testing.T) {
	store := newMemoryStorage()
	svc := NewGenerateService(output.New(t.TempDir()), store, nil, nil, quietLogger(),
		GenerateConfig{Seed: 9, GalleryTarget: 300, Workers: 4, StoragePrefix: "/site/"})

	stats, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !store.ensured {
		t.Error("bucket was not ensured")
	}
	// every image plus the manifest
	if want := stats.Total() + 1; stats.Uploaded != want || len(store.objects) != want {
		t.Errorf("Uploaded = %d, objects = %d, want %d", stats.Uploaded, len(store.objects), want)
	}

	cases := map[string]string{
		"site/hero/signature-dish.svg":       "image/svg+xml",
		"site/gallery/dishes/dishes_001.svg": "image/svg+xml",
		"site/logo.svg":                      "image/svg+xml",
		"site/manifest.jsonl":                "application/x-ndjson",
	}
	for key, want := range cases {
		if got := store.objects[key]; got != want {
			t.Errorf("objects[%q] = %q, want %q", key, got, want)
		}
	}
}

func TestRunPublishSkipsUnchangedObjects(t *testing.T) {
	root := t.TempDir()
	store := newMemoryStorage()
	cfg := GenerateConfig{Seed: 9, GalleryTarget: 300, Workers: 4, PNGPreviews: true}
	ctx := context.Background()

	first, err := NewGenerateService(output.New(root), store, nil, nil, quietLogger(), cfg).Run(ctx)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	// every image, its preview and the manifest
	if want := 2*first.Total() + 1; first.Uploaded != want || first.Skipped != 0 {
		t.Fatalf("first run Uploaded = %d, Skipped = %d, want %d, 0", first.Uploaded, first.Skipped, want)
	}

	store.Delete(ctx, "logo.svg")

	second, err := NewGenerateService(output.New(root), store, nil, nil, quietLogger(), cfg).Run(ctx)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	// the manifest and the object removed from the bucket
	if second.Uploaded != 2 {
		t.Errorf("second run Uploaded = %d, want 2", second.Uploaded)
	}
	if second.Skipped != 2*second.Total()-1 {
		t.Errorf("second run Skipped = %d, want %d", second.Skipped, 2*second.Total()-1)
	}
	if ok, _ := store.Exists(ctx, "logo.svg"); !ok {
		t.Error("logo.svg was not uploaded again")
	}
}

func TestRunCleanDeletesStaleObjects(t *testing.T) {
	root := t.TempDir()
	store := newMemoryStorage()
	ctx := context.Background()

	if _, err := NewGenerateService(output.New(root), store, nil, nil, quietLogger(),
		GenerateConfig{Seed: 3, GalleryTarget: 320, Workers: 4}).Run(ctx); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	stats, err := NewGenerateService(output.New(root), store, nil, nil, quietLogger(),
		GenerateConfig{Seed: 3, GalleryTarget: 300, Workers: 4, Clean: true}).Run(ctx)
	if err != nil {
		t.Fatalf("clean Run() error = %v", err)
	}
	if stats.Deleted != 20 {
		t.Errorf("Deleted = %d, want 20", stats.Deleted)
	}

	items, err := output.New(root).ReadManifest()
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if len(store.objects) != len(items)+1 {
		t.Errorf("bucket holds %d objects, want %d", len(store.objects), len(items)+1)
	}
	for _, item := range items {
		if _, ok := store.objects[item.Path]; !ok {
			t.Errorf("bucket is missing %s", item.Path)
		}
	}
}

func TestRunPublishFailure(t *testing.T) {
	store := newMemoryStorage()
	store.failKey = "logo.svg"
	svc := NewGenerateService(output.New(t.TempDir()), store, nil, nil, quietLogger(),
		GenerateConfig{Seed: 9, GalleryTarget: 300, Workers: 4})

	if _, err := svc.Run(context.Background()); err == nil || !strings.Contains(err.Error(), "upload refused") {
		t.Fatalf("Run() error = %v, want upload failure", err)
	}
}

func setupHistoryDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestRunRecordsHistory(t *testing.T) {
	db := setupHistoryDB(t)
	jobRepo := repository.NewJobRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	ctx := context.Background()

	svc := NewGenerateService(output.New(t.TempDir()), nil, jobRepo, assetRepo, quietLogger(),
		GenerateConfig{Seed: 11, GalleryTarget: 300, Workers: 4})
	stats, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	job, err := jobRepo.GetByID(ctx, stats.JobID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if job.Status != domain.JobStatusCompleted {
		t.Errorf("Status = %s, want completed", job.Status)
	}
	if job.TotalItems != stats.Total() || job.PaddingItems != stats.Padding || job.Seed != 11 {
		t.Errorf("job = %+v, stats = %+v", job, stats)
	}
	if job.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}

	history := NewHistoryService(jobRepo, assetRepo)
	summaries, err := history.ListRecent(ctx, 0)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(summaries))
	}

	counts := make(map[domain.Category]int64)
	var total int64
	for _, c := range summaries[0].Categories {
		counts[c.Category] = c.Count
		total += c.Count
	}
	if total != int64(stats.Total()) {
		t.Errorf("asset total = %d, want %d", total, stats.Total())
	}
	// hero image and logo
	if counts[domain.CategoryHero] != 2 {
		t.Errorf("hero assets = %d, want 2", counts[domain.CategoryHero])
	}
	if counts[domain.CategoryMenu] != 6 {
		t.Errorf("menu assets = %d, want 6", counts[domain.CategoryMenu])
	}
	for _, c := range domain.GalleryCategories() {
		if counts[c] != int64(stats.GalleryByCategory[c]) {
			t.Errorf("%s assets = %d, want %d", c, counts[c], stats.GalleryByCategory[c])
		}
	}
}

func TestHistoryGetJob(t *testing.T) {
	db := setupHistoryDB(t)
	jobRepo := repository.NewJobRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	ctx := context.Background()

	stats, err := NewGenerateService(output.New(t.TempDir()), nil, jobRepo, assetRepo, quietLogger(),
		GenerateConfig{Seed: 12, Workers: 2}).Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	history := NewHistoryService(jobRepo, assetRepo)
	detail, err := history.GetJob(ctx, stats.JobID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if len(detail.Assets) != stats.Total() {
		t.Errorf("assets = %d, want %d", len(detail.Assets), stats.Total())
	}
	if detail.Status != domain.JobStatusCompleted {
		t.Errorf("Status = %s, want completed", detail.Status)
	}

	if _, err := history.GetJob(ctx, "missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("GetJob(missing) error = %v, want ErrJobNotFound", err)
	}
	if _, err := NewHistoryService(nil, nil).GetJob(ctx, stats.JobID); !errors.Is(err, ErrHistoryDisabled) {
		t.Errorf("GetJob() on disabled history error = %v, want ErrHistoryDisabled", err)
	}
}

func TestRunRecordsFailure(t *testing.T) {
	db := setupHistoryDB(t)
	jobRepo := repository.NewJobRepository(db)

	root := filepath.Join(t.TempDir(), "images")
	if err := os.WriteFile(root, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := NewGenerateService(output.New(root), nil, jobRepo, nil, quietLogger(),
		GenerateConfig{Seed: 1, GalleryTarget: 300, Workers: 1})
	stats, err := svc.Run(context.Background())
	if err == nil {
		t.Fatal("Run() error = nil, want failure")
	}

	job, err := jobRepo.GetByID(context.Background(), stats.JobID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if job.Status != domain.JobStatusFailed || job.ErrorLog == "" {
		t.Errorf("job = %+v, want failed with error log", job)
	}
}

func TestHistoryDisabled(t *testing.T) {
	history := NewHistoryService(nil, nil)
	if history.Enabled() {
		t.Error("Enabled() = true, want false")
	}
	if _, err := history.ListRecent(context.Background(), 5); !errors.Is(err, ErrHistoryDisabled) {
		t.Errorf("ListRecent() error = %v, want ErrHistoryDisabled", err)
	}
}
