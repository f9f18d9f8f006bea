package service

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/gustovivo/internal/catalog"
	"github.com/timmy/gustovivo/internal/domain"
	"github.com/timmy/gustovivo/internal/logger"
	"github.com/timmy/gustovivo/internal/output"
	"github.com/timmy/gustovivo/internal/raster"
	"github.com/timmy/gustovivo/internal/render"
	"github.com/timmy/gustovivo/internal/repository"
	"github.com/timmy/gustovivo/internal/storage"
	"golang.org/x/sync/errgroup"
)

// PreviewDir holds PNG previews, mirroring the SVG tree.
const PreviewDir = "previews"

// planStream separates the padding choices from the style choices of the
// same seed.
const planStream = 0x5851f42d4c957f2d

// GenerateConfig holds configuration for a generation run
type GenerateConfig struct {
	Seed          uint64 // 0 seeds from the clock
	GalleryTarget int
	Workers       int
	PNGPreviews   bool
	Clean         bool
	StoragePrefix string
}

// GenerateService renders the catalog and writes it to the output tree.
// Storage and the history repositories are optional; nil disables them.
type GenerateService struct {
	writer    *output.Writer
	storage   storage.ObjectStorage
	jobRepo   *repository.JobRepository
	assetRepo *repository.AssetRepository
	logger    *logger.Logger
	cfg       GenerateConfig
}

// NewGenerateService creates a new generate service
func NewGenerateService(
	writer *output.Writer,
	objectStorage storage.ObjectStorage,
	jobRepo *repository.JobRepository,
	assetRepo *repository.AssetRepository,
	log *logger.Logger,
	cfg GenerateConfig,
) *GenerateService {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &GenerateService{
		writer:    writer,
		storage:   objectStorage,
		jobRepo:   jobRepo,
		assetRepo: assetRepo,
		logger:    log,
		cfg:       cfg,
	}
}

// GenerateStats holds statistics for a generation run
type GenerateStats struct {
	JobID             string
	OutputDir         string
	Seed              uint64
	Hero              int
	Menu              int
	Gallery           int
	Padding           int
	Logo              int
	Previews          int
	Pruned            int
	Uploaded          int
	Skipped           int
	Deleted           int
	Bytes             int64
	GalleryByCategory map[domain.Category]int
	StartTime         time.Time
	EndTime           time.Time
}

// Total returns the number of SVG files written.
func (s *GenerateStats) Total() int {
	return s.Hero + s.Menu + s.Gallery + s.Logo
}

// Run performs one generation run. Files from earlier runs are overwritten;
// stale gallery files are only removed when Clean is set.
// The first filesystem, storage or history error aborts the run.
func (s *GenerateService) Run(ctx context.Context) (*GenerateStats, error) {
	seed := s.cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	stats := &GenerateStats{
		JobID:     uuid.New().String(),
		OutputDir: s.writer.Root(),
		Seed:      seed,
		StartTime: time.Now(),
	}

	ctx = s.logger.WithContext(ctx)
	ctx = logger.SetJobID(ctx, stats.JobID)
	ctx = logger.SetComponent(ctx, "generator")

	logger.FromContext(ctx).WithFields(logger.Fields{
		"output_dir":     stats.OutputDir,
		"seed":           seed,
		"gallery_target": s.cfg.GalleryTarget,
		"workers":        s.cfg.Workers,
	}).Info("Starting generation")

	job, err := s.startJob(ctx, stats)
	if err != nil {
		return nil, err
	}

	out, err := s.generate(ctx, stats)
	if err != nil {
		s.failJob(ctx, job, err)
		return stats, err
	}

	if s.storage != nil {
		if err := s.publish(ctx, out, stats); err != nil {
			s.failJob(ctx, job, err)
			return stats, err
		}
	}

	stats.EndTime = time.Now()
	if err := s.completeJob(ctx, job, out.assets, stats); err != nil {
		return stats, err
	}

	logger.With(logger.Fields{"seed": stats.Seed}).
		WithCount(stats.Total()).
		WithSize(stats.Bytes).
		WithDuration(stats.EndTime.Sub(stats.StartTime).Milliseconds()).
		WithStatus(string(domain.JobStatusCompleted)).
		Info(ctx, "Generation completed")

	return stats, nil
}

// asset pairs a manifest entry with the storage key it was published under.
type asset struct {
	item       output.ManifestItem
	storageKey string
}

// runOutput is what the local part of a run hands to publishing.
type runOutput struct {
	assets []*asset
	// pruned lists local files removed as stale
	pruned []string
	// previous maps paths of the last run's manifest to the MD5 of the SVG
	// they were produced from
	previous map[string]string
}

func (s *GenerateService) generate(ctx context.Context, stats *GenerateStats) (*runOutput, error) {
	plan := catalog.BuildPlan(rand.New(rand.NewPCG(stats.Seed, planStream)), s.cfg.GalleryTarget)
	renderer := render.NewSeeded(stats.Seed)

	dirs := catalog.Directories()
	if s.cfg.PNGPreviews {
		for _, dir := range catalog.Directories() {
			dirs = append(dirs, path.Join(PreviewDir, dir))
		}
	}
	if err := s.writer.EnsureTree(dirs...); err != nil {
		return nil, err
	}

	previous, err := s.previousManifest(ctx)
	if err != nil {
		return nil, err
	}

	all := plan.All()
	assets := make([]*asset, len(all))
	var written, previews, size int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	// Styles are picked in plan order on this goroutine so a seed always
	// yields the same files regardless of the worker count.
	for i, d := range all {
		if gctx.Err() != nil {
			break
		}

		doc, style := renderer.Render(d)
		sum := md5.Sum(doc)
		item := output.ManifestItem{
			ID:        d.ID,
			Path:      d.Path,
			Kind:      d.Kind,
			Category:  d.Category,
			Title:     d.Title,
			Width:     d.Width,
			Height:    d.Height,
			Padding:   d.Padding,
			Primary:   style.Primary,
			Secondary: style.Secondary,
			Icon:      style.Icon,
			Size:      int64(len(doc)),
			MD5Hash:   hex.EncodeToString(sum[:]),
		}
		if s.cfg.PNGPreviews {
			item.Preview = previewPath(d.Path)
		}
		assets[i] = &asset{item: item}

		g.Go(func() error {
			if err := s.writer.Write(d.Path, doc); err != nil {
				return err
			}
			atomic.AddInt64(&written, 1)
			atomic.AddInt64(&size, int64(len(doc)))

			if item.Preview == "" {
				return nil
			}
			png, err := raster.Render(d, style)
			if err != nil {
				return fmt.Errorf("failed to render preview for %s: %w", d.Path, err)
			}
			if err := s.writer.Write(item.Preview, png); err != nil {
				return err
			}
			atomic.AddInt64(&previews, 1)
			atomic.AddInt64(&size, int64(len(png)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("generation interrupted after %d files: %w", written, err)
	}

	stats.Hero = len(plan.Hero)
	stats.Menu = len(plan.Menu)
	stats.Gallery = len(plan.Gallery)
	stats.Padding = plan.PaddingCount()
	stats.Logo = 1
	stats.Previews = int(previews)
	stats.Bytes = size
	stats.GalleryByCategory = plan.GalleryCounts()

	items := make([]output.ManifestItem, len(assets))
	for i, a := range assets {
		items[i] = a.item
	}
	if err := s.writer.WriteManifest(items); err != nil {
		return nil, err
	}

	out := &runOutput{assets: assets, previous: previous}
	if s.cfg.Clean {
		out.pruned, err = s.prune(ctx, plan, assets)
		if err != nil {
			return nil, err
		}
		stats.Pruned = len(out.pruned)
	}

	logger.With(logger.Fields{
		"padding":  stats.Padding,
		"previews": stats.Previews,
	}).WithCount(int(written)).Info(ctx, "Files written")

	return out, nil
}

// previousManifest indexes the manifest left by the last run, if any.
func (s *GenerateService) previousManifest(ctx context.Context) (map[string]string, error) {
	items, err := s.writer.ReadManifest()
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	previous := make(map[string]string, 2*len(items))
	for _, item := range items {
		previous[item.Path] = item.MD5Hash
		if item.Preview != "" {
			previous[item.Preview] = item.MD5Hash
		}
	}
	logger.CtxDebug(ctx, "Loaded previous manifest with %d items", len(items))
	return previous, nil
}

// prune removes gallery files left over from larger runs, and gallery
// previews this run did not produce. With previews disabled every gallery
// preview is stale.
func (s *GenerateService) prune(ctx context.Context, plan *catalog.Plan, assets []*asset) ([]string, error) {
	var dirs, previewDirs []string
	for _, c := range domain.GalleryCategories() {
		dirs = append(dirs, catalog.GalleryDir(c))
		previewDirs = append(previewDirs, path.Join(PreviewDir, catalog.GalleryDir(c)))
	}

	removed, err := s.writer.Prune(dirs, ".svg", plan.GalleryPaths())
	if err != nil {
		return removed, err
	}

	keep := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		if a.item.Preview != "" {
			keep[a.item.Preview] = struct{}{}
		}
	}
	stale, err := s.writer.Prune(previewDirs, ".png", keep)
	removed = append(removed, stale...)
	if err != nil {
		return removed, err
	}

	for _, rel := range removed {
		logger.FromContext(ctx).WithField(logger.FieldPath, rel).Debug("Removed stale file")
	}
	return removed, nil
}

// publish uploads written files and the manifest to object storage and
// deletes the objects of pruned files. Files whose SVG is unchanged since the
// last run and that already exist in the bucket are not uploaded again.
func (s *GenerateService) publish(ctx context.Context, out *runOutput, stats *GenerateStats) error {
	if err := s.storage.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("failed to ensure storage bucket: %w", err)
	}

	var uploaded, skipped int64
	upload := func(ctx context.Context, rel, sum string) (string, error) {
		key := storage.ObjectKey(s.cfg.StoragePrefix, rel)
		if sum != "" && out.previous[rel] == sum {
			exists, err := s.storage.Exists(ctx, key)
			if err != nil {
				return "", fmt.Errorf("failed to check %s: %w", key, err)
			}
			if exists {
				atomic.AddInt64(&skipped, 1)
				return key, nil
			}
		}

		data, err := s.readOutput(rel)
		if err != nil {
			return "", err
		}
		if err := s.storage.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), storage.ContentTypeFor(rel)); err != nil {
			return "", err
		}
		atomic.AddInt64(&uploaded, 1)
		return key, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, a := range out.assets {
		g.Go(func() error {
			key, err := upload(gctx, a.item.Path, a.item.MD5Hash)
			if err != nil {
				return err
			}
			a.storageKey = key
			if a.item.Preview != "" {
				if _, err := upload(gctx, a.item.Preview, a.item.MD5Hash); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to publish images: %w", err)
	}

	if _, err := upload(ctx, output.ManifestFileName, ""); err != nil {
		return fmt.Errorf("failed to publish manifest: %w", err)
	}

	for _, rel := range out.pruned {
		key := storage.ObjectKey(s.cfg.StoragePrefix, rel)
		if err := s.storage.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete stale object %s: %w", key, err)
		}
		stats.Deleted++
	}

	stats.Uploaded = int(uploaded)
	stats.Skipped = int(skipped)
	logger.With(logger.Fields{"skipped": stats.Skipped, "deleted": stats.Deleted}).
		WithCount(stats.Uploaded).
		Info(ctx, "Published to %s", s.storage.GetURL(storage.ObjectKey(s.cfg.StoragePrefix, "")))
	return nil
}

func (s *GenerateService) readOutput(rel string) ([]byte, error) {
	data, err := os.ReadFile(s.writer.Abs(rel))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return data, nil
}

func (s *GenerateService) startJob(ctx context.Context, stats *GenerateStats) (*domain.GenerationJob, error) {
	if s.jobRepo == nil {
		return nil, nil
	}
	job := &domain.GenerationJob{
		ID:            stats.JobID,
		OutputDir:     stats.OutputDir,
		Seed:          stats.Seed,
		GalleryTarget: s.cfg.GalleryTarget,
		Status:        domain.JobStatusRunning,
		StartedAt:     &stats.StartTime,
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to record job: %w", err)
	}
	return job, nil
}

func (s *GenerateService) failJob(ctx context.Context, job *domain.GenerationJob, cause error) {
	if job == nil {
		return
	}
	now := time.Now()
	job.Status = domain.JobStatusFailed
	job.CompletedAt = &now
	job.ErrorLog = cause.Error()
	// the run context may already be cancelled
	if err := s.jobRepo.Update(context.WithoutCancel(ctx), job); err != nil {
		logger.FromContext(ctx).WithError(err).Error("Failed to record job failure")
	}
}

func (s *GenerateService) completeJob(ctx context.Context, job *domain.GenerationJob, assets []*asset, stats *GenerateStats) error {
	if job == nil {
		return nil
	}

	if s.assetRepo != nil {
		records := make([]domain.Asset, 0, len(assets))
		for _, a := range assets {
			records = append(records, domain.Asset{
				ID:             uuid.New().String(),
				JobID:          job.ID,
				Path:           a.item.Path,
				Kind:           a.item.Kind,
				Category:       a.item.Category,
				Title:          a.item.Title,
				SequenceID:     a.item.ID,
				Width:          a.item.Width,
				Height:         a.item.Height,
				PrimaryColor:   a.item.Primary,
				SecondaryColor: a.item.Secondary,
				Icon:           a.item.Icon,
				Padding:        a.item.Padding,
				FileSize:       a.item.Size,
				MD5Hash:        a.item.MD5Hash,
				StorageKey:     a.storageKey,
			})
		}
		if err := s.assetRepo.CreateBatch(ctx, records); err != nil {
			s.failJob(ctx, job, err)
			return fmt.Errorf("failed to record assets: %w", err)
		}
	}

	job.Status = domain.JobStatusCompleted
	job.TotalItems = stats.Total()
	job.PaddingItems = stats.Padding
	job.PreviewItems = stats.Previews
	job.PrunedItems = stats.Pruned
	job.UploadedItems = stats.Uploaded
	job.TotalBytes = stats.Bytes
	job.CompletedAt = &stats.EndTime
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

// previewPath maps "gallery/dishes/dishes_001.svg" to
// "previews/gallery/dishes/dishes_001.png".
func previewPath(rel string) string {
	return path.Join(PreviewDir, rel[:len(rel)-len(path.Ext(rel))]+".png")
}
