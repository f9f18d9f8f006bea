package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/timmy/gustovivo/internal/domain"
	"github.com/timmy/gustovivo/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrHistoryDisabled is returned when run history is not configured.
	ErrHistoryDisabled = errors.New("run history is disabled")
	// ErrJobNotFound is returned for an unknown run ID.
	ErrJobNotFound = errors.New("job not found")
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// JobSummary is a recorded run with its per-category gallery counts.
type JobSummary struct {
	domain.GenerationJob
	Categories []domain.CategoryCount `json:"categories,omitempty"`
}

// JobDetail is a recorded run with every asset it wrote.
type JobDetail struct {
	JobSummary
	Assets []domain.Asset `json:"assets"`
}

// HistoryService reads recorded generation runs.
type HistoryService struct {
	jobRepo   *repository.JobRepository
	assetRepo *repository.AssetRepository
}

// NewHistoryService creates a history service. Nil repositories disable it.
func NewHistoryService(jobRepo *repository.JobRepository, assetRepo *repository.AssetRepository) *HistoryService {
	return &HistoryService{jobRepo: jobRepo, assetRepo: assetRepo}
}

// Enabled reports whether history is backed by a database.
func (s *HistoryService) Enabled() bool {
	return s != nil && s.jobRepo != nil
}

// ListRecent returns the latest runs, newest first.
// limit is clamped to 1..100; zero selects the default.
func (s *HistoryService) ListRecent(ctx context.Context, limit int) ([]JobSummary, error) {
	if !s.Enabled() {
		return nil, ErrHistoryDisabled
	}

	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	jobs, err := s.jobRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	summaries := make([]JobSummary, 0, len(jobs))
	for _, job := range jobs {
		summary := JobSummary{GenerationJob: job}
		if s.assetRepo != nil {
			counts, err := s.assetRepo.CountByCategory(ctx, job.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to count assets for job %s: %w", job.ID, err)
			}
			summary.Categories = counts
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetJob returns one run with its assets ordered by path.
func (s *HistoryService) GetJob(ctx context.Context, id string) (*JobDetail, error) {
	if !s.Enabled() {
		return nil, ErrHistoryDisabled
	}

	job, err := s.jobRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job %s: %w", id, err)
	}

	detail := &JobDetail{JobSummary: JobSummary{GenerationJob: *job}, Assets: []domain.Asset{}}
	if s.assetRepo == nil {
		return detail, nil
	}

	detail.Assets, err = s.assetRepo.ListByJob(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets for job %s: %w", id, err)
	}
	detail.Categories, err = s.assetRepo.CountByCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count assets for job %s: %w", id, err)
	}
	return detail, nil
}
