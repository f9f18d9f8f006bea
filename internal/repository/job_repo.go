package repository

import (
	"context"

	"github.com/timmy/gustovivo/internal/domain"
	"gorm.io/gorm"
)

// JobRepository handles generation run records.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new run record.
func (r *JobRepository) Create(ctx context.Context, job *domain.GenerationJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// Update saves every field of an existing run record.
func (r *JobRepository) Update(ctx context.Context, job *domain.GenerationJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// GetByID retrieves a run by its ID.
// Returns gorm.ErrRecordNotFound when it does not exist.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.GenerationJob, error) {
	var job domain.GenerationJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ListRecent returns the latest runs, newest first.
func (r *JobRepository) ListRecent(ctx context.Context, limit int) ([]domain.GenerationJob, error) {
	var jobs []domain.GenerationJob
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
