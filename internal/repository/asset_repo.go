package repository

import (
	"context"

	"github.com/timmy/gustovivo/internal/domain"
	"gorm.io/gorm"
)

const assetBatchSize = 100

// AssetRepository handles records of generated files.
type AssetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// CreateBatch inserts assets in batches.
func (r *AssetRepository) CreateBatch(ctx context.Context, assets []domain.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(assets, assetBatchSize).Error
}

// ListByJob returns the assets of a run ordered by path.
func (r *AssetRepository) ListByJob(ctx context.Context, jobID string) ([]domain.Asset, error) {
	var assets []domain.Asset
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("path ASC").
		Find(&assets).Error
	return assets, err
}

// CountByCategory aggregates the assets of a run per category.
func (r *AssetRepository) CountByCategory(ctx context.Context, jobID string) ([]domain.CategoryCount, error) {
	var counts []domain.CategoryCount
	err := r.db.WithContext(ctx).
		Model(&domain.Asset{}).
		Select("category, COUNT(*) as count").
		Where("job_id = ?", jobID).
		Group("category").
		Order("category ASC").
		Scan(&counts).Error
	return counts, err
}
