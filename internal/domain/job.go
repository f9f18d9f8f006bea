package domain

import "time"

// JobStatus represents the status of a generation run.
// Values include JobStatusRunning, JobStatusCompleted, and JobStatusFailed.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// GenerationJob records one run of the generator and its outcome.
type GenerationJob struct {
	ID            string     `gorm:"type:text;primaryKey" json:"id"`
	OutputDir     string     `gorm:"type:text;not null" json:"output_dir"`
	Seed          uint64     `json:"seed"`
	GalleryTarget int        `gorm:"default:300" json:"gallery_target"`
	Status        JobStatus  `gorm:"type:text;index;default:running" json:"status"`
	TotalItems    int        `gorm:"default:0" json:"total_items"`
	PaddingItems  int        `gorm:"default:0" json:"padding_items"`
	PreviewItems  int        `gorm:"default:0" json:"preview_items"`
	PrunedItems   int        `gorm:"default:0" json:"pruned_items"`
	UploadedItems int        `gorm:"default:0" json:"uploaded_items"`
	TotalBytes    int64      `gorm:"default:0" json:"total_bytes"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ErrorLog      string     `json:"error_log,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName returns the database table name for GenerationJob.
func (GenerationJob) TableName() string {
	return "generation_jobs"
}
