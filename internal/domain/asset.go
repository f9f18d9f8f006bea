package domain

import "time"

// Asset is one file written by a generation run.
type Asset struct {
	ID             string    `gorm:"type:text;primaryKey" json:"id"`
	JobID          string    `gorm:"type:text;not null;index:idx_assets_job" json:"job_id"`
	Path           string    `gorm:"type:text;not null" json:"path"`
	Kind           ImageKind `gorm:"type:text" json:"kind"`
	Category       Category  `gorm:"type:text;index:idx_assets_category" json:"category"`
	Title          string    `gorm:"type:text" json:"title"`
	SequenceID     string    `gorm:"type:text" json:"sequence_id"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	PrimaryColor   string    `gorm:"type:text" json:"primary_color"`
	SecondaryColor string    `gorm:"type:text" json:"secondary_color"`
	Icon           string    `gorm:"type:text" json:"icon"`
	Padding        bool      `json:"padding"`
	FileSize       int64     `json:"file_size"`
	MD5Hash        string    `gorm:"type:text" json:"md5_hash"`
	StorageKey     string    `gorm:"type:text" json:"storage_key,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName returns the database table name for Asset.
func (Asset) TableName() string {
	return "assets"
}

// CategoryCount is a per-category aggregate of assets.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int64    `json:"count"`
}
