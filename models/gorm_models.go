package models

import "time"

// Literature is a distributable content asset (datasheet, brochure,
// installation guide) attached to parts or series.
type Literature struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	Title       string    `gorm:"column:title" json:"title"`
	DocType     string    `gorm:"column:doc_type" json:"doc_type"`
	PartNumber  string    `gorm:"column:part_number" json:"part_number,omitempty"`
	Series      string    `gorm:"column:series" json:"series,omitempty"`
	Keywords    string    `gorm:"column:keywords" json:"keywords,omitempty"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	FileURL     string    `gorm:"column:file_url" json:"file_url"`
	FileSize    int64     `gorm:"column:file_size" json:"file_size,omitempty"`
	Language    string    `gorm:"column:language" json:"language,omitempty"`
	CreatedBy   int       `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Literature) TableName() string {
	return "literature"
}

// Video is a hosted product video reference in the content library.
type Video struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	Title       string    `gorm:"column:title" json:"title"`
	PartNumber  string    `gorm:"column:part_number" json:"part_number,omitempty"`
	Series      string    `gorm:"column:series" json:"series,omitempty"`
	Keywords    string    `gorm:"column:keywords" json:"keywords,omitempty"`
	Description string    `gorm:"column:description" json:"description,omitempty"`
	VideoURL    string    `gorm:"column:video_url" json:"video_url"`
	Thumbnail   string    `gorm:"column:thumbnail" json:"thumbnail,omitempty"`
	Duration    int       `gorm:"column:duration" json:"duration,omitempty"`
	CreatedBy   int       `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Video) TableName() string {
	return "videos"
}

// DownloadToken records every signed download link issued for an asset so
// expired rows can be swept and usage can be audited.
type DownloadToken struct {
	ID        uint       `gorm:"primaryKey;column:id" json:"id"`
	TokenID   string     `gorm:"column:token_id;uniqueIndex" json:"token_id"`
	AssetType string     `gorm:"column:asset_type" json:"asset_type"`
	AssetID   uint       `gorm:"column:asset_id" json:"asset_id"`
	IssuedTo  int        `gorm:"column:issued_to" json:"issued_to"`
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	UsedAt    *time.Time `gorm:"column:used_at" json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (DownloadToken) TableName() string {
	return "download_tokens"
}
