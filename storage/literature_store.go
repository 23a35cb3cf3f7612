package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"backend/models"

	"gorm.io/gorm"
)

var ErrAssetNotFound = errors.New("asset not found")

// LiteratureStore wraps content-library persistence behind GORM.
type LiteratureStore struct {
	DB *gorm.DB
}

func NewLiteratureStore(db *gorm.DB) *LiteratureStore {
	return &LiteratureStore{DB: db}
}

func (s *LiteratureStore) CreateLiterature(doc *models.Literature) error {
	if err := s.DB.Create(doc).Error; err != nil {
		return fmt.Errorf("create literature: %v", err)
	}
	return nil
}

func (s *LiteratureStore) GetLiterature(id uint) (*models.Literature, error) {
	var doc models.Literature
	err := s.DB.First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get literature %d: %v", id, err)
	}
	return &doc, nil
}

func (s *LiteratureStore) UpdateLiterature(doc *models.Literature) error {
	if err := s.DB.Save(doc).Error; err != nil {
		return fmt.Errorf("update literature %d: %v", doc.ID, err)
	}
	return nil
}

func (s *LiteratureStore) DeleteLiterature(id uint) error {
	result := s.DB.Delete(&models.Literature{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete literature %d: %v", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

// SearchLiterature matches documents by part number (exact,
// case-insensitive), series, or keyword/title substring. An empty query
// lists everything, newest first.
func (s *LiteratureStore) SearchLiterature(query, docType string, limit int) ([]models.Literature, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	tx := s.DB.Model(&models.Literature{})
	query = strings.TrimSpace(query)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		tx = tx.Where(
			"LOWER(part_number) = ? OR LOWER(series) = ? OR LOWER(title) LIKE ? OR LOWER(keywords) LIKE ?",
			strings.ToLower(query), strings.ToLower(query), like, like)
	}
	if docType != "" {
		tx = tx.Where("doc_type = ?", docType)
	}

	var docs []models.Literature
	if err := tx.Order("created_at DESC").Limit(limit).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("search literature: %v", err)
	}
	return docs, nil
}

func (s *LiteratureStore) CreateVideo(video *models.Video) error {
	if err := s.DB.Create(video).Error; err != nil {
		return fmt.Errorf("create video: %v", err)
	}
	return nil
}

func (s *LiteratureStore) GetVideo(id uint) (*models.Video, error) {
	var video models.Video
	err := s.DB.First(&video, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get video %d: %v", id, err)
	}
	return &video, nil
}

func (s *LiteratureStore) DeleteVideo(id uint) error {
	result := s.DB.Delete(&models.Video{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete video %d: %v", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func (s *LiteratureStore) SearchVideos(query string, limit int) ([]models.Video, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	tx := s.DB.Model(&models.Video{})
	query = strings.TrimSpace(query)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		tx = tx.Where(
			"LOWER(part_number) = ? OR LOWER(series) = ? OR LOWER(title) LIKE ? OR LOWER(keywords) LIKE ?",
			strings.ToLower(query), strings.ToLower(query), like, like)
	}

	var videos []models.Video
	if err := tx.Order("created_at DESC").Limit(limit).Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("search videos: %v", err)
	}
	return videos, nil
}

// RecordDownloadToken logs an issued signed link for auditing and cleanup.
func (s *LiteratureStore) RecordDownloadToken(token *models.DownloadToken) error {
	if err := s.DB.Create(token).Error; err != nil {
		return fmt.Errorf("record download token: %v", err)
	}
	return nil
}

// MarkTokenUsed stamps the first redemption; later redemptions within the
// validity window are allowed but not re-stamped.
func (s *LiteratureStore) MarkTokenUsed(tokenID string) error {
	now := time.Now()
	return s.DB.Model(&models.DownloadToken{}).
		Where("token_id = ? AND used_at IS NULL", tokenID).
		Update("used_at", &now).Error
}

// CleanupExpiredTokens removes download-token rows past their expiry.
// Runs from the nightly cron job.
func (s *LiteratureStore) CleanupExpiredTokens() (int64, error) {
	result := s.DB.Where("expires_at < ?", time.Now()).Delete(&models.DownloadToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("cleanup expired tokens: %v", result.Error)
	}
	return result.RowsAffected, nil
}
