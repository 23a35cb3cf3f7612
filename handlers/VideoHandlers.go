package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"backend/models"
	"backend/services"
	"backend/storage"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// CreateVideo adds a video reference to the content library.
// @Summary Create video
// @Tags Videos
// @Accept json
// @Produce json
// @Param request body models.Video true "Video metadata"
// @Success 201 {object} models.Video
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/videos [post]
func CreateVideo(store *storage.LiteratureStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var video models.Video
		if err := c.ShouldBindJSON(&video); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}
		if video.Title == "" || video.VideoURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and video_url are required"})
			return
		}
		if video.Keywords == "" && video.Description != "" {
			video.Keywords = services.KeywordsFromHTML(video.Description, 10)
		}

		if err := store.CreateVideo(&video); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create video", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, video)
	}
}

// SearchVideos searches the video library.
// @Summary Search videos
// @Tags Videos
// @Produce json
// @Param q query string false "Search query"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} models.Video
// @Failure 500 {object} models.ErrorResponse
// @Router /api/videos [get]
func SearchVideos(store *storage.LiteratureStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		videos, err := store.SearchVideos(c.Query("q"), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search videos", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, videos)
	}
}

// DeleteVideo removes a video from the library.
// @Summary Delete video
// @Tags Videos
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/videos/{id} [delete]
func DeleteVideo(store *storage.LiteratureStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video id"})
			return
		}

		err = store.DeleteVideo(uint(id))
		if errors.Is(err, storage.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete video", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Video deleted successfully"})
	}
}

// GetVideoDownloadLink issues a signed, expiring link for a hosted video.
// @Summary Get a signed video link
// @Tags Videos
// @Produce json
// @Param id path int true "Video ID"
// @Param user_id query int false "Requesting user"
// @Success 200 {object} models.DownloadLinkResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/videos/{id}/download-link [get]
func GetVideoDownloadLink(store *storage.LiteratureStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid video id"})
			return
		}

		if _, err := store.GetVideo(uint(id)); errors.Is(err, storage.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load video", "details": err.Error()})
			return
		}

		userID, _ := strconv.Atoi(c.Query("user_id"))
		signed, tokenID, expiresAt, err := utils.GenerateDownloadToken("video", uint(id), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign download link", "details": err.Error()})
			return
		}

		if err := store.RecordDownloadToken(&models.DownloadToken{
			TokenID:   tokenID,
			AssetType: "video",
			AssetID:   uint(id),
			IssuedTo:  userID,
			ExpiresAt: expiresAt,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record download token", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.DownloadLinkResponse{
			URL:       "/api/downloads/redeem?token=" + signed,
			ExpiresAt: expiresAt.Format(time.RFC3339),
		})
	}
}
