package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"backend/models"
	"backend/services"
	"backend/storage"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// CreateLiterature adds a document to the content library. Keywords are
// extracted from the description when none are supplied.
// @Summary Create literature
// @Tags Literature
// @Accept json
// @Produce json
// @Param request body models.Literature true "Document metadata"
// @Success 201 {object} models.Literature
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/literature [post]
func CreateLiterature(store *storage.LiteratureStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc models.Literature
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}
		if doc.Title == "" || doc.FileURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and file_url are required"})
			return
		}
		if doc.Keywords == "" && doc.Description != "" {
			doc.Keywords = services.KeywordsFromHTML(doc.Description, 10)
		}

		if err := store.CreateLiterature(&doc); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create literature", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, doc)
	}
}

// SearchLiterature searches the document library.
// @Summary Search literature
// @Description Matches part number or series exactly (case-insensitive) and title/keywords by substring.
// @Tags Literature
// @Produce json
// @Param q query string false "Search query"
// @Param doc_type query string false "Filter by document type"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} models.Literature
// @Failure 500 {object} models.ErrorResponse
// @Router /api/literature [get]
func SearchLiterature(store *storage.LiteratureStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		docs, err := store.SearchLiterature(c.Query("q"), c.Query("doc_type"), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search literature", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, docs)
	}
}

// DeleteLiterature removes a document from the library.
// @Summary Delete literature
// @Tags Literature
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/literature/{id} [delete]
func DeleteLiterature(store *storage.LiteratureStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document id"})
			return
		}

		err = store.DeleteLiterature(uint(id))
		if errors.Is(err, storage.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete literature", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Document deleted successfully"})
	}
}

// GetLiteratureDownloadLink issues a signed, expiring download URL.
// @Summary Get a signed download link
// @Description The link expires after 15 minutes. Every issued link is logged for auditing.
// @Tags Literature
// @Produce json
// @Param id path int true "Document ID"
// @Param user_id query int false "Requesting user"
// @Success 200 {object} models.DownloadLinkResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/literature/{id}/download-link [get]
func GetLiteratureDownloadLink(store *storage.LiteratureStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document id"})
			return
		}

		if _, err := store.GetLiterature(uint(id)); errors.Is(err, storage.ErrAssetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document", "details": err.Error()})
			return
		}

		userID, _ := strconv.Atoi(c.Query("user_id"))
		signed, tokenID, expiresAt, err := utils.GenerateDownloadToken("literature", uint(id), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign download link", "details": err.Error()})
			return
		}

		if err := store.RecordDownloadToken(&models.DownloadToken{
			TokenID:   tokenID,
			AssetType: "literature",
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

// RedeemDownloadLink validates a signed link and redirects to the file.
// @Summary Redeem a signed download link
// @Tags Literature
// @Produce json
// @Param token query string true "Signed download token"
// @Success 302 "Redirect to the asset file"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 410 {object} models.ErrorResponse
// @Router /api/downloads/redeem [get]
func RedeemDownloadLink(store *storage.LiteratureStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
			return
		}

		claims, err := utils.ValidateDownloadToken(tokenStr)
		if err != nil {
			c.JSON(http.StatusGone, gin.H{"error": "Download link is invalid or expired", "details": err.Error()})
			return
		}

		var fileURL string
		switch claims.AssetType {
		case "literature":
			doc, err := store.GetLiterature(claims.AssetID)
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Document no longer exists"})
				return
			}
			fileURL = doc.FileURL
		case "video":
			video, err := store.GetVideo(claims.AssetID)
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Video no longer exists"})
				return
			}
			fileURL = video.VideoURL
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown asset type"})
			return
		}

		if err := store.MarkTokenUsed(claims.TokenID); err != nil {
			// Redemption logging must not block the download itself.
			log.Printf("Failed to mark download token used: %v", err)
		}
		c.Redirect(http.StatusFound, fileURL)
	}
}
