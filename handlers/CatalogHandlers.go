package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"backend/models"
	"backend/storage"

	"github.com/gin-gonic/gin"
)

// GetCatalogs lists all catalogs.
// @Summary List catalogs
// @Description Returns every catalog with its part count; the master catalog is flagged.
// @Tags Catalogs
// @Produce json
// @Success 200 {array} models.Catalog
// @Failure 500 {object} models.ErrorResponse
// @Router /api/catalogs [get]
func GetCatalogs(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalogs, err := storage.GetCatalogs(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list catalogs", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, catalogs)
	}
}

// GetAssignedCatalog returns the catalog id a user prices against.
// @Summary Get assigned catalog
// @Description Returns the user's assigned catalog id, falling back to the master catalog.
// @Tags Catalogs
// @Produce json
// @Param user_id query int true "User ID"
// @Success 200 {object} map[string]int
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/catalogs/assigned [get]
func GetAssignedCatalog(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}

		catalogID, err := storage.GetAssignedCatalogID(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get assigned catalog", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"catalog_id": catalogID})
	}
}

// SetMasterCatalog designates the authoritative pricing catalog.
// @Summary Set master catalog
// @Description Flags one catalog as master; pricing for parts in other catalogs cross-references it.
// @Tags Catalogs
// @Accept json
// @Produce json
// @Param request body models.SetMasterCatalogRequest true "Catalog to promote"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/catalogs/master [put]
func SetMasterCatalog(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SetMasterCatalogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}

		if err := storage.SetMasterCatalog(db, req.CatalogID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set master catalog", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Master catalog updated successfully"})
	}
}
