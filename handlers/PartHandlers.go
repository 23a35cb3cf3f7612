package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"backend/models"
	"backend/pricing"
	"backend/storage"

	"github.com/gin-gonic/gin"
)

// SearchParts searches parts in a catalog by part number, series or description.
// @Summary Search catalog parts
// @Description Substring search across part number, series and description within one catalog.
// @Tags Parts
// @Accept json
// @Produce json
// @Param catalog_id query int true "Catalog ID"
// @Param q query string false "Search query"
// @Param limit query int false "Max rows (default 50)"
// @Success 200 {array} models.PartRow
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/parts/search [get]
func SearchParts(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalogID, err := strconv.Atoi(c.Query("catalog_id"))
		if err != nil || catalogID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid catalog_id"})
			return
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

		parts, err := storage.SearchParts(db, catalogID, c.Query("q"), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search parts", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, parts)
	}
}

// ResolveParts resolves raw part number strings against a catalog, with
// master-catalog cross-reference pricing when one is configured.
// @Summary Resolve part numbers
// @Description Exact, case-insensitive resolution of part numbers. Unknown numbers come back in not_found; known parts carry master-catalog pricing when available.
// @Tags Parts
// @Accept json
// @Produce json
// @Param request body models.ResolvePartsRequest true "Part numbers to resolve"
// @Success 200 {object} models.ResolvePartsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/parts/resolve [post]
func ResolveParts(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ResolvePartsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}

		masterID, err := storage.GetMasterCatalogID(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load master catalog", "details": err.Error()})
			return
		}

		resolver := pricing.NewResolver(storage.NewPartStore(db))
		result := resolver.ResolveAll(req.PartNumbers, req.CatalogID, masterID)

		resp := models.ResolvePartsResponse{NotFound: result.NotFound}
		for _, res := range result.Found {
			resp.Found = append(resp.Found, models.PartRow{
				ID:                  res.Part.ID,
				CatalogID:           req.CatalogID,
				PartNumber:          res.Part.PartNumber,
				Series:              res.Part.Series,
				Description:         res.Part.Description,
				ListPrice:           res.ListPrice,
				MinQty:              res.MinQty,
				DistributorDiscount: res.Part.DistributorDiscount,
			})
		}
		c.JSON(http.StatusOK, resp)
	}
}
