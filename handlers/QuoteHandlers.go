package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"backend/models"
	"backend/pricing"
	"backend/repository"
	"backend/storage"

	"github.com/gin-gonic/gin"
)

// buildQuote resolves and prices the requested parts against a catalog and
// optional contract. Shared by the price-preview and save paths.
func buildQuote(db *sql.DB, catalogID, contractID int, parts []models.PartRequestBody) (*pricing.PriceResult, error) {
	var contract *pricing.PriceContract
	if contractID > 0 {
		var err error
		contract, err = storage.GetPriceContract(db, contractID)
		if err != nil {
			return nil, err
		}
	}
	return priceParts(db, catalogID, contract, parts)
}

// priceParts runs the pricing engine against an already-loaded contract.
func priceParts(db *sql.DB, catalogID int, contract *pricing.PriceContract, parts []models.PartRequestBody) (*pricing.PriceResult, error) {
	masterID, err := storage.GetMasterCatalogID(db)
	if err != nil {
		return nil, err
	}

	requests := make([]pricing.PartRequest, 0, len(parts))
	for _, p := range parts {
		requests = append(requests, pricing.PartRequest{PartNumber: p.PartNumber, Quantity: p.Quantity})
	}

	engine := pricing.NewEngine(storage.NewPartStore(db))
	return engine.BuildQuote(requests, catalogID, masterID, contract)
}

// PriceQuote prices a set of parts without persisting anything.
// @Summary Price a quote
// @Description Resolves and prices the submitted parts. Duplicate part numbers merge into one line before contract thresholds are checked.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body models.PriceQuoteRequest true "Parts to price"
// @Success 200 {object} models.QuoteResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/quote_price [post]
func PriceQuote(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PriceQuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}

		result, err := buildQuote(db, req.CatalogID, req.ContractID, req.Parts)
		if errors.Is(err, storage.ErrContractNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Price contract not found"})
			return
		}
		if errors.Is(err, pricing.ErrEmptyPartList) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No part numbers supplied"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price quote", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.QuoteResponse{
			Quote:    result.Quote,
			Total:    result.Quote.Total(),
			NotFound: result.NotFound,
		})
	}
}

// SaveQuote prices and persists a quote with snapshotted line items.
// @Summary Save a quote
// @Description Prices the submitted parts and stores the quote. A quote number is generated when none is given.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param request body models.SaveQuoteRequest true "Quote to save"
// @Success 201 {object} models.SavedQuoteResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/quotes [post]
func SaveQuote(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SaveQuoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}

		result, err := buildQuote(db, req.CatalogID, req.ContractID, req.Parts)
		if errors.Is(err, pricing.ErrEmptyPartList) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No part numbers supplied"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price quote", "details": err.Error()})
			return
		}

		quote := result.Quote
		quote.CustomerID = req.CustomerID
		quote.CustomerName = req.CustomerName
		quote.Notes = req.Notes
		quote.Terms = req.Terms
		quote.QuoteNumber = req.QuoteNumber
		if quote.QuoteNumber == "" {
			quote.QuoteNumber, err = repository.GenerateQuoteNumber(db, time.Now())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate quote number", "details": err.Error()})
				return
			}
		}
		quote.Revision = repository.GenerateRevisionCode("")

		userID, _ := strconv.Atoi(c.DefaultQuery("user_id", "0"))
		quoteID, err := storage.SaveQuote(db, quote, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save quote", "details": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, models.SavedQuoteResponse{
			ID:          quoteID,
			QuoteNumber: quote.QuoteNumber,
			Revision:    quote.Revision,
			Total:       quote.Total(),
		})
	}
}

// GetQuote loads a saved quote with its items and derived total.
// @Summary Get a quote
// @Tags Quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} models.QuoteResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/quotes/{id} [get]
func GetQuote(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		quoteID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote id"})
			return
		}

		quote, err := storage.GetQuote(db, quoteID)
		if errors.Is(err, storage.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load quote", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.QuoteResponse{Quote: quote, Total: quote.Total()})
	}
}

// ListQuotes lists quote summaries, newest first.
// @Summary List quotes
// @Tags Quotes
// @Produce json
// @Param user_id query int false "Filter by creator"
// @Param limit query int false "Page size (default 25)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.QuoteSummary
// @Failure 500 {object} models.ErrorResponse
// @Router /api/quotes [get]
func ListQuotes(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := strconv.Atoi(c.DefaultQuery("user_id", "0"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		quotes, err := storage.ListQuotes(db, userID, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list quotes", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, quotes)
	}
}

// AddQuoteItems appends parts to a saved quote, merging duplicates.
// @Summary Add items to a quote
// @Description New parts are priced under the quote's catalog and contract; existing lines merge by part and contract thresholds are re-checked on the combined quantity.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param request body models.AddQuoteItemsRequest true "Parts to add"
// @Success 200 {object} models.QuoteResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/quotes/{id}/items [post]
func AddQuoteItems(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		quoteID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote id"})
			return
		}

		var req models.AddQuoteItemsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}

		quote, err := storage.GetQuote(db, quoteID)
		if errors.Is(err, storage.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load quote", "details": err.Error()})
			return
		}

		var contract *pricing.PriceContract
		if quote.ContractID > 0 {
			contract, err = storage.GetPriceContract(db, quote.ContractID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load price contract", "details": err.Error()})
				return
			}
		}

		result, err := priceParts(db, quote.CatalogID, contract, req.Parts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to price new items", "details": err.Error()})
			return
		}

		// A merge can push a line's combined quantity past a contract
		// minimum, so gating is re-run on every line that received items.
		for _, li := range result.Quote.Items {
			quote.AddOrMergeItem(li)
			pricing.RefreshContractGating(quote.Item(li.PartID), contract)
		}
		quote.Revision = repository.GenerateRevisionCode(quote.Revision)
		if err := storage.UpdateQuoteItems(db, quote); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update quote", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, models.QuoteResponse{Quote: quote, Total: quote.Total(), NotFound: result.NotFound})
	}
}

// BulkApplyPricing applies one discount or margin value to selected lines.
// @Summary Bulk apply discount or margin
// @Description Applies exactly one of discount_percent or margin_percent to the selected lines. Contract-locked lines ignore discount changes.
// @Tags Quotes
// @Accept json
// @Produce json
// @Param id path int true "Quote ID"
// @Param request body models.BulkApplyRequest true "Selection and value"
// @Success 200 {object} models.QuoteResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/quotes/{id}/apply [put]
func BulkApplyPricing(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		quoteID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote id"})
			return
		}

		var req models.BulkApplyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}
		if (req.DiscountPercent == nil) == (req.MarginPercent == nil) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Exactly one of discount_percent or margin_percent must be set"})
			return
		}

		quote, err := storage.GetQuote(db, quoteID)
		if errors.Is(err, storage.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load quote", "details": err.Error()})
			return
		}

		if req.DiscountPercent != nil {
			quote.ApplyDiscount(req.PartIDs, *req.DiscountPercent)
		} else {
			quote.ApplyMargin(req.PartIDs, *req.MarginPercent)
		}

		quote.Revision = repository.GenerateRevisionCode(quote.Revision)
		if err := storage.UpdateQuoteItems(db, quote); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update quote", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.QuoteResponse{Quote: quote, Total: quote.Total()})
	}
}

// DeleteQuoteItem removes one line from a saved quote.
// @Summary Remove a quote line
// @Tags Quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Param partId path int true "Part ID of the line to remove"
// @Success 200 {object} models.QuoteResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/quotes/{id}/items/{partId} [delete]
func DeleteQuoteItem(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		quoteID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote id"})
			return
		}
		partID, err := strconv.Atoi(c.Param("partId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid part id"})
			return
		}

		quote, err := storage.GetQuote(db, quoteID)
		if errors.Is(err, storage.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load quote", "details": err.Error()})
			return
		}

		if !quote.RemoveItem(partID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Line item not found"})
			return
		}
		quote.Revision = repository.GenerateRevisionCode(quote.Revision)
		if err := storage.UpdateQuoteItems(db, quote); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update quote", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.QuoteResponse{Quote: quote, Total: quote.Total()})
	}
}

// DeleteQuote removes a quote and all of its lines.
// @Summary Delete a quote
// @Tags Quotes
// @Produce json
// @Param id path int true "Quote ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/quotes/{id} [delete]
func DeleteQuote(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		quoteID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote id"})
			return
		}

		err = storage.DeleteQuote(db, quoteID)
		if errors.Is(err, storage.ErrQuoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete quote", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Quote deleted successfully"})
	}
}
