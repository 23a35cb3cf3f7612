package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"backend/render"
	"backend/storage"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

// GenerateProposalPdf renders a saved quote as a customer-facing proposal PDF.
// @Summary Generate proposal PDF
// @Description Renders the quote with branding logos, paginated line items and a derived total. Missing or unreachable logos fall back to placeholders.
// @Tags Quotes
// @Produce application/pdf
// @Param id path int true "Quote ID"
// @Param user_id query int false "Preparing user (branding source)"
// @Success 200 {file} binary "Proposal PDF"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/quotes/{id}/proposal [get]
func GenerateProposalPdf(db *sql.DB) gin.HandlerFunc {
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

		opts := render.Options{
			Title:     "Quotation Proposal",
			ReviewURL: fmt.Sprintf("%s/quotes/%d", os.Getenv("PORTAL_BASE_URL"), quoteID),
		}
		if userID, _ := strconv.Atoi(c.Query("user_id")); userID > 0 {
			var firstName, lastName, logoURL sql.NullString
			ctx, cancel := utils.GetFastQueryContext(c.Request.Context())
			err := db.QueryRowContext(ctx, `
				SELECT first_name, last_name, logo_url FROM users WHERE id = $1`, userID).
				Scan(&firstName, &lastName, &logoURL)
			cancel()
			if err == nil {
				opts.PreparedBy = firstName.String + " " + lastName.String
				opts.RightLogo = logoURL.String
			}
		}
		opts.LeftLogo = os.Getenv("COMPANY_LOGO_URL")
		if quote.ContractID > 0 {
			if contract, err := storage.GetPriceContract(db, quote.ContractID); err == nil {
				opts.ContractName = contract.Name
			}
		}

		renderer := render.NewRenderer(render.NewImageFetcher(os.Getenv("UPLOAD_DIR")))
		out, err := renderer.Render(quote, opts)
		if errors.Is(err, render.ErrNoLineItems) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quote has no line items"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF", "details": err.Error()})
			return
		}

		filename := fmt.Sprintf("%s.pdf", quote.QuoteNumber)
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		c.Data(http.StatusOK, "application/pdf", out)
	}
}
