package handlers

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"backend/models"
	"backend/storage"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ListPriceContracts lists contract summaries.
// @Summary List price contracts
// @Tags Contracts
// @Produce json
// @Param owner_id query int false "Filter by owner"
// @Success 200 {array} models.PriceContractSummary
// @Failure 500 {object} models.ErrorResponse
// @Router /api/contracts [get]
func ListPriceContracts(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, _ := strconv.Atoi(c.DefaultQuery("owner_id", "0"))
		contracts, err := storage.ListPriceContracts(db, ownerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contracts", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, contracts)
	}
}

// GetPriceContract returns a contract with its items.
// @Summary Get a price contract
// @Tags Contracts
// @Produce json
// @Param id path int true "Contract ID"
// @Success 200 {object} pricing.PriceContract
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/contracts/{id} [get]
func GetPriceContract(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract id"})
			return
		}

		contract, err := storage.GetPriceContract(db, contractID)
		if errors.Is(err, storage.ErrContractNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Price contract not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contract", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, contract)
	}
}

// validateContractItem enforces the binding rules shared by JSON create and
// XLSX import: exactly one binding, positive cost, min quantity at least 1.
func validateContractItem(item *models.PriceContractItemInput) error {
	hasPart := item.PartID > 0
	hasSeries := strings.TrimSpace(item.SeriesOrGroup) != ""
	if hasPart == hasSeries {
		return errors.New("exactly one of part_id or series_or_group must be set")
	}
	if item.CostPrice <= 0 {
		return errors.New("cost_price must be positive")
	}
	if item.MinQuantity < 1 {
		item.MinQuantity = 1
	}
	return nil
}

// CreatePriceContract creates a contract from a JSON payload.
// @Summary Create a price contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body models.CreatePriceContractRequest true "Contract payload"
// @Success 201 {object} map[string]int
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/contracts [post]
func CreatePriceContract(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreatePriceContractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
			return
		}
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Contract must have at least one item"})
			return
		}
		for i := range req.Items {
			if err := validateContractItem(&req.Items[i]); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Item %d invalid", i+1), "details": err.Error()})
				return
			}
		}

		contractID, err := storage.CreatePriceContract(db, &req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contract", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"contract_id": contractID})
	}
}

// ImportPriceContractXLSX creates a contract from an uploaded workbook.
// Expected columns: Part Number | Series | Cost Price | Suggested Sell | Discount % | Min Qty.
// @Summary Import a price contract from XLSX
// @Description Rows bind to a part when Part Number resolves in the catalog, otherwise to the Series column. Unresolvable rows are skipped and reported.
// @Tags Contracts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX workbook"
// @Param name formData string true "Contract name"
// @Param catalog_id formData int true "Catalog for part number resolution"
// @Success 201 {object} models.ContractImportResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/contracts/import [post]
func ImportPriceContractXLSX(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.PostForm("name")
		catalogID, _ := strconv.Atoi(c.PostForm("catalog_id"))
		if name == "" || catalogID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and catalog_id are required"})
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file upload", "details": err.Error()})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open upload", "details": err.Error()})
			return
		}
		defer file.Close()

		workbook, err := excelize.OpenReader(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid XLSX file", "details": err.Error()})
			return
		}
		defer workbook.Close()

		rows, err := workbook.GetRows(workbook.GetSheetName(0))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read sheet", "details": err.Error()})
			return
		}
		if len(rows) < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Workbook has no data rows"})
			return
		}

		store := storage.NewPartStore(db)
		req := models.CreatePriceContractRequest{Name: name}
		var skipped []string

		cell := func(row []string, idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		for i, row := range rows[1:] {
			partNumber := cell(row, 0)
			series := cell(row, 1)
			if partNumber == "" && series == "" {
				continue
			}

			item := models.PriceContractItemInput{SeriesOrGroup: series}
			if partNumber != "" {
				part, err := store.FindPart(catalogID, partNumber)
				if err != nil {
					skipped = append(skipped, fmt.Sprintf("row %d: part %q not found", i+2, partNumber))
					continue
				}
				item.PartID = part.ID
				item.SeriesOrGroup = ""
			}

			item.CostPrice, _ = strconv.ParseFloat(cell(row, 2), 64)
			item.SuggestedSellPrice, _ = strconv.ParseFloat(cell(row, 3), 64)
			item.DiscountPercent, _ = strconv.ParseFloat(strings.TrimSuffix(cell(row, 4), "%"), 64)
			item.MinQuantity, _ = strconv.Atoi(cell(row, 5))

			if err := validateContractItem(&item); err != nil {
				skipped = append(skipped, fmt.Sprintf("row %d: %v", i+2, err))
				continue
			}
			req.Items = append(req.Items, item)
		}

		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No importable rows found", "details": strings.Join(skipped, "; ")})
			return
		}

		contractID, err := storage.CreatePriceContract(db, &req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contract", "details": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, models.ContractImportResponse{
			ContractID: contractID,
			Imported:   len(req.Items),
			Skipped:    skipped,
		})
	}
}

// ExportPriceContractXLSX downloads a contract as a styled workbook.
// @Summary Export a price contract to XLSX
// @Tags Contracts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Contract ID"
// @Success 200 {file} binary "XLSX workbook"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/contracts/{id}/export [get]
func ExportPriceContractXLSX(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		contractID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract id"})
			return
		}

		contract, err := storage.GetPriceContract(db, contractID)
		if errors.Is(err, storage.ErrContractNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Price contract not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load contract", "details": err.Error()})
			return
		}

		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetName(0)

		headerStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		})
		headers := []string{"Part ID", "Series/Group", "Cost Price", "Suggested Sell", "Discount %", "Min Qty"}
		for i, h := range headers {
			cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cellName, h)
			f.SetCellStyle(sheet, cellName, cellName, headerStyle)
		}
		f.SetColWidth(sheet, "A", "F", 16)

		for i, item := range contract.Items {
			rowNum := i + 2
			values := []interface{}{item.PartID, item.SeriesOrGroup, item.CostPrice,
				item.SuggestedSellPrice, item.DiscountPercent, item.MinQuantity}
			for j, v := range values {
				cellName, _ := excelize.CoordinatesToCellName(j+1, rowNum)
				f.SetCellValue(sheet, cellName, v)
			}
		}

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write workbook", "details": err.Error()})
			return
		}

		filename := strings.ReplaceAll(contract.Name, " ", "_") + ".xlsx"
		c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=%s", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}

// RequireContractRole rejects callers whose role may not manage contracts.
// Role comes from the upstream gateway header; this service trusts it.
func RequireContractRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := utils.NormalizeRole(c.GetHeader("X-User-Role"))
		if !utils.CanManageContracts(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role may not manage contracts"})
			return
		}
		c.Next()
	}
}
