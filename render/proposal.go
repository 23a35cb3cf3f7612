package render

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"time"

	"backend/pricing"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNoLineItems is returned when a proposal is rendered for a quote with no
// lines. Decorative asset failures, by contrast, never abort a render.
var ErrNoLineItems = errors.New("quote has no line items")

// Fixed page geometry (mm, A4 portrait). Row height is constant catalog-wide
// so pagination stays deterministic: the table region is identical on every
// page and the closing block lives in the reserved band below the table
// floor.
const (
	pageLeft   = 10.0
	tableWidth = 190.0

	rowHeight   = 8.0
	tableTopY   = 66.0  // first row on every page
	tableFloorY = 230.0 // no row starts at or past here
)

// Column widths, left to right. Sum is tableWidth.
var colWidths = [8]float64{34, 60, 12, 16, 12, 14, 18, 24}

var colTitles = [8]string{"Part Number", "Description", "Qty", "List", "Disc %", "Margin %", "Sell", "Total"}

// maxRowsPerPage is the fixed per-page line item capacity. A row that would
// start past the floor spills to the next page, so any fractional remainder
// of the band is unusable.
func maxRowsPerPage() int {
	band := (tableFloorY - tableTopY) / rowHeight
	return int(band)
}

// Options carries the presentation inputs that are not part of the quote
// aggregate itself.
type Options struct {
	Title        string // defaults to "Proposal"
	LeftLogo     string // manufacturer/RSM logo: URL or legacy relative path
	RightLogo    string // distributor logo
	PreparedBy   string
	ContractName string
	ReviewURL    string // online quote review link, rendered as a QR code
}

// Renderer serializes a finalized quote into a paginated proposal PDF.
type Renderer struct {
	Images ImageFetcher
}

func NewRenderer(images ImageFetcher) *Renderer {
	return &Renderer{Images: images}
}

type renderStats struct {
	pages               int
	continuationFooters int
}

// Render produces the proposal PDF as a byte buffer. Suggested content type
// is application/pdf with filename "<quote-number>.pdf".
func (r *Renderer) Render(q *pricing.Quote, opts Options) ([]byte, error) {
	pdf, _, err := r.buildDocument(q, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write proposal pdf: %v", err)
	}
	return buf.Bytes(), nil
}

// fetchOrNil resolves one decorative image. Fetch failures are logged and
// swallowed; the caller draws a placeholder for a nil buffer.
func (r *Renderer) fetchOrNil(ref string) []byte {
	if r.Images == nil || ref == "" {
		return nil
	}
	img, err := r.Images.Fetch(ref)
	if err != nil {
		log.Printf("proposal render: image %s unavailable: %v", ref, err)
		return nil
	}
	return img
}

func (r *Renderer) buildDocument(q *pricing.Quote, opts Options) (*gofpdf.Fpdf, renderStats, error) {
	var stats renderStats
	if q == nil || len(q.Items) == 0 {
		return nil, stats, ErrNoLineItems
	}

	title := opts.Title
	if title == "" {
		title = "Proposal"
	}

	// Fetch phase. All image and network IO happens before the first drawing
	// call so page breaks, and with them the total page count, are never
	// corrupted by interleaved IO.
	leftLogo := r.fetchOrNil(opts.LeftLogo)
	rightLogo := r.fetchOrNil(opts.RightLogo)
	var reviewQR []byte
	if opts.ReviewURL != "" {
		if png, err := qrcode.Encode(opts.ReviewURL, qrcode.Medium, 200); err == nil {
			reviewQR = png
		} else {
			log.Printf("proposal render: review QR skipped: %v", err)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	titleCaser := cases.Title(language.Und)

	jpgOpts := gofpdf.ImageOptions{ImageType: "JPEG"}
	pngOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	if leftLogo != nil {
		pdf.RegisterImageOptionsReader("left_logo", jpgOpts, bytes.NewReader(leftLogo))
	}
	if rightLogo != nil {
		pdf.RegisterImageOptionsReader("right_logo", jpgOpts, bytes.NewReader(rightLogo))
	}
	if reviewQR != nil {
		pdf.RegisterImageOptionsReader("review_qr", pngOpts, bytes.NewReader(reviewQR))
	}

	logoPlaceholder := func(x float64) {
		pdf.SetFillColor(235, 235, 235)
		pdf.Rect(x, 12, 40, 12, "F")
		pdf.SetTextColor(170, 170, 170)
		pdf.SetFont("Arial", "", 8)
		pdf.SetXY(x, 16)
		pdf.CellFormat(40, 4, "LOGO", "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pageHeader := func() {
		pdf.AddPage()

		if leftLogo != nil {
			pdf.ImageOptions("left_logo", pageLeft, 12, 0, 12, false, jpgOpts, 0, "")
		} else {
			logoPlaceholder(pageLeft)
		}
		if rightLogo != nil {
			pdf.ImageOptions("right_logo", 160, 12, 0, 12, false, jpgOpts, 0, "")
		} else {
			logoPlaceholder(160)
		}

		pdf.SetFont("Arial", "B", 18)
		pdf.SetXY(pageLeft, 14)
		pdf.CellFormat(tableWidth, 10, tr(title), "", 0, "C", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		pdf.SetXY(pageLeft, 30)
		meta := fmt.Sprintf("Quote %s  |  %s  |  Page %d of {nb}",
			q.QuoteNumber, time.Now().Format("02-Jan-2006"), pdf.PageNo())
		pdf.CellFormat(tableWidth, 5, meta, "", 0, "R", false, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetXY(pageLeft, 40)
		pdf.Cell(30, 6, "Prepared for:")
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(90, 6, tr(titleCaser.String(q.CustomerName)))
		if opts.PreparedBy != "" {
			pdf.SetFont("Arial", "B", 10)
			pdf.SetXY(pageLeft, 46)
			pdf.Cell(30, 6, "Prepared by:")
			pdf.SetFont("Arial", "", 10)
			pdf.Cell(90, 6, tr(opts.PreparedBy))
		}
		if opts.ContractName != "" {
			pdf.SetFont("Arial", "B", 10)
			pdf.SetXY(pageLeft, 52)
			pdf.Cell(30, 6, "Price contract:")
			pdf.SetFont("Arial", "", 10)
			pdf.Cell(90, 6, tr(opts.ContractName))
		}
		stats.pages++
	}

	tableHeader := func() {
		pdf.SetFillColor(230, 230, 230)
		pdf.SetFont("Arial", "B", 9)
		pdf.SetXY(pageLeft, tableTopY-rowHeight)
		for i, w := range colWidths {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(w, rowHeight, colTitles[i], "1", 0, align, true, 0, "")
		}
		pdf.SetY(tableTopY)
	}

	continuationFooter := func() {
		pdf.SetFont("Arial", "I", 8)
		pdf.SetXY(pageLeft, tableFloorY+4)
		pdf.CellFormat(tableWidth, 5, "Continued on next page...", "", 0, "R", false, 0, "")
		stats.continuationFooters++
	}

	drawRow := func(idx int, li pricing.LineItem) {
		y := tableTopY + float64(idx%maxRowsPerPage())*rowHeight
		if idx%2 == 1 {
			pdf.SetFillColor(245, 245, 245)
			pdf.Rect(pageLeft, y, tableWidth, rowHeight, "F")
		}

		pdf.SetFont("Arial", "", 9)
		pdf.SetXY(pageLeft, y)
		pdf.Cell(colWidths[0], rowHeight, li.PartNumber)

		// Footnote markers sit right after the measured part number; a fixed
		// offset misaligned variable-width part numbers in an earlier build.
		marker := ""
		if li.IsCostAffected {
			marker += "*"
		}
		if li.IsSellAffected {
			marker += tr("†")
		}
		if marker != "" {
			labelWidth := pdf.GetStringWidth(li.PartNumber)
			pdf.SetTextColor(192, 0, 0)
			pdf.SetFont("Arial", "B", 9)
			pdf.Text(pageLeft+labelWidth+1.5, y+5.5, marker)
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Arial", "", 9)
		}

		pdf.SetXY(pageLeft+colWidths[0], y)
		pdf.Cell(colWidths[1], rowHeight, tr(truncateToWidth(pdf, li.Description, colWidths[1]-2)))
		pdf.CellFormat(colWidths[2], rowHeight, fmt.Sprintf("%d", li.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], rowHeight, fmt.Sprintf("%.2f", li.ListPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], rowHeight, fmt.Sprintf("%.1f", li.DiscountPct), "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[5], rowHeight, fmt.Sprintf("%.1f", li.MarginPct), "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[6], rowHeight, fmt.Sprintf("%.2f", li.SellPrice()), "", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[7], rowHeight, fmt.Sprintf("%.2f", li.LineTotal()), "", 1, "R", false, 0, "")
	}

	pageHeader()
	tableHeader()
	for i, li := range q.Items {
		if i > 0 && i%maxRowsPerPage() == 0 {
			continuationFooter()
			pageHeader()
			tableHeader()
		}
		drawRow(i, li)
	}

	// Closing block in the reserved band below the table floor.
	y := tableFloorY + 4
	pdf.SetFont("Arial", "B", 11)
	pdf.SetXY(pageLeft, y)
	pdf.Cell(colWidths[0]+colWidths[1]+colWidths[2]+colWidths[3]+colWidths[4]+colWidths[5], 8, "Quote Total")
	pdf.CellFormat(colWidths[6]+colWidths[7], 8, fmt.Sprintf("$%.2f", q.Total()), "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 8)
	pdf.SetXY(pageLeft, y+10)
	pdf.Cell(tableWidth, 4, tr("* price includes a discount    † sell price set by price contract"))

	if q.Notes != "" {
		pdf.SetFont("Arial", "I", 8)
		pdf.SetXY(pageLeft, y+16)
		pdf.MultiCell(140, 4, tr(q.Notes), "", "L", false)
	}
	if q.Terms != "" {
		pdf.SetFont("Arial", "", 7)
		pdf.SetXY(pageLeft, y+28)
		pdf.MultiCell(140, 3.5, tr(q.Terms), "", "L", false)
	}

	if reviewQR != nil {
		pdf.ImageOptions("review_qr", 172, y+14, 28, 28, false, pngOpts, 0, "")
		pdf.SetFont("Arial", "", 6)
		pdf.SetXY(172, y+42)
		pdf.CellFormat(28, 3, "Review online", "", 0, "C", false, 0, "")
	}

	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.Cell(tableWidth, 5, "This is a computer-generated proposal. Prices are valid for 30 days unless stated otherwise.")

	return pdf, stats, nil
}

// truncateToWidth trims a string with an ellipsis so it fits the column.
func truncateToWidth(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
