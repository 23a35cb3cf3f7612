package render

import (
	"errors"
	"fmt"
	"testing"

	"backend/pricing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingFetcher struct{}

func (failingFetcher) Fetch(ref string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func syntheticQuote(n int) *pricing.Quote {
	q := pricing.NewQuote()
	q.QuoteNumber = "Q-TEST-001"
	q.CustomerName = "acme controls"
	for i := 1; i <= n; i++ {
		q.AddOrMergeItem(pricing.LineItem{
			PartID:      i,
			PartNumber:  fmt.Sprintf("750-%03d", i),
			Description: "Terminal block",
			ListPrice:   10,
			Quantity:    2,
		})
	}
	return q
}

func TestRender_EmptyQuoteRejected(t *testing.T) {
	r := NewRenderer(nil)

	_, err := r.Render(nil, Options{})
	assert.ErrorIs(t, err, ErrNoLineItems)

	_, err = r.Render(pricing.NewQuote(), Options{})
	assert.ErrorIs(t, err, ErrNoLineItems)
}

func TestRender_ProducesPDFBytes(t *testing.T) {
	r := NewRenderer(nil)
	out, err := r.Render(syntheticQuote(3), Options{ReviewURL: "https://portal.example.com/quotes/1"})
	require.NoError(t, err)
	assert.True(t, len(out) > 1000)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestRender_ImageFailureFallsBackToPlaceholder(t *testing.T) {
	// Logo fetch failures must never abort PDF generation.
	r := NewRenderer(failingFetcher{})
	out, err := r.Render(syntheticQuote(2), Options{
		LeftLogo:  "https://img.example.com/missing.png",
		RightLogo: "legacy/uploads/logo.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestBuildDocument_PaginationDeterminism(t *testing.T) {
	capacity := maxRowsPerPage()
	require.Equal(t, 20, capacity)

	cases := []struct {
		items     int
		wantPages int
	}{
		{1, 1},
		{capacity - 1, 1},
		{capacity, 1},
		{capacity + 1, 2},
		{2 * capacity, 2},
		{2*capacity + 1, 3},
		{3*capacity + 7, 4},
	}

	r := NewRenderer(nil)
	for _, tc := range cases {
		pdf, stats, err := r.buildDocument(syntheticQuote(tc.items), Options{})
		require.NoError(t, err, "items=%d", tc.items)
		assert.Equal(t, tc.wantPages, pdf.PageCount(), "items=%d", tc.items)
		assert.Equal(t, tc.wantPages, stats.pages, "items=%d", tc.items)
		// Every page except the last ends with a continuation footer.
		assert.Equal(t, tc.wantPages-1, stats.continuationFooters, "items=%d", tc.items)
	}
}

func TestTruncateToWidth(t *testing.T) {
	r := NewRenderer(nil)
	pdf, _, err := r.buildDocument(syntheticQuote(1), Options{})
	require.NoError(t, err)

	pdf.SetFont("Arial", "", 9)
	long := "An exceptionally long part description that cannot possibly fit in one table column"
	short := truncateToWidth(pdf, long, 58)
	assert.True(t, pdf.GetStringWidth(short) <= 58)
	assert.Contains(t, short, "...")
	assert.Equal(t, "ok", truncateToWidth(pdf, "ok", 58))
}
