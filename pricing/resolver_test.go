package pricing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog is an in-memory CatalogReader keyed by catalog id and
// uppercased part number.
type fakeCatalog struct {
	parts map[int]map[string]Part
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{parts: make(map[int]map[string]Part)}
}

func (f *fakeCatalog) add(catalogID int, p Part) {
	if f.parts[catalogID] == nil {
		f.parts[catalogID] = make(map[string]Part)
	}
	f.parts[catalogID][strings.ToUpper(p.PartNumber)] = p
}

func (f *fakeCatalog) FindPart(catalogID int, partNumber string) (*Part, error) {
	p, ok := f.parts[catalogID][strings.ToUpper(partNumber)]
	if !ok {
		return nil, fmt.Errorf("part %q in catalog %d: %w", partNumber, catalogID, ErrPartNotFound)
	}
	return &p, nil
}

func TestResolve_LocalCatalog(t *testing.T) {
	cat := newFakeCatalog()
	cat.add(1, Part{ID: 10, PartNumber: "750-352", ListPrice: 10, MinQty: 5})

	r := NewResolver(cat)
	res, err := r.Resolve("750-352", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 10, res.Part.ID)
	assert.Equal(t, 10.0, res.ListPrice)
	assert.Equal(t, 5, res.MinQty)
}

func TestResolve_MasterCatalogOverridesPricing(t *testing.T) {
	cat := newFakeCatalog()
	// Assigned catalog carries placeholder pricing.
	cat.add(2, Part{ID: 10, PartNumber: "750-352", ListPrice: 1, MinQty: 1})
	cat.add(1, Part{ID: 99, PartNumber: "750-352", ListPrice: 10, MinQty: 5})

	r := NewResolver(cat)
	res, err := r.Resolve("750-352", 2, 1)
	require.NoError(t, err)

	// Identity stays with the assigned catalog, pricing with the master.
	assert.Equal(t, 10, res.Part.ID)
	assert.Equal(t, 10.0, res.ListPrice)
	assert.Equal(t, 5, res.MinQty)
}

func TestResolve_MasterLookupFailureFallsBack(t *testing.T) {
	cat := newFakeCatalog()
	cat.add(2, Part{ID: 10, PartNumber: "750-352", ListPrice: 8, MinQty: 2})

	r := NewResolver(cat)
	res, err := r.Resolve("750-352", 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 8.0, res.ListPrice)
	assert.Equal(t, 2, res.MinQty)
}

func TestResolve_NotFound(t *testing.T) {
	r := NewResolver(newFakeCatalog())
	_, err := r.Resolve("missing", 1, 0)
	assert.ErrorIs(t, err, ErrPartNotFound)

	_, err = r.Resolve("   ", 1, 0)
	assert.ErrorIs(t, err, ErrPartNotFound)
}

func TestResolve_MinQtyFloorOfOne(t *testing.T) {
	cat := newFakeCatalog()
	cat.add(1, Part{ID: 1, PartNumber: "A-1", ListPrice: 5, MinQty: 0})

	r := NewResolver(cat)
	res, err := r.Resolve("A-1", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.MinQty)
}

func TestResolveAll_CollectsNotFound(t *testing.T) {
	cat := newFakeCatalog()
	cat.add(1, Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 1})
	cat.add(1, Part{ID: 2, PartNumber: "750-602", ListPrice: 20, MinQty: 1})

	r := NewResolver(cat)
	result := r.ResolveAll([]string{"750-352", "bogus-1", "750-602", " bogus-2 "}, 1, 0)

	require.Len(t, result.Found, 2)
	assert.Equal(t, "750-352", result.Found[0].Part.PartNumber)
	assert.Equal(t, "750-602", result.Found[1].Part.PartNumber)
	assert.Equal(t, []string{"bogus-1", "bogus-2"}, result.NotFound)
}

func TestResolveAll_DuplicatesStayInOrder(t *testing.T) {
	cat := newFakeCatalog()
	cat.add(1, Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 1})

	r := NewResolver(cat)
	result := r.ResolveAll([]string{"750-352", "750-352"}, 1, 0)
	require.Len(t, result.Found, 2)
	assert.Empty(t, result.NotFound)
}
