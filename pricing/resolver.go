package pricing

import (
	"errors"
	"fmt"
	"strings"
)

// Part is a catalog part as seen by the pricing core. Parts are imported and
// administered elsewhere; this package treats them as read-only.
type Part struct {
	ID                  int     `json:"id"`
	PartNumber          string  `json:"part_number"`
	Series              string  `json:"series"`
	Description         string  `json:"description"`
	ListPrice           float64 `json:"list_price"`
	MinQty              int     `json:"min_qty"`
	DistributorDiscount float64 `json:"distributor_discount"` // percent, 0 = none
}

// ErrPartNotFound is returned when a part number matches nothing in the
// target catalog. Batch operations collect these instead of failing outright.
var ErrPartNotFound = errors.New("part not found in catalog")

// CatalogReader looks up one part by exact part number (or its secondary
// alias) within a single catalog.
type CatalogReader interface {
	FindPart(catalogID int, partNumber string) (*Part, error)
}

// Resolution carries a resolved part together with the authoritative list
// price and minimum order quantity, which may come from the master catalog
// rather than the catalog the part was found in.
type Resolution struct {
	Part      Part    `json:"part"`
	ListPrice float64 `json:"list_price"`
	MinQty    int     `json:"min_qty"`
}

// Resolver resolves free-text part numbers against a catalog, optionally
// cross-referencing the master catalog for authoritative pricing.
type Resolver struct {
	Catalog CatalogReader
}

func NewResolver(catalog CatalogReader) *Resolver {
	return &Resolver{Catalog: catalog}
}

// Resolve finds the part in the given catalog. When a master catalog is
// configured and differs from the requested one, the same part number is
// re-resolved there for the authoritative list price and minimum quantity;
// assignable catalogs may carry stale or placeholder pricing. A failed
// master lookup silently falls back to the local values.
func (r *Resolver) Resolve(partNumber string, catalogID, masterCatalogID int) (*Resolution, error) {
	number := strings.TrimSpace(partNumber)
	if number == "" {
		return nil, fmt.Errorf("empty part number: %w", ErrPartNotFound)
	}

	part, err := r.Catalog.FindPart(catalogID, number)
	if err != nil {
		return nil, err
	}

	res := &Resolution{Part: *part, ListPrice: part.ListPrice, MinQty: part.MinQty}

	if masterCatalogID > 0 && masterCatalogID != catalogID {
		if master, err := r.Catalog.FindPart(masterCatalogID, number); err == nil {
			res.ListPrice = master.ListPrice
			res.MinQty = master.MinQty
		}
	}

	if res.MinQty < 1 {
		res.MinQty = 1
	}
	return res, nil
}

// BatchResult is the outcome of a batch resolve: resolved parts in input
// order plus the raw strings that matched nothing.
type BatchResult struct {
	Found    []Resolution `json:"found"`
	NotFound []string     `json:"not_found"`
}

// ResolveAll resolves raw part number strings, preserving input order.
// Unresolved numbers land in NotFound and the batch itself never fails.
// Duplicate inputs yield duplicate resolutions here; the quote aggregate
// collapses them into one line by summing quantity.
func (r *Resolver) ResolveAll(partNumbers []string, catalogID, masterCatalogID int) BatchResult {
	var result BatchResult
	for _, raw := range partNumbers {
		res, err := r.Resolve(raw, catalogID, masterCatalogID)
		if err != nil {
			result.NotFound = append(result.NotFound, strings.TrimSpace(raw))
			continue
		}
		result.Found = append(result.Found, *res)
	}
	return result
}
