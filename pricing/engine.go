package pricing

import (
	"errors"
	"strings"
)

// ErrEmptyPartList is returned when a pricing request carries no parts.
var ErrEmptyPartList = errors.New("no part numbers supplied")

// LineItem is one priced quote row. Part fields are snapshotted at add time
// so later catalog edits do not rewrite historical quotes.
type LineItem struct {
	PartID      int     `json:"part_id"`
	PartNumber  string  `json:"part_number"`
	Series      string  `json:"series"`
	Description string  `json:"description"`
	ListPrice   float64 `json:"list_price"`
	MinQty      int     `json:"min_qty"`
	Quantity    int     `json:"quantity"`
	DiscountPct float64 `json:"discount_percent"`
	MarginPct   float64 `json:"margin_percent"`

	// CostPrice is the contract cost; 0 unless the line is contract-sourced.
	CostPrice float64 `json:"cost_price"`

	IsCostAffected bool `json:"is_cost_affected"` // discount > 0
	IsSellAffected bool `json:"is_sell_affected"` // sell came from a contract suggested price
	DiscountLocked bool `json:"discount_locked"`  // contract-governed, not user-editable
}

// UnitCost is the buyer's cost for one unit: the contract cost when the line
// is contract-sourced, otherwise list price less discount.
func (li LineItem) UnitCost() float64 {
	if li.DiscountLocked && li.CostPrice > 0 {
		return li.CostPrice
	}
	return li.ListPrice * (1 - li.DiscountPct/100)
}

// SellPrice applies the margin on top of unit cost.
func (li LineItem) SellPrice() float64 {
	return li.UnitCost() * (1 + li.MarginPct/100)
}

// LineTotal is quantity times sell price.
func (li LineItem) LineTotal() float64 {
	return float64(li.Quantity) * li.SellPrice()
}

// PriceLine builds a priced line item from a resolved part. A quantityHint
// of 0 means "catalog minimum"; a hint below the minimum is raised to it so
// an order is never silently placed below the catalog floor.
//
// A matching contract entry applies only when the quantity reaches its
// minimum; a bulk-tier rate must not leak into a sub-threshold order. When
// it applies, cost comes from the contract, the discount is taken from the
// contract override or back-derived from cost against list, and the line's
// discount is locked against user edits. A contract suggested sell price
// back-derives the margin and flags the line as sell-affected.
//
// Without a contract entry, the distributor's standing discount reduces the
// cost while the default margin is back-calculated so the sell price stays
// at list until the user intentionally adjusts it.
func PriceLine(res Resolution, contract *PriceContract, quantityHint int) LineItem {
	li := LineItem{
		PartID:      res.Part.ID,
		PartNumber:  res.Part.PartNumber,
		Series:      res.Part.Series,
		Description: res.Part.Description,
		ListPrice:   res.ListPrice,
		MinQty:      res.MinQty,
		Quantity:    quantityHint,
	}
	if li.Quantity < res.MinQty {
		li.Quantity = res.MinQty
	}

	item := MatchContractItem(res.Part, contract)
	if item != nil && li.Quantity >= item.MinQuantity {
		li.CostPrice = item.CostPrice
		li.DiscountLocked = true
		if item.DiscountPercent > 0 {
			li.DiscountPct = item.DiscountPercent
		} else if li.ListPrice > 0 {
			li.DiscountPct = (1 - item.CostPrice/li.ListPrice) * 100
		}
		if item.SuggestedSellPrice > 0 && item.CostPrice > 0 {
			li.MarginPct = (item.SuggestedSellPrice/item.CostPrice - 1) * 100
			li.IsSellAffected = true
		}
	} else {
		li.DiscountPct = res.Part.DistributorDiscount
		if li.DiscountPct > 0 {
			li.MarginPct = 100 * (1/(1-li.DiscountPct/100) - 1)
		}
	}

	li.IsCostAffected = li.DiscountPct > 0
	return li
}

// RefreshContractGating re-evaluates contract eligibility for a line after
// its quantity changed, typically because new items merged into it. A line
// whose combined quantity now reaches the contract minimum picks up the
// contract pricing exactly as PriceLine would have; locked lines and lines
// still below the threshold are left alone.
func RefreshContractGating(li *LineItem, contract *PriceContract) {
	if li == nil || li.DiscountLocked {
		return
	}
	part := Part{ID: li.PartID, PartNumber: li.PartNumber, Series: li.Series}
	item := MatchContractItem(part, contract)
	if item == nil || li.Quantity < item.MinQuantity {
		return
	}

	li.CostPrice = item.CostPrice
	li.DiscountLocked = true
	li.DiscountPct = 0
	li.MarginPct = 0
	li.IsSellAffected = false
	if item.DiscountPercent > 0 {
		li.DiscountPct = item.DiscountPercent
	} else if li.ListPrice > 0 {
		li.DiscountPct = (1 - item.CostPrice/li.ListPrice) * 100
	}
	if item.SuggestedSellPrice > 0 && item.CostPrice > 0 {
		li.MarginPct = (item.SuggestedSellPrice/item.CostPrice - 1) * 100
		li.IsSellAffected = true
	}
	li.IsCostAffected = li.DiscountPct > 0
}

// PartRequest is one requested part with an optional quantity override.
type PartRequest struct {
	PartNumber string `json:"part_number" binding:"required"`
	Quantity   int    `json:"quantity"`
}

// PriceResult is the outcome of a batch pricing run: the populated quote and
// the part numbers that resolved to nothing. The caller decides whether to
// warn or reject on NotFound.
type PriceResult struct {
	Quote    *Quote   `json:"quote"`
	NotFound []string `json:"not_found"`
}

// Engine prices quote lines from resolved catalog parts and an optional
// price contract.
type Engine struct {
	Resolver *Resolver
}

func NewEngine(catalog CatalogReader) *Engine {
	return &Engine{Resolver: NewResolver(catalog)}
}

// BuildQuote resolves and prices every requested part into a fresh quote.
// Repeated part numbers merge into one line with summed quantity before
// pricing, so contract minimum-quantity gating sees the combined quantity.
// Unresolved numbers are reported, not fatal; only an empty request fails.
func (e *Engine) BuildQuote(requests []PartRequest, catalogID, masterCatalogID int, contract *PriceContract) (*PriceResult, error) {
	if len(requests) == 0 {
		return nil, ErrEmptyPartList
	}

	type pendingLine struct {
		res Resolution
		qty int
	}
	var order []int
	pending := make(map[int]*pendingLine)
	var notFound []string

	for _, req := range requests {
		res, err := e.Resolver.Resolve(req.PartNumber, catalogID, masterCatalogID)
		if err != nil {
			notFound = append(notFound, strings.TrimSpace(req.PartNumber))
			continue
		}
		qty := req.Quantity
		if qty < res.MinQty {
			qty = res.MinQty
		}
		if p, ok := pending[res.Part.ID]; ok {
			p.qty += qty
			continue
		}
		pending[res.Part.ID] = &pendingLine{res: *res, qty: qty}
		order = append(order, res.Part.ID)
	}

	q := NewQuote()
	q.CatalogID = catalogID
	if contract != nil {
		q.ContractID = contract.ID
	}
	for _, id := range order {
		p := pending[id]
		q.AddOrMergeItem(PriceLine(p.res, contract, p.qty))
	}

	return &PriceResult{Quote: q, NotFound: notFound}, nil
}
