package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolution(p Part) Resolution {
	minQty := p.MinQty
	if minQty < 1 {
		minQty = 1
	}
	return Resolution{Part: p, ListPrice: p.ListPrice, MinQty: minQty}
}

func TestPriceLine_QuantityFloor(t *testing.T) {
	res := resolution(Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 5})

	li := PriceLine(res, nil, 0)
	assert.Equal(t, 5, li.Quantity)

	li = PriceLine(res, nil, 2)
	assert.Equal(t, 5, li.Quantity)

	li = PriceLine(res, nil, 12)
	assert.Equal(t, 12, li.Quantity)
}

func TestPriceLine_ZeroDiscountZeroMargin(t *testing.T) {
	res := resolution(Part{ID: 1, PartNumber: "A", ListPrice: 42.5, MinQty: 1})
	li := PriceLine(res, nil, 1)

	assert.Zero(t, li.DiscountPct)
	assert.Zero(t, li.MarginPct)
	assert.False(t, li.IsCostAffected)
	assert.False(t, li.DiscountLocked)
	assert.InDelta(t, 42.5, li.SellPrice(), 1e-9)
}

func TestPriceLine_DefaultMarginCompensatesDiscount(t *testing.T) {
	// 20% distributor discount: cost 80, margin 25%, sell back at list 100.
	res := resolution(Part{ID: 1, PartNumber: "A", ListPrice: 100, MinQty: 1, DistributorDiscount: 20})
	li := PriceLine(res, nil, 1)

	assert.InDelta(t, 20, li.DiscountPct, 1e-9)
	assert.InDelta(t, 25, li.MarginPct, 1e-9)
	assert.InDelta(t, 80, li.UnitCost(), 1e-9)
	assert.InDelta(t, 100, li.SellPrice(), 1e-9)
	assert.True(t, li.IsCostAffected)
	assert.False(t, li.DiscountLocked)
}

func TestPriceLine_ContractAppliesAtMinQuantity(t *testing.T) {
	res := resolution(Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 1})
	contract := &PriceContract{ID: 3, Items: []ContractItem{
		{PartID: 1, CostPrice: 6, MinQuantity: 10},
	}}

	li := PriceLine(res, contract, 10)
	assert.True(t, li.DiscountLocked)
	assert.Equal(t, 6.0, li.CostPrice)
	// Discount back-derived from cost against list: 1 - 6/10 = 40%.
	assert.InDelta(t, 40, li.DiscountPct, 1e-9)
	assert.True(t, li.IsCostAffected)
	assert.False(t, li.IsSellAffected)
	assert.InDelta(t, 6, li.SellPrice(), 1e-9)
}

func TestPriceLine_ContractGatedBelowMinQuantity(t *testing.T) {
	// A bulk-tier rate must not leak into a sub-threshold order.
	res := resolution(Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 1, DistributorDiscount: 10})
	contract := &PriceContract{Items: []ContractItem{
		{PartID: 1, CostPrice: 6, MinQuantity: 10},
	}}

	li := PriceLine(res, contract, 4)
	assert.False(t, li.DiscountLocked)
	assert.Zero(t, li.CostPrice)
	assert.InDelta(t, 10, li.DiscountPct, 1e-9)
	// Standard path: sell price held at list by the back-calculated margin.
	assert.InDelta(t, 10, li.SellPrice(), 1e-9)
}

func TestPriceLine_ContractDiscountOverride(t *testing.T) {
	res := resolution(Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 1})
	contract := &PriceContract{Items: []ContractItem{
		{PartID: 1, CostPrice: 6, DiscountPercent: 35, MinQuantity: 1},
	}}

	li := PriceLine(res, contract, 1)
	assert.InDelta(t, 35, li.DiscountPct, 1e-9)
	assert.Equal(t, 6.0, li.CostPrice)
}

func TestPriceLine_SuggestedSellDerivesMargin(t *testing.T) {
	res := resolution(Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 1})
	contract := &PriceContract{Items: []ContractItem{
		{PartID: 1, CostPrice: 6, SuggestedSellPrice: 7.5, MinQuantity: 1},
	}}

	li := PriceLine(res, contract, 1)
	assert.True(t, li.IsSellAffected)
	assert.InDelta(t, 25, li.MarginPct, 1e-9)
	assert.InDelta(t, 7.5, li.SellPrice(), 1e-9)
	assert.InDelta(t, 7.5*float64(li.Quantity), li.LineTotal(), 1e-9)
}

func TestPriceLine_EndToEndExample(t *testing.T) {
	// Part 750-352, list $10.00, min qty 5, no contract, 10% discount.
	res := resolution(Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 5, DistributorDiscount: 10})
	li := PriceLine(res, nil, 0)

	assert.Equal(t, 5, li.Quantity)
	assert.InDelta(t, 9.0, li.UnitCost(), 1e-9)
	assert.InDelta(t, 10.0, li.SellPrice(), 1e-9)
	assert.InDelta(t, 50.0, li.LineTotal(), 1e-9)
}

func TestBuildQuote_MergesDuplicatesBeforeGating(t *testing.T) {
	cat := newFakeCatalog()
	cat.add(1, Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 1})
	contract := &PriceContract{ID: 5, Items: []ContractItem{
		{PartID: 1, CostPrice: 6, MinQuantity: 10},
	}}

	e := NewEngine(cat)
	result, err := e.BuildQuote([]PartRequest{
		{PartNumber: "750-352", Quantity: 6},
		{PartNumber: "750-352", Quantity: 6},
	}, 1, 0, contract)
	require.NoError(t, err)

	require.Len(t, result.Quote.Items, 1)
	li := result.Quote.Items[0]
	assert.Equal(t, 12, li.Quantity)
	// Combined quantity crosses the contract threshold.
	assert.True(t, li.DiscountLocked)
	assert.Equal(t, 5, result.Quote.ContractID)
}

func TestRefreshContractGating_MergeCrossesContractMinimum(t *testing.T) {
	// A saved line priced below the contract threshold, then merged with
	// enough new quantity to cross it, must pick up the contract rate.
	res := resolution(Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 1, DistributorDiscount: 10})
	contract := &PriceContract{ID: 5, Items: []ContractItem{
		{PartID: 1, CostPrice: 6, MinQuantity: 10},
	}}

	quote := NewQuote()
	quote.AddOrMergeItem(PriceLine(res, contract, 6))
	require.False(t, quote.Items[0].DiscountLocked)

	quote.AddOrMergeItem(PriceLine(res, contract, 6))
	RefreshContractGating(quote.Item(1), contract)

	li := quote.Items[0]
	assert.Equal(t, 12, li.Quantity)
	assert.True(t, li.DiscountLocked)
	assert.Equal(t, 6.0, li.CostPrice)
	assert.InDelta(t, 40, li.DiscountPct, 1e-9)
	assert.Zero(t, li.MarginPct)
	assert.InDelta(t, 6, li.SellPrice(), 1e-9)
}

func TestRefreshContractGating_LeavesSubThresholdAndLockedLinesAlone(t *testing.T) {
	res := resolution(Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 1, DistributorDiscount: 10})
	contract := &PriceContract{Items: []ContractItem{
		{PartID: 1, CostPrice: 6, MinQuantity: 10},
	}}

	// Still below the minimum: standard pricing stays.
	li := PriceLine(res, contract, 4)
	li.Quantity += 3
	RefreshContractGating(&li, contract)
	assert.False(t, li.DiscountLocked)
	assert.InDelta(t, 10, li.DiscountPct, 1e-9)

	// Already locked: the contract rate is untouched.
	locked := PriceLine(res, contract, 10)
	locked.Quantity += 5
	before := locked
	RefreshContractGating(&locked, contract)
	assert.Equal(t, before, locked)
}

func TestBuildQuote_PartialResultWithNotFound(t *testing.T) {
	cat := newFakeCatalog()
	cat.add(1, Part{ID: 1, PartNumber: "750-352", ListPrice: 10, MinQty: 1})

	e := NewEngine(cat)
	result, err := e.BuildQuote([]PartRequest{
		{PartNumber: "750-352", Quantity: 2},
		{PartNumber: "no-such-part"},
	}, 1, 0, nil)
	require.NoError(t, err)

	assert.Len(t, result.Quote.Items, 1)
	assert.Equal(t, []string{"no-such-part"}, result.NotFound)
}

func TestBuildQuote_EmptyRequestRejected(t *testing.T) {
	e := NewEngine(newFakeCatalog())
	_, err := e.BuildQuote(nil, 1, 0, nil)
	assert.ErrorIs(t, err, ErrEmptyPartList)
}
