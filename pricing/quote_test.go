package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrMergeItem_SumsQuantity(t *testing.T) {
	q := NewQuote()
	q.AddOrMergeItem(LineItem{PartID: 1, PartNumber: "750-352", Quantity: 5, ListPrice: 10})
	q.AddOrMergeItem(LineItem{PartID: 1, PartNumber: "750-352", Quantity: 3, ListPrice: 10})

	require.Len(t, q.Items, 1)
	assert.Equal(t, 8, q.Items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	q := NewQuote()
	q.AddOrMergeItem(LineItem{PartID: 1, Quantity: 1})
	q.AddOrMergeItem(LineItem{PartID: 2, Quantity: 1})

	assert.True(t, q.RemoveItem(1))
	assert.False(t, q.RemoveItem(1))
	require.Len(t, q.Items, 1)
	assert.Equal(t, 2, q.Items[0].PartID)
}

func TestTotal_DerivedAfterEdits(t *testing.T) {
	q := NewQuote()
	q.AddOrMergeItem(LineItem{PartID: 1, Quantity: 2, ListPrice: 100})
	q.AddOrMergeItem(LineItem{PartID: 2, Quantity: 1, ListPrice: 50})
	assert.InDelta(t, 250, q.Total(), 1e-9)

	// Margin edit must be reflected immediately; the total is never cached.
	q.ApplyMargin([]int{1}, 10)
	assert.InDelta(t, 2*110+50, q.Total(), 1e-9)

	q.ApplyDiscount([]int{2}, 20)
	assert.InDelta(t, 2*110+40, q.Total(), 1e-9)

	q.RemoveItem(1)
	assert.InDelta(t, 40, q.Total(), 1e-9)
}

func TestApplyDiscount_SkipsLockedLines(t *testing.T) {
	q := NewQuote()
	q.AddOrMergeItem(LineItem{PartID: 1, Quantity: 1, ListPrice: 10, DiscountPct: 40, CostPrice: 6, DiscountLocked: true})
	q.AddOrMergeItem(LineItem{PartID: 2, Quantity: 1, ListPrice: 10})

	q.ApplyDiscount([]int{1, 2}, 15)

	assert.InDelta(t, 40, q.Items[0].DiscountPct, 1e-9)
	assert.InDelta(t, 15, q.Items[1].DiscountPct, 1e-9)
	assert.True(t, q.Items[1].IsCostAffected)
}

func TestApplyMargin_AlwaysApplies(t *testing.T) {
	q := NewQuote()
	q.AddOrMergeItem(LineItem{PartID: 1, Quantity: 1, ListPrice: 10, CostPrice: 6, DiscountLocked: true, MarginPct: 25, IsSellAffected: true})
	q.AddOrMergeItem(LineItem{PartID: 2, Quantity: 1, ListPrice: 10})

	q.ApplyMargin([]int{1, 2}, 12)

	assert.InDelta(t, 12, q.Items[0].MarginPct, 1e-9)
	assert.InDelta(t, 12, q.Items[1].MarginPct, 1e-9)
	// A manual margin supersedes the contract suggestion.
	assert.False(t, q.Items[0].IsSellAffected)
}

func TestApplyMargin_OnlySelection(t *testing.T) {
	q := NewQuote()
	q.AddOrMergeItem(LineItem{PartID: 1, Quantity: 1, ListPrice: 10})
	q.AddOrMergeItem(LineItem{PartID: 2, Quantity: 1, ListPrice: 10})

	q.ApplyMargin([]int{2}, 30)

	assert.Zero(t, q.Items[0].MarginPct)
	assert.InDelta(t, 30, q.Items[1].MarginPct, 1e-9)
}
