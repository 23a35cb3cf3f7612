package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchContractItem_NilContract(t *testing.T) {
	assert.Nil(t, MatchContractItem(Part{ID: 1}, nil))
}

func TestMatchContractItem_PartIDWinsOverSeries(t *testing.T) {
	part := Part{ID: 7, PartNumber: "750-352", Series: "750"}
	contract := &PriceContract{Items: []ContractItem{
		{SeriesOrGroup: "750-352", CostPrice: 8, MinQuantity: 1},
		{PartID: 7, CostPrice: 7.5, MinQuantity: 1},
	}}

	item := MatchContractItem(part, contract)
	require.NotNil(t, item)
	assert.Equal(t, 7, item.PartID)
	assert.Equal(t, 7.5, item.CostPrice)
}

func TestMatchContractItem_SeriesMatchIsCaseInsensitive(t *testing.T) {
	part := Part{ID: 7, PartNumber: "TOPJOB-2002"}
	contract := &PriceContract{Items: []ContractItem{
		{SeriesOrGroup: "topjob-2002", CostPrice: 3, MinQuantity: 1},
	}}

	item := MatchContractItem(part, contract)
	require.NotNil(t, item)
	assert.Equal(t, 3.0, item.CostPrice)
}

func TestMatchContractItem_NoSubstringMatch(t *testing.T) {
	// "750" must not govern "750-352"; shared prefixes caused false
	// positives under the old contains matching.
	part := Part{ID: 7, PartNumber: "750-352"}
	contract := &PriceContract{Items: []ContractItem{
		{SeriesOrGroup: "750", CostPrice: 1, MinQuantity: 1},
		{SeriesOrGroup: "750-3", CostPrice: 2, MinQuantity: 1},
	}}

	assert.Nil(t, MatchContractItem(part, contract))
}

func TestMatchContractItem_NoMatchReturnsNil(t *testing.T) {
	part := Part{ID: 7, PartNumber: "750-352"}
	contract := &PriceContract{Items: []ContractItem{
		{PartID: 8, CostPrice: 1, MinQuantity: 1},
		{SeriesOrGroup: "221-412", CostPrice: 2, MinQuantity: 1},
	}}

	assert.Nil(t, MatchContractItem(part, contract))
}
