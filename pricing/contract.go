package pricing

import "strings"

// PriceContract is a negotiated set of part- or series-level cost and
// discount overrides assigned to a user or team. The pricing core references
// contracts and never mutates them.
type PriceContract struct {
	ID    int            `json:"id"`
	Name  string         `json:"name"`
	Items []ContractItem `json:"items"`
}

// ContractItem binds either to one part (PartID > 0) or to a series/group
// code (SeriesOrGroup non-empty), never both. Zero values mean "unset":
// SuggestedSellPrice 0 carries no sell suggestion, DiscountPercent 0 derives
// the discount from cost against list. MinQuantity is at least 1.
type ContractItem struct {
	PartID             int     `json:"part_id"`
	SeriesOrGroup      string  `json:"series_or_group"`
	CostPrice          float64 `json:"cost_price"`
	SuggestedSellPrice float64 `json:"suggested_sell_price"`
	DiscountPercent    float64 `json:"discount_percent"`
	MinQuantity        int     `json:"min_quantity"`
}

// MatchContractItem finds the contract line governing a part. Precedence,
// first match wins: an item bound to the part's identifier, then an item
// whose series/group code equals the part number exactly, ignoring case.
// Substring matching produced false positives on shared prefixes in an
// earlier build and is intentionally absent. A nil result means standard
// pricing, not an error.
func MatchContractItem(part Part, contract *PriceContract) *ContractItem {
	if contract == nil {
		return nil
	}
	for i := range contract.Items {
		if contract.Items[i].PartID > 0 && contract.Items[i].PartID == part.ID {
			return &contract.Items[i]
		}
	}
	for i := range contract.Items {
		code := contract.Items[i].SeriesOrGroup
		if code != "" && strings.EqualFold(code, part.PartNumber) {
			return &contract.Items[i]
		}
	}
	return nil
}
