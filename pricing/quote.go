package pricing

// Quote owns the ordered set of priced line items together with the customer
// and contract references. It is an in-memory aggregate passed explicitly
// through request scope; nothing here touches persistence.
type Quote struct {
	ID           int        `json:"id"`
	QuoteNumber  string     `json:"quote_number"`
	Revision     string     `json:"revision"`
	CatalogID    int        `json:"catalog_id"`
	ContractID   int        `json:"contract_id"`
	CustomerID   int        `json:"customer_id"`
	CustomerName string     `json:"customer_name"`
	Notes        string     `json:"notes"`
	Terms        string     `json:"terms"`
	Items        []LineItem `json:"items"`
}

func NewQuote() *Quote {
	return &Quote{}
}

// AddOrMergeItem appends the line, or sums quantity into the existing line
// for the same part so one part never occupies two rows.
func (q *Quote) AddOrMergeItem(item LineItem) {
	for i := range q.Items {
		if q.Items[i].PartID == item.PartID {
			q.Items[i].Quantity += item.Quantity
			return
		}
	}
	q.Items = append(q.Items, item)
}

// RemoveItem deletes the line for the given part, reporting whether a line
// was removed.
func (q *Quote) RemoveItem(partID int) bool {
	for i := range q.Items {
		if q.Items[i].PartID == partID {
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Item returns the line for the given part, or nil.
func (q *Quote) Item(partID int) *LineItem {
	for i := range q.Items {
		if q.Items[i].PartID == partID {
			return &q.Items[i]
		}
	}
	return nil
}

// Total is always derived from the lines. A stored total is never trusted:
// discount and margin edits would silently drift it.
func (q *Quote) Total() float64 {
	var total float64
	for i := range q.Items {
		total += q.Items[i].LineTotal()
	}
	return total
}

// ApplyDiscount sets one discount value across the selected parts.
// Contract-locked lines keep their discount.
func (q *Quote) ApplyDiscount(partIDs []int, discountPct float64) {
	for i := range q.Items {
		if !containsID(partIDs, q.Items[i].PartID) || q.Items[i].DiscountLocked {
			continue
		}
		q.Items[i].DiscountPct = discountPct
		q.Items[i].IsCostAffected = discountPct > 0
	}
}

// ApplyMargin sets one margin value across the selected parts, locked or
// not. A manual margin supersedes a contract's suggested sell price, so the
// sell-affected flag is cleared.
func (q *Quote) ApplyMargin(partIDs []int, marginPct float64) {
	for i := range q.Items {
		if !containsID(partIDs, q.Items[i].PartID) {
			continue
		}
		q.Items[i].MarginPct = marginPct
		q.Items[i].IsSellAffected = false
	}
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
