package models

import (
	"time"
)

// Catalog is a named collection of parts with list prices, assignable
// per tenant. The master catalog holds authoritative cross-reference pricing.
type Catalog struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	IsMaster  bool      `json:"is_master"`
	PartCount int       `json:"part_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartRow is one catalog part as listed or searched through the API. The
// pricing core keeps its own snapshot type; this is the transport shape.
type PartRow struct {
	ID                  int     `json:"id"`
	CatalogID           int     `json:"catalog_id"`
	PartNumber          string  `json:"part_number"`
	SecondaryPartNumber string  `json:"secondary_part_number,omitempty"`
	Series              string  `json:"series,omitempty"`
	Description         string  `json:"description"`
	ListPrice           float64 `json:"list_price"`
	MinQty              int     `json:"min_qty"`
	DistributorDiscount float64 `json:"distributor_discount"`
}

// PriceContractSummary is a contract without its line items, for listings.
type PriceContractSummary struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int       `json:"owner_id"`
	TeamID    int       `json:"team_id,omitempty"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// User is the portal account shape used by handlers. Authentication lives
// outside this service; the role string still drives pricing defaults.
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organization string `json:"organization,omitempty"`
	RoleName     string `json:"role_name"`
	CatalogID    int    `json:"catalog_id,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
}

// Customer is a quote recipient owned by a distributor or RSM.
type Customer struct {
	ID           int       `json:"id"`
	OwnerID      int       `json:"owner_id"`
	Name         string    `json:"name"`
	Organization string    `json:"organization,omitempty"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// QuoteSummary is a persisted quote without its line items.
type QuoteSummary struct {
	ID           int       `json:"id"`
	QuoteNumber  string    `json:"quote_number"`
	CustomerName string    `json:"customer_name"`
	CatalogID    int       `json:"catalog_id,omitempty"`
	ContractID   int       `json:"contract_id,omitempty"`
	ItemCount    int       `json:"item_count"`
	Total        float64   `json:"total"`
	CreatedBy    int       `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PriceQuoteRequest prices a set of parts without persisting anything.
type PriceQuoteRequest struct {
	CatalogID  int               `json:"catalog_id" binding:"required"`
	ContractID int               `json:"contract_id"`
	Parts      []PartRequestBody `json:"parts" binding:"required"`
}

// PartRequestBody mirrors pricing.PartRequest at the API boundary.
type PartRequestBody struct {
	PartNumber string `json:"part_number" binding:"required"`
	Quantity   int    `json:"quantity"`
}

// SaveQuoteRequest persists a priced quote with snapshotted line items.
type SaveQuoteRequest struct {
	QuoteNumber  string            `json:"quote_number"`
	CatalogID    int               `json:"catalog_id" binding:"required"`
	ContractID   int               `json:"contract_id"`
	CustomerID   int               `json:"customer_id"`
	CustomerName string            `json:"customer_name"`
	Notes        string            `json:"notes"`
	Terms        string            `json:"terms"`
	Parts        []PartRequestBody `json:"parts" binding:"required"`
}

// AddQuoteItemsRequest appends parts to a saved quote; duplicates merge
// into the existing line by part.
type AddQuoteItemsRequest struct {
	Parts []PartRequestBody `json:"parts" binding:"required"`
}

// BulkApplyRequest applies one discount or one margin value to a selection
// of quote lines. Exactly one of the two percentages must be set.
type BulkApplyRequest struct {
	PartIDs         []int    `json:"part_ids" binding:"required"`
	DiscountPercent *float64 `json:"discount_percent"`
	MarginPercent   *float64 `json:"margin_percent"`
}

// CreatePriceContractRequest creates a contract with its line items.
type CreatePriceContractRequest struct {
	Name    string                   `json:"name" binding:"required"`
	OwnerID int                      `json:"owner_id"`
	TeamID  int                      `json:"team_id"`
	Items   []PriceContractItemInput `json:"items" binding:"required"`
}

// PriceContractItemInput is one contract line as submitted. Exactly one of
// PartID / SeriesOrGroup must be set; MinQuantity below 1 is rejected.
type PriceContractItemInput struct {
	PartID             int     `json:"part_id"`
	SeriesOrGroup      string  `json:"series_or_group"`
	CostPrice          float64 `json:"cost_price" binding:"required"`
	SuggestedSellPrice float64 `json:"suggested_sell_price"`
	DiscountPercent    float64 `json:"discount_percent"`
	MinQuantity        int     `json:"min_quantity"`
}

// ResolvePartsRequest resolves raw part number strings against a catalog.
type ResolvePartsRequest struct {
	CatalogID   int      `json:"catalog_id" binding:"required"`
	PartNumbers []string `json:"part_numbers" binding:"required"`
}

// SetMasterCatalogRequest designates the authoritative pricing catalog.
type SetMasterCatalogRequest struct {
	CatalogID int `json:"catalog_id" binding:"required"`
}
