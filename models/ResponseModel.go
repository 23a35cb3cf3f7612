package models

import "backend/pricing"

// ErrorResponse is the uniform error payload returned by all handlers.
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request payload"`
	Details string `json:"details,omitempty" example:"part_number is required"`
}

// MessageResponse is returned by mutations with no body to echo.
type MessageResponse struct {
	Message string `json:"message" example:"Quote deleted successfully"`
}

// QuoteResponse carries a priced quote plus its derived total and the
// part numbers that could not be resolved.
type QuoteResponse struct {
	Quote    *pricing.Quote `json:"quote"`
	Total    float64        `json:"total"`
	NotFound []string       `json:"not_found,omitempty"`
}

// SavedQuoteResponse is returned after persisting a quote.
type SavedQuoteResponse struct {
	ID          int     `json:"id"`
	QuoteNumber string  `json:"quote_number"`
	Revision    string  `json:"revision"`
	Total       float64 `json:"total"`
}

// ResolvePartsResponse maps submitted part numbers to catalog rows.
type ResolvePartsResponse struct {
	Found    []PartRow `json:"found"`
	NotFound []string  `json:"not_found,omitempty"`
}

// PriceContractDetail is a contract with its full item list.
type PriceContractDetail struct {
	PriceContractSummary
	Items []pricing.ContractItem `json:"items"`
}

// ContractImportResponse summarises an XLSX contract import.
type ContractImportResponse struct {
	ContractID int      `json:"contract_id"`
	Imported   int      `json:"imported"`
	Skipped    []string `json:"skipped,omitempty"`
}

// DownloadLinkResponse carries a signed, expiring asset download URL.
type DownloadLinkResponse struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}
