package storage

import (
	"backend/models"
	"backend/pricing"
	"backend/utils"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"
)

var ErrQuoteNotFound = errors.New("quote not found")

// SaveQuote persists a priced quote and its line-item snapshots in one
// transaction and returns the new quote id. Totals are never stored; they
// are derived from the items on every read.
func SaveQuote(db *sql.DB, quote *pricing.Quote, createdBy int) (int, error) {
	ctx, cancel := utils.GetSlowQueryContext(nil)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %v", err)
	}
	defer tx.Rollback()

	var quoteID int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO quotes
			(quote_number, revision_code, catalog_id, contract_id, customer_id, customer_name, notes, terms, created_by, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, 0), NULLIF($4, 0), NULLIF($5, 0), $6, $7, $8, $9, NOW(), NOW())
		RETURNING id`,
		quote.QuoteNumber, quote.Revision, quote.CatalogID, quote.ContractID, quote.CustomerID,
		quote.CustomerName, quote.Notes, quote.Terms, createdBy).Scan(&quoteID)
	if err != nil {
		return 0, fmt.Errorf("insert quote: %v", err)
	}

	if err := insertQuoteItems(ctx, tx, quoteID, quote.Items); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit quote: %v", err)
	}
	return quoteID, nil
}

// UpdateQuoteItems replaces a quote's line items with the quote's current
// set and stamps its revision code.
func UpdateQuoteItems(db *sql.DB, quote *pricing.Quote) error {
	ctx, cancel := utils.GetSlowQueryContext(nil)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quote_items WHERE quote_id = $1`, quote.ID); err != nil {
		return fmt.Errorf("clear quote items: %v", err)
	}
	if err := insertQuoteItems(ctx, tx, quote.ID, quote.Items); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE quotes SET revision_code = $2, updated_at = NOW() WHERE id = $1`,
		quote.ID, quote.Revision); err != nil {
		return fmt.Errorf("touch quote: %v", err)
	}
	return tx.Commit()
}

func insertQuoteItems(ctx context.Context, tx *sql.Tx, quoteID int, items []pricing.LineItem) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quote_items
			(quote_id, part_id, part_number, series, description, list_price, min_qty, quantity,
			 discount_percent, margin_percent, cost_price, is_cost_affected, is_sell_affected, discount_locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`)
	if err != nil {
		return fmt.Errorf("prepare item insert: %v", err)
	}
	defer stmt.Close()

	for _, li := range items {
		if _, err := stmt.ExecContext(ctx, quoteID, li.PartID, li.PartNumber, li.Series,
			li.Description, li.ListPrice, li.MinQty, li.Quantity, li.DiscountPct, li.MarginPct,
			li.CostPrice, li.IsCostAffected, li.IsSellAffected, li.DiscountLocked); err != nil {
			return fmt.Errorf("insert quote item: %v", err)
		}
	}
	return nil
}

// GetQuote loads a quote with its items.
func GetQuote(db *sql.DB, quoteID int) (*pricing.Quote, error) {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	quote := &pricing.Quote{ID: quoteID}
	err := db.QueryRowContext(ctx, `
		SELECT quote_number, COALESCE(revision_code, ''),
		       COALESCE(catalog_id, 0), COALESCE(contract_id, 0),
		       COALESCE(customer_id, 0), COALESCE(customer_name, ''),
		       COALESCE(notes, ''), COALESCE(terms, '')
		FROM quotes WHERE id = $1`, quoteID).Scan(
		&quote.QuoteNumber, &quote.Revision, &quote.CatalogID, &quote.ContractID,
		&quote.CustomerID, &quote.CustomerName, &quote.Notes, &quote.Terms)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quote %d: %v", quoteID, err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT part_id, part_number, COALESCE(series, ''), COALESCE(description, ''),
		       list_price, min_qty, quantity, discount_percent, margin_percent,
		       cost_price, is_cost_affected, is_sell_affected, discount_locked
		FROM quote_items WHERE quote_id = $1 ORDER BY id`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("get quote items: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var li pricing.LineItem
		if err := rows.Scan(&li.PartID, &li.PartNumber, &li.Series, &li.Description,
			&li.ListPrice, &li.MinQty, &li.Quantity, &li.DiscountPct, &li.MarginPct,
			&li.CostPrice, &li.IsCostAffected, &li.IsSellAffected, &li.DiscountLocked); err != nil {
			return nil, fmt.Errorf("scan quote item: %v", err)
		}
		quote.Items = append(quote.Items, li)
	}
	return quote, rows.Err()
}

// ListQuotes returns quote summaries for a creator (all when createdBy is 0).
// The total is recomputed from the stored line items, not read from a column.
func ListQuotes(db *sql.DB, createdBy int, limit, offset int) ([]models.QuoteSummary, error) {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	if limit <= 0 || limit > 100 {
		limit = 25
	}

	query := `
		SELECT q.id, q.quote_number, COALESCE(q.customer_name, ''),
		       COALESCE(q.catalog_id, 0), COALESCE(q.contract_id, 0),
		       (SELECT COUNT(*) FROM quote_items i WHERE i.quote_id = q.id),
		       COALESCE((SELECT SUM(i.quantity *
		           (CASE WHEN i.discount_locked AND i.cost_price > 0 THEN i.cost_price
		                 ELSE i.list_price * (1 - i.discount_percent / 100) END)
		           * (1 + i.margin_percent / 100))
		         FROM quote_items i WHERE i.quote_id = q.id), 0),
		       q.created_by, q.created_at, q.updated_at
		FROM quotes q`
	args := []interface{}{}
	argn := 1
	if createdBy > 0 {
		query += fmt.Sprintf(" WHERE q.created_by = $%d", argn)
		args = append(args, createdBy)
		argn++
	}
	query += fmt.Sprintf(" ORDER BY q.updated_at DESC LIMIT $%d OFFSET $%d", argn, argn+1)
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %v", err)
	}
	defer rows.Close()

	var quotes []models.QuoteSummary
	for rows.Next() {
		var q models.QuoteSummary
		if err := rows.Scan(&q.ID, &q.QuoteNumber, &q.CustomerName, &q.CatalogID, &q.ContractID,
			&q.ItemCount, &q.Total, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan quote summary: %v", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

// DeleteQuote removes a quote and its items.
func DeleteQuote(db *sql.DB, quoteID int) error {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quote_items WHERE quote_id = $1`, quoteID); err != nil {
		return fmt.Errorf("delete quote items: %v", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM quotes WHERE id = $1`, quoteID)
	if err != nil {
		return fmt.Errorf("delete quote: %v", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrQuoteNotFound
	}
	return tx.Commit()
}

// CleanupAbandonedQuotes deletes unsaved draft quotes older than the cutoff.
// Runs from the nightly cron job.
func CleanupAbandonedQuotes(db *sql.DB, olderThan time.Duration) {
	ctx, cancel := utils.GetSlowQueryContext(nil)
	defer cancel()

	cutoff := time.Now().Add(-olderThan)
	if _, err := db.ExecContext(ctx, `
		DELETE FROM quote_items WHERE quote_id IN
			(SELECT id FROM quotes WHERE is_draft = TRUE AND updated_at < $1)`, cutoff); err != nil {
		log.Printf("Error cleaning up abandoned quote items: %v", err)
		return
	}
	result, err := db.ExecContext(ctx, `
		DELETE FROM quotes
		WHERE is_draft = TRUE AND updated_at < $1`, cutoff)
	if err != nil {
		log.Printf("Error cleaning up abandoned quotes: %v", err)
		return
	}
	if n, _ := result.RowsAffected(); n > 0 {
		log.Printf("Cleaned up %d abandoned draft quotes", n)
	}
}
