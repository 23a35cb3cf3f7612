package storage

import (
	"backend/models"
	"backend/pricing"
	"backend/utils"
	"database/sql"
	"errors"
	"fmt"
)

var ErrContractNotFound = errors.New("price contract not found")

// GetPriceContract loads a contract with its items in insertion order.
// Item order matters: part-bound rows are matched before series rows, and
// within each pass the first matching row wins.
func GetPriceContract(db *sql.DB, contractID int) (*pricing.PriceContract, error) {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	contract := &pricing.PriceContract{ID: contractID}
	err := db.QueryRowContext(ctx, `SELECT name FROM price_contracts WHERE id = $1`, contractID).Scan(&contract.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContractNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contract %d: %v", contractID, err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT COALESCE(part_id, 0), COALESCE(series_or_group, ''),
		       cost_price, COALESCE(suggested_sell_price, 0),
		       COALESCE(discount_percent, 0), COALESCE(min_quantity, 1)
		FROM price_contract_items
		WHERE contract_id = $1
		ORDER BY id`, contractID)
	if err != nil {
		return nil, fmt.Errorf("get contract items: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item pricing.ContractItem
		if err := rows.Scan(&item.PartID, &item.SeriesOrGroup, &item.CostPrice,
			&item.SuggestedSellPrice, &item.DiscountPercent, &item.MinQuantity); err != nil {
			return nil, fmt.Errorf("scan contract item: %v", err)
		}
		contract.Items = append(contract.Items, item)
	}
	return contract, rows.Err()
}

// ListPriceContracts lists contracts visible to an owner (or all when
// ownerID is 0) without loading their items.
func ListPriceContracts(db *sql.DB, ownerID int) ([]models.PriceContractSummary, error) {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	query := `
		SELECT c.id, c.name, COALESCE(c.owner_id, 0), COALESCE(c.team_id, 0),
		       (SELECT COUNT(*) FROM price_contract_items i WHERE i.contract_id = c.id),
		       c.created_at
		FROM price_contracts c`
	args := []interface{}{}
	if ownerID > 0 {
		query += ` WHERE c.owner_id = $1 OR c.team_id IN (SELECT team_id FROM team_members WHERE user_id = $1)`
		args = append(args, ownerID)
	}
	query += ` ORDER BY c.name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %v", err)
	}
	defer rows.Close()

	var contracts []models.PriceContractSummary
	for rows.Next() {
		var c models.PriceContractSummary
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID, &c.TeamID, &c.ItemCount, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contract: %v", err)
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// CreatePriceContract inserts a contract and its items in one transaction.
// Inputs are validated by the handler; this layer only persists.
func CreatePriceContract(db *sql.DB, req *models.CreatePriceContractRequest) (int, error) {
	ctx, cancel := utils.GetSlowQueryContext(nil)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %v", err)
	}
	defer tx.Rollback()

	var contractID int
	err = tx.QueryRowContext(ctx, `
		INSERT INTO price_contracts (name, owner_id, team_id, created_at)
		VALUES ($1, NULLIF($2, 0), NULLIF($3, 0), NOW())
		RETURNING id`, req.Name, req.OwnerID, req.TeamID).Scan(&contractID)
	if err != nil {
		return 0, fmt.Errorf("insert contract: %v", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_contract_items
			(contract_id, part_id, series_or_group, cost_price, suggested_sell_price, discount_percent, min_quantity)
		VALUES ($1, NULLIF($2, 0), NULLIF($3, ''), $4, $5, $6, $7)`)
	if err != nil {
		return 0, fmt.Errorf("prepare item insert: %v", err)
	}
	defer stmt.Close()

	for _, item := range req.Items {
		minQty := item.MinQuantity
		if minQty < 1 {
			minQty = 1
		}
		if _, err := stmt.ExecContext(ctx, contractID, item.PartID, item.SeriesOrGroup,
			item.CostPrice, item.SuggestedSellPrice, item.DiscountPercent, minQty); err != nil {
			return 0, fmt.Errorf("insert contract item: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit contract: %v", err)
	}
	return contractID, nil
}

// GetContractForUser returns the contract assigned to a user, or nil when
// the user prices off the standard catalog.
func GetContractForUser(db *sql.DB, userID int) (*pricing.PriceContract, error) {
	ctx, cancel := utils.GetFastQueryContext(nil)
	defer cancel()

	var contractID sql.NullInt64
	err := db.QueryRowContext(ctx, `SELECT contract_id FROM users WHERE id = $1`, userID).Scan(&contractID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d not found", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("get user contract: %v", err)
	}
	if !contractID.Valid || contractID.Int64 == 0 {
		return nil, nil
	}
	return GetPriceContract(db, int(contractID.Int64))
}
