package storage

import (
	"backend/models"
	"backend/pricing"
	"backend/utils"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var db *sql.DB

func InitDB() *sql.DB {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		user, password, dbname, host, port)

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Pool settings tuned for light server load
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	return db
}

func GetDB() *sql.DB {
	return db
}

// PartStore resolves part numbers against the parts table. It satisfies
// pricing.CatalogReader so the engine never touches SQL directly.
type PartStore struct {
	DB *sql.DB
}

func NewPartStore(db *sql.DB) *PartStore {
	return &PartStore{DB: db}
}

// FindPart looks up a part inside one catalog by its primary or secondary
// part number. Matching is exact and case-insensitive; partial matches are
// a search concern, not a resolution concern.
func (s *PartStore) FindPart(catalogID int, partNumber string) (*pricing.Part, error) {
	ctx, cancel := utils.GetFastQueryContext(nil)
	defer cancel()

	query := `
		SELECT id, part_number, COALESCE(series, ''), COALESCE(description, ''),
		       list_price, COALESCE(min_qty, 1), COALESCE(distributor_discount, 0)
		FROM parts
		WHERE catalog_id = $1
		  AND (UPPER(part_number) = UPPER($2) OR UPPER(COALESCE(secondary_part_number, '')) = UPPER($2))
		LIMIT 1`

	var p pricing.Part
	err := s.DB.QueryRowContext(ctx, query, catalogID, strings.TrimSpace(partNumber)).Scan(
		&p.ID, &p.PartNumber, &p.Series, &p.Description,
		&p.ListPrice, &p.MinQty, &p.DistributorDiscount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("part %q in catalog %d: %w", partNumber, catalogID, pricing.ErrPartNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find part %q: %v", partNumber, err)
	}
	return &p, nil
}

// SearchParts returns catalog rows whose part number, series or description
// contains the query string. Used by the catalog browser, not by pricing.
func SearchParts(db *sql.DB, catalogID int, query string, limit int) ([]models.PartRow, error) {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, catalog_id, part_number, COALESCE(secondary_part_number, ''),
		       COALESCE(series, ''), COALESCE(description, ''),
		       list_price, COALESCE(min_qty, 1), COALESCE(distributor_discount, 0)
		FROM parts
		WHERE catalog_id = $1
		  AND (part_number ILIKE '%' || $2 || '%'
		       OR series ILIKE '%' || $2 || '%'
		       OR description ILIKE '%' || $2 || '%')
		ORDER BY part_number
		LIMIT $3`, catalogID, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search parts: %v", err)
	}
	defer rows.Close()

	var parts []models.PartRow
	for rows.Next() {
		var p models.PartRow
		if err := rows.Scan(&p.ID, &p.CatalogID, &p.PartNumber, &p.SecondaryPartNumber,
			&p.Series, &p.Description, &p.ListPrice, &p.MinQty, &p.DistributorDiscount); err != nil {
			return nil, fmt.Errorf("scan part row: %v", err)
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// GetCatalogs lists all catalogs with their part counts.
func GetCatalogs(db *sql.DB) ([]models.Catalog, error) {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT c.id, c.name, c.is_master,
		       (SELECT COUNT(*) FROM parts p WHERE p.catalog_id = c.id),
		       c.created_at, c.updated_at
		FROM catalogs c
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %v", err)
	}
	defer rows.Close()

	var catalogs []models.Catalog
	for rows.Next() {
		var c models.Catalog
		if err := rows.Scan(&c.ID, &c.Name, &c.IsMaster, &c.PartCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan catalog: %v", err)
		}
		catalogs = append(catalogs, c)
	}
	return catalogs, rows.Err()
}

// GetMasterCatalogID returns the id of the catalog flagged as master, or 0
// when none is configured. Callers treat 0 as "no cross-reference source".
func GetMasterCatalogID(db *sql.DB) (int, error) {
	ctx, cancel := utils.GetFastQueryContext(nil)
	defer cancel()

	var id int
	err := db.QueryRowContext(ctx, `SELECT id FROM catalogs WHERE is_master = TRUE LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get master catalog: %v", err)
	}
	return id, nil
}

// SetMasterCatalog flags one catalog as master and clears the flag elsewhere.
func SetMasterCatalog(db *sql.DB, catalogID int) error {
	ctx, cancel := utils.GetDefaultQueryContext(nil)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE catalogs SET is_master = FALSE WHERE is_master = TRUE`); err != nil {
		return fmt.Errorf("clear master flag: %v", err)
	}
	result, err := tx.ExecContext(ctx, `UPDATE catalogs SET is_master = TRUE, updated_at = NOW() WHERE id = $1`, catalogID)
	if err != nil {
		return fmt.Errorf("set master flag: %v", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("catalog %d not found", catalogID)
	}
	return tx.Commit()
}

// GetAssignedCatalogID returns the catalog assigned to a user, falling back
// to the master catalog when the user has no assignment.
func GetAssignedCatalogID(db *sql.DB, userID int) (int, error) {
	ctx, cancel := utils.GetFastQueryContext(nil)
	defer cancel()

	var catalogID sql.NullInt64
	err := db.QueryRowContext(ctx, `SELECT catalog_id FROM users WHERE id = $1`, userID).Scan(&catalogID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("user %d not found", userID)
	}
	if err != nil {
		return 0, fmt.Errorf("get assigned catalog: %v", err)
	}
	if catalogID.Valid && catalogID.Int64 > 0 {
		return int(catalogID.Int64), nil
	}
	return GetMasterCatalogID(db)
}
