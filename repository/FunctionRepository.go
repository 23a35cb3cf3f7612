package repository

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"backend/utils"
)

// GenerateQuoteNumber builds the next quote number for a year in the format
// "Q-2026-00042". The sequence resets every calendar year.
func GenerateQuoteNumber(db *sql.DB, now time.Time) (string, error) {
	ctx, cancel := utils.GetFastQueryContext(nil)
	defer cancel()

	year := now.Year()
	prefix := fmt.Sprintf("Q-%d-", year)

	var last sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT quote_number FROM quotes
		WHERE quote_number LIKE $1 || '%'
		ORDER BY quote_number DESC LIMIT 1`, prefix).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("find last quote number: %v", err)
	}

	sequence := 1
	if last.Valid {
		if n, err := strconv.Atoi(strings.TrimPrefix(last.String, prefix)); err == nil {
			sequence = n + 1
		}
	}
	return fmt.Sprintf("%s%05d", prefix, sequence), nil
}

// GenerateRevisionCode increments a quote revision code: "" -> "RV-01",
// "RV-01" -> "RV-02", and so on. Every line-item change to a saved quote
// stamps the next revision so a customer can tell proposals apart.
func GenerateRevisionCode(previousRevision string) string {
	if previousRevision == "" {
		return "RV-01"
	}

	if !strings.HasPrefix(previousRevision, "RV-") {
		return "RV-01"
	}

	n, err := strconv.Atoi(strings.TrimPrefix(previousRevision, "RV-"))
	if err != nil {
		return "RV-01"
	}
	return fmt.Sprintf("RV-%02d", n+1)
}
