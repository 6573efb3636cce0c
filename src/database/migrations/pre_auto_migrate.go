package migrations

import (
	"database/sql"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// PrepareQuoteColumns normalizes schemas that previously stored quote
// values as strings so that AutoMigrate can safely alter the market_data
// columns to double precision without failing casts.
func PrepareQuoteColumns(db *gorm.DB) error {
	columns := []string{"price", "change24h", "high24h", "low24h", "volume"}

	for _, column := range columns {
		columnType, exists, err := lookupColumnType(db, "market_data", column)
		if err != nil {
			return fmt.Errorf("inspect market_data.%s: %w", column, err)
		}
		if !exists || !isStringy(columnType) {
			continue
		}

		// Quotes are ephemeral simulator output; dropping a string-typed
		// column loses nothing the next tick will not rewrite.
		if err := db.Exec(fmt.Sprintf("ALTER TABLE market_data DROP COLUMN %s", column)).Error; err != nil {
			return fmt.Errorf("drop string %s on market_data: %w", column, err)
		}
	}

	return nil
}

func lookupColumnType(db *gorm.DB, table, column string) (dataType string, exists bool, err error) {
	row := db.Raw(
		`SELECT data_type FROM information_schema.columns WHERE table_name = ? AND column_name = ?`,
		table,
		column,
	).Row()

	if scanErr := row.Scan(&dataType); scanErr != nil {
		if scanErr == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, scanErr
	}

	return dataType, true, nil
}

func isStringy(dataType string) bool {
	dataType = strings.ToLower(dataType)
	return strings.Contains(dataType, "char") || dataType == "text"
}
