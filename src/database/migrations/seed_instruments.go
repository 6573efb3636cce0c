package migrations

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"signalrouter/src/marketdata"
)

// seedInstrumentCatalog loads the fixed instrument catalog into the
// instruments table. Re-running is harmless: existing symbols are skipped,
// so operators can add custom rows without them being clobbered.
func seedInstrumentCatalog(db *gorm.DB) error {
	rows := marketdata.Instruments()
	if len(rows) == 0 {
		return nil
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoNothing: true,
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("seed instruments: %w", err)
	}
	return nil
}

// backfillAlertSignalTypes normalizes alert rows written by older dashboard
// builds that stored call/put instead of buy/sell in signal_type.
func backfillAlertSignalTypes(db *gorm.DB) error {
	if err := db.Exec(`UPDATE alerts SET signal_type = 'buy' WHERE signal_type = 'call'`).Error; err != nil {
		return fmt.Errorf("backfill buy signal types: %w", err)
	}
	if err := db.Exec(`UPDATE alerts SET signal_type = 'sell' WHERE signal_type = 'put'`).Error; err != nil {
		return fmt.Errorf("backfill sell signal types: %w", err)
	}
	return nil
}
