package database

import (
	"fmt"

	"github.com/yeremiapane/bar-pos/models"
	"github.com/yeremiapane/bar-pos/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the engine uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// Verifikasi tabel inti
	for _, table := range []string{"beverages", "tax_rates", "order_batches", "batch_items", "transactions", "transaction_items", "tax_details"} {
		if !db.Migrator().HasTable(table) {
			return fmt.Errorf("table %s missing after migration", table)
		}
	}

	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
