package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tax categories known to the seed data
const (
	TaxCategoryPourShot = "pour/shot"
	TaxCategoryGlass    = "glass"
	TaxCategoryBottle   = "bottle"
	TaxCategoryEvent    = "event"
)

type TaxRate struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TaxCategory string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"tax_category"`
	Rate        decimal.Decimal `gorm:"type:decimal(6,4);not null" json:"rate"`
	Description string          `gorm:"type:varchar(255)" json:"description"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}
