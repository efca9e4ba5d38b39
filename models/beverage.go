package models

import "time"

// Beverage is a catalog entry. Price is stored in minor currency units.
type Beverage struct {
	ID          string    `gorm:"primaryKey;type:varchar(100)" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Category    string    `gorm:"type:varchar(100);not null;index" json:"category"`
	Subcategory string    `gorm:"type:varchar(100);not null" json:"subcategory"`
	Price       int64     `gorm:"not null" json:"price"`
	Inventory   int       `gorm:"not null" json:"inventory"`
	Image       string    `gorm:"type:varchar(255);not null;default:''" json:"image"`
	Sales       int       `gorm:"not null;default:0" json:"sales"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// PopularItem is one row of the popularity ranking.
type PopularItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Price       int64  `json:"price"`
	Sales       int    `json:"sales"`
	OrderCount  int64  `json:"order_count"`
}
