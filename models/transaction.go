package models

import "time"

// Transaction is a committed sale. Rows are never updated after insert.
type Transaction struct {
	ID              uint              `gorm:"primaryKey;column:transaction_id" json:"transaction_id"`
	TransactionDate string            `gorm:"type:varchar(10);not null;index" json:"date"`
	TransactionTime string            `gorm:"type:varchar(8);not null" json:"time"`
	PaymentMethod   string            `gorm:"type:varchar(20);not null" json:"payment_method"`
	EmployeeID      *uint             `json:"employee_id,omitempty"`
	BatchID         *uint             `gorm:"index" json:"batch_id,omitempty"`
	TotalAmount     int64             `gorm:"not null" json:"total_amount"`
	TaxAmount       int64             `gorm:"not null" json:"tax_amount"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
	Items           []TransactionItem `gorm:"foreignKey:TransactionID;references:ID" json:"items"`
}

type TransactionItem struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TransactionID uint       `gorm:"not null;index" json:"transaction_id"`
	BeverageID    string     `gorm:"type:varchar(100);not null;index" json:"beverage_id"`
	BeverageName  string     `gorm:"type:varchar(255);not null" json:"beverage_name"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	UnitPrice     int64      `gorm:"not null" json:"unit_price"`
	LineTotal     int64      `gorm:"not null" json:"line_total"`
	TaxCategory   string     `gorm:"type:varchar(50);not null" json:"tax_category"`
	TaxAmount     int64      `gorm:"not null" json:"tax_amount"`
	TaxDetail     *TaxDetail `gorm:"foreignKey:TransactionItemID;references:ID" json:"tax_detail,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
}

// TaxDetail links a transaction line to the rate that taxed it.
type TaxDetail struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	TransactionItemID   uint      `gorm:"not null;index" json:"transaction_item_id"`
	TaxRateID           uint      `gorm:"not null" json:"tax_rate_id"`
	CalculatedTaxAmount int64     `gorm:"not null" json:"calculated_tax_amount"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
}
