package models

import "time"

// Batch status
const (
	BatchStatusPending   = "pending"
	BatchStatusCompleted = "completed"
	BatchStatusCancelled = "cancelled"
)

// OrderBatch is an open table order. Only pending batches accept items.
type OrderBatch struct {
	ID            uint        `gorm:"primaryKey;column:batch_id" json:"batch_id"`
	TableNumber   string      `gorm:"type:varchar(50);not null" json:"table_number"`
	CustomerID    *uint       `gorm:"index" json:"customer_id,omitempty"`
	Status        string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TransactionID *uint       `json:"transaction_id,omitempty"`
	CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
	Items         []BatchItem `gorm:"foreignKey:BatchID;references:ID" json:"items"`
}

func (OrderBatch) TableName() string {
	return "order_batches"
}

func (b *OrderBatch) IsPending() bool {
	return b.Status == BatchStatusPending
}

type BatchItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BatchID     uint      `gorm:"not null;index" json:"batch_id"`
	BeverageID  string    `gorm:"type:varchar(100);not null" json:"beverage_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	TaxCategory string    `gorm:"type:varchar(50);not null;default:'pour/shot'" json:"tax_category"`
	Notes       string    `gorm:"type:text" json:"notes"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// BatchView is the read-only projection of a batch with display totals.
type BatchView struct {
	BatchID     uint            `json:"batch_id"`
	TableNumber string          `json:"table_number"`
	CustomerID  *uint           `json:"customer_id,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []BatchViewItem `json:"items"`
	Subtotal    int64           `json:"subtotal"`
	Tax         int64           `json:"tax"`
	Total       int64           `json:"total"`
}

type BatchViewItem struct {
	ItemID     uint   `json:"item_id"`
	BeverageID string `json:"beverage_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	Notes      string `json:"notes,omitempty"`
	Status     string `json:"status"`
}
