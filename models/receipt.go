package models

// Receipt is built from a committed transaction. Subtotal is Total minus Tax.
type Receipt struct {
	TransactionID uint          `json:"transaction_id"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Items         []ReceiptItem `json:"items"`
	Subtotal      int64         `json:"subtotal"`
	Tax           int64         `json:"tax"`
	Total         int64         `json:"total"`
	PaymentMethod string        `json:"payment_method"`
}

type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
	Tax       int64  `json:"tax"`
}
