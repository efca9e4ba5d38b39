package models

// Shifts used by revenue aggregation
const (
	ShiftMorning = "morning"
	ShiftEvening = "evening"
)

type RevenueSummary struct {
	Date             string `json:"date,omitempty"`
	Shift            string `json:"shift,omitempty"`
	TotalSales       int64  `json:"total_sales"`
	TotalTax         int64  `json:"total_tax"`
	TransactionCount int64  `json:"transaction_count"`

	// TotalSales / TransactionCount, truncated to a minor unit
	AverageTransaction int64 `json:"average_transaction"`
}

type SalesTrendPoint struct {
	Date             string `json:"date"`
	TransactionCount int64  `json:"transaction_count"`
	SalesTotal       int64  `json:"sales_total"`
	TaxTotal         int64  `json:"tax_total"`
}
