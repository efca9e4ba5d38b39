package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Beverage{},
		&TaxRate{},
		&CustomerProfile{},
		&OrderBatch{},
		&BatchItem{},
		&Transaction{},
		&TransactionItem{},
		&TaxDetail{},
		&Recommendation{},
		&Event{},
		&EventBooking{},
	}
}
