package models

import "time"

type Recommendation struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	BeverageID            string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_recommendation_pair" json:"beverage_id"`
	RecommendedBeverageID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_recommendation_pair" json:"recommended_beverage_id"`
	Confidence            float64   `gorm:"not null" json:"confidence"`
	CreatedAt             time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time `gorm:"not null" json:"updated_at"`
}

// Suggestion is a recommended beverage as returned to callers.
type Suggestion struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Price      int64   `json:"price"`
	Confidence float64 `json:"confidence"`
}
