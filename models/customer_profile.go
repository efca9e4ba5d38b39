package models

import "time"

type CustomerProfile struct {
	ID          uint       `gorm:"primaryKey;column:customer_id" json:"customer_id"`
	Name        string     `gorm:"type:varchar(255)" json:"name"`
	Email       *string    `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Phone       *string    `gorm:"type:varchar(50);uniqueIndex" json:"phone,omitempty"`
	Preferences string     `gorm:"type:text" json:"preferences"`
	VisitCount  int        `gorm:"not null;default:0" json:"visit_count"`
	LastVisit   *time.Time `json:"last_visit,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}
