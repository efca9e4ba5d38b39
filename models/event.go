package models

import "time"

type Event struct {
	ID          uint           `gorm:"primaryKey;column:event_id" json:"event_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	EventType   string         `gorm:"type:varchar(50);not null" json:"event_type"`
	EventDate   string         `gorm:"type:varchar(10);not null;index" json:"event_date"`
	EventTime   string         `gorm:"type:varchar(5);not null" json:"event_time"`
	Venue       string         `gorm:"type:varchar(255)" json:"venue"`
	Description string         `gorm:"type:text" json:"description"`
	ClientID    *uint          `json:"client_id,omitempty"`
	Status      string         `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	Bookings    []EventBooking `gorm:"foreignKey:EventID;references:ID" json:"bookings"`
}

type EventBooking struct {
	ID             uint      `gorm:"primaryKey;column:booking_id" json:"booking_id"`
	EventID        uint      `gorm:"not null;index" json:"event_id"`
	ServiceType    string    `gorm:"type:varchar(100);not null" json:"service_type"`
	ServiceDetails string    `gorm:"type:text" json:"service_details"`
	DrinkPackage   string    `gorm:"type:varchar(50)" json:"drink_package"`
	Cost           int64     `gorm:"not null" json:"cost"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}
