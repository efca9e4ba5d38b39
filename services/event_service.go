package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bar-pos/models"
	"github.com/yeremiapane/bar-pos/utils"
	"gorm.io/gorm"
)

// Event status
const (
	EventStatusPending   = "pending"
	EventStatusConfirmed = "confirmed"
)

// DrinkPackage is a priced bundle that can be booked for an event.
type DrinkPackage struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

var drinkPackages = []DrinkPackage{
	{Key: "basic", Name: "Basic Package", Price: 150000, Description: "House beer, wine, and spirits"},
	{Key: "premium", Name: "Premium Package", Price: 250000, Description: "Premium beer, wine, and top-shelf spirits"},
	{Key: "luxury", Name: "Luxury Package", Price: 350000, Description: "All premium options plus champagne service"},
}

type EventRequest struct {
	Name        string `json:"name" validate:"required"`
	EventType   string `json:"event_type" validate:"required,oneof=wedding corporate private"`
	Date        string `json:"date" validate:"required"`
	Time        string `json:"time" validate:"required"`
	Venue       string `json:"venue"`
	Description string `json:"description"`
	ClientID    *uint  `json:"client_id"`
}

type BookingRequest struct {
	ServiceType    string `json:"service_type" validate:"required"`
	DrinkPackage   string `json:"drink_package"`
	ServiceDetails string `json:"service_details"`
	Cost           *int64 `json:"cost" validate:"omitempty,gte=0"`
}

// EventService keeps event scheduling records. It never touches stock or the ledger.
type EventService struct {
	*base
}

func (s *EventService) DrinkPackages() []DrinkPackage {
	out := make([]DrinkPackage, len(drinkPackages))
	copy(out, drinkPackages)
	return out
}

func findPackage(key string) (DrinkPackage, bool) {
	for _, p := range drinkPackages {
		if p.Key == key {
			return p, true
		}
	}
	return DrinkPackage{}, false
}

func (s *EventService) CreateEvent(ctx context.Context, req EventRequest) (*models.Event, error) {
	req.EventType = strings.ToLower(strings.TrimSpace(req.EventType))
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("event: %v: %w", err, ErrInvalidInput)
	}
	if _, err := time.Parse("2006-01-02 15:04", req.Date+" "+req.Time); err != nil {
		return nil, fmt.Errorf("event date/time %q %q: %w", req.Date, req.Time, ErrInvalidInput)
	}

	event := models.Event{
		Name:        req.Name,
		EventType:   req.EventType,
		EventDate:   req.Date,
		EventTime:   req.Time,
		Venue:       req.Venue,
		Description: req.Description,
		ClientID:    req.ClientID,
		Status:      EventStatusPending,
	}
	if err := s.db.WithContext(ctx).Omit("Bookings").Create(&event).Error; err != nil {
		return nil, classifyDBError(err)
	}
	event.Bookings = []models.EventBooking{}

	utils.InfoLogger.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.EventType,
		"date":       event.EventDate,
	}).Info("event created")
	return &event, nil
}

// CreateBooking attaches a service booking to an event and confirms the event. The cost
// defaults to the drink package price when not given.
func (s *EventService) CreateBooking(ctx context.Context, eventID uint, req BookingRequest) (*models.EventBooking, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("booking: %v: %w", err, ErrInvalidInput)
	}

	req.DrinkPackage = strings.ToLower(strings.TrimSpace(req.DrinkPackage))
	var cost int64
	switch pkg, ok := findPackage(req.DrinkPackage); {
	case req.DrinkPackage != "" && !ok:
		return nil, fmt.Errorf("drink package %q: %w", req.DrinkPackage, ErrInvalidInput)
	case req.Cost != nil:
		cost = *req.Cost
	case ok:
		cost = pkg.Price
	default:
		return nil, fmt.Errorf("booking needs a drink package or a cost: %w", ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	booking := models.EventBooking{
		EventID:        eventID,
		ServiceType:    req.ServiceType,
		ServiceDetails: req.ServiceDetails,
		DrinkPackage:   req.DrinkPackage,
		Cost:           cost,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Where("event_id = ?", eventID).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("event %d: %w", eventID, ErrNotFound)
			}
			return err
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		return tx.Model(&event).Update("status", EventStatusConfirmed).Error
	})
	if err != nil {
		return nil, classifyDBError(err)
	}
	return &booking, nil
}

func (s *EventService) EventDetails(ctx context.Context, eventID uint) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).
		Preload("Bookings", func(db *gorm.DB) *gorm.DB { return db.Order("booking_id ASC") }).
		Where("event_id = ?", eventID).
		First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}
	if err != nil {
		return nil, classifyDBError(err)
	}
	return &event, nil
}

// UpcomingEvents lists events dated today or later, soonest first.
func (s *EventService) UpcomingEvents(ctx context.Context) ([]models.Event, error) {
	today := s.now().Format(dateLayout)
	events := make([]models.Event, 0)
	err := s.db.WithContext(ctx).
		Preload("Bookings").
		Where("event_date >= ?", today).
		Order("event_date ASC").Order("event_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, classifyDBError(err)
	}
	return events, nil
}
