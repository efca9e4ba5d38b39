package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/bar-pos/models"
	"gorm.io/gorm"
)

type CustomerRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	Preferences string `json:"preferences"`
}

// CustomerService keeps the guest profiles batches may point at.
type CustomerService struct {
	*base
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*models.CustomerProfile, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("customer: %v: %w", err, ErrInvalidInput)
	}

	profile := models.CustomerProfile{
		Name:        strings.TrimSpace(req.Name),
		Email:       optional(strings.ToLower(req.Email)),
		Phone:       optional(req.Phone),
		Preferences: req.Preferences,
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			return nil, fmt.Errorf("customer email or phone already registered: %w", ErrInvalidInput)
		}
		return nil, classifyDBError(err)
	}
	return &profile, nil
}

func (s *CustomerService) Get(ctx context.Context, customerID uint) (*models.CustomerProfile, error) {
	var profile models.CustomerProfile
	err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("customer %d: %w", customerID, ErrNotFound)
	}
	if err != nil {
		return nil, classifyDBError(err)
	}
	return &profile, nil
}
