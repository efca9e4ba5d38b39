package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bar-pos/models"
	"github.com/yeremiapane/bar-pos/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const DefaultTaxCategory = models.TaxCategoryPourShot

// DefaultTaxRate applies when a category has no stored rate.
var DefaultTaxRate = decimal.RequireFromString("0.07")

var defaultRates = []models.TaxRate{
	{TaxCategory: models.TaxCategoryPourShot, Rate: decimal.RequireFromString("0.07"), Description: "Spirits served by the pour or shot"},
	{TaxCategory: models.TaxCategoryGlass, Rate: decimal.RequireFromString("0.07"), Description: "Wine and beer by the glass"},
	{TaxCategory: models.TaxCategoryBottle, Rate: decimal.RequireFromString("0.09"), Description: "Full bottle service"},
	{TaxCategory: models.TaxCategoryEvent, Rate: decimal.RequireFromString("0.10"), Description: "Event packages"},
}

type TaxService struct {
	*base
	catalog *CatalogService
}

// pricedLine is one priced and taxed line, shared by finalize, record and the display view.
type pricedLine struct {
	Beverage    models.Beverage
	Quantity    int
	TaxCategory string
	LineTotal   int64
	TaxAmount   int64
	Rate        *models.TaxRate
}

// computeTax rounds lineTotal*rate half away from zero to a whole minor unit.
func computeTax(lineTotal int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(lineTotal).Mul(rate).Round(0).IntPart()
}

func normalizeTaxCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return DefaultTaxCategory
	}
	return category
}

// SeedRates inserts the default rates. Existing categories are left alone.
func (s *TaxService) SeedRates(ctx context.Context) error {
	rates := make([]models.TaxRate, len(defaultRates))
	copy(rates, defaultRates)

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "tax_category"}}, DoNothing: true}).
		Create(&rates)
	if res.Error != nil {
		return classifyDBError(fmt.Errorf("seed tax rates: %w", res.Error))
	}
	if res.RowsAffected > 0 {
		utils.InfoLogger.WithFields(logrus.Fields{"inserted": res.RowsAffected}).Info("tax rates seeded")
	}
	return nil
}

func (s *TaxService) Rates(ctx context.Context) ([]models.TaxRate, error) {
	rates := make([]models.TaxRate, 0)
	if err := s.db.WithContext(ctx).Order("tax_category ASC").Find(&rates).Error; err != nil {
		return nil, classifyDBError(err)
	}
	return rates, nil
}

// UpdateRate sets the rate of a category, creating the category when it does not exist.
func (s *TaxService) UpdateRate(ctx context.Context, category string, rate decimal.Decimal, description string) (*models.TaxRate, error) {
	category = normalizeTaxCategory(category)
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("tax rate %s for %s outside [0,1]: %w", rate, category, ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var saved models.TaxRate
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("tax_category = ?", category).First(&saved).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			saved = models.TaxRate{TaxCategory: category, Rate: rate, Description: description}
			return tx.Create(&saved).Error
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"rate": rate}
		if description != "" {
			updates["description"] = description
		}
		if err := tx.Model(&saved).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", saved.ID).First(&saved).Error
	})
	if err != nil {
		return nil, classifyDBError(err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"tax_category": category,
		"rate":         rate.String(),
	}).Info("tax rate updated")
	return &saved, nil
}

// rateFor returns the stored rate of category, or nil when the default applies.
func (s *TaxService) rateFor(tx *gorm.DB, category string) (*models.TaxRate, error) {
	var rate models.TaxRate
	err := tx.Where("tax_category = ?", category).First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (s *TaxService) priceLine(tx *gorm.DB, bev models.Beverage, quantity int, category string) (pricedLine, error) {
	category = normalizeTaxCategory(category)
	rate, err := s.rateFor(tx, category)
	if err != nil {
		return pricedLine{}, err
	}

	value := DefaultTaxRate
	if rate != nil {
		value = rate.Rate
	}

	lineTotal := bev.Price * int64(quantity)
	return pricedLine{
		Beverage:    bev,
		Quantity:    quantity,
		TaxCategory: category,
		LineTotal:   lineTotal,
		TaxAmount:   computeTax(lineTotal, value),
		Rate:        rate,
	}, nil
}

// LineTax prices quantity units of a beverage. An unknown beverage prices to (0, 0).
func (s *TaxService) LineTax(ctx context.Context, beverageRef string, quantity int, category string) (int64, int64, error) {
	if quantity < 1 {
		return 0, 0, fmt.Errorf("quantity %d: %w", quantity, ErrInvalidInput)
	}

	tx := s.db.WithContext(ctx)
	bev, err := s.catalog.resolve(tx, beverageRef)
	if errors.Is(err, ErrNotFound) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}

	line, err := s.priceLine(tx, *bev, quantity, category)
	if err != nil {
		return 0, 0, classifyDBError(err)
	}
	return line.LineTotal, line.TaxAmount, nil
}
