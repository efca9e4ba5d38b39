package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bar-pos/models"
	"github.com/yeremiapane/bar-pos/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogService owns the beverage lifecycle
type CatalogService struct {
	*base
}

// BeveragePatch carries the fields of a partial update. Nil fields keep their stored value.
type BeveragePatch struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Subcategory *string `json:"subcategory"`
	Price       *int64  `json:"price"`
	Inventory   *int    `json:"inventory"`
	Image       *string `json:"image"`
}

// DeriveID builds the catalog id of a beverage name: "Old Fashioned" -> "old_fashioned".
func DeriveID(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Upsert creates the beverage or overwrites every field of an existing one.
func (s *CatalogService) Upsert(ctx context.Context, bev models.Beverage) (*models.Beverage, error) {
	id, err := s.upsert(s.db.WithContext(ctx), bev)
	if err != nil {
		return nil, err
	}
	return s.FindByID(ctx, id)
}

// UpsertMany writes all beverages in one transaction: either every row lands or none does.
func (s *CatalogService) UpsertMany(ctx context.Context, bevs []models.Beverage) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, bev := range bevs {
			if _, err := s.upsert(tx, bev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, classifyDBError(err)
	}
	return len(bevs), nil
}

func (s *CatalogService) upsert(tx *gorm.DB, bev models.Beverage) (string, error) {
	if bev.ID == "" {
		bev.ID = DeriveID(bev.Name)
	}
	if err := validateBeverage(bev); err != nil {
		return "", err
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "category", "subcategory", "price", "inventory", "image", "sales", "updated_at",
		}),
	}).Create(&bev).Error
	if err != nil {
		return "", classifyDBError(fmt.Errorf("upsert beverage %s: %w", bev.ID, err))
	}

	utils.InfoLogger.WithFields(logrus.Fields{"beverage_id": bev.ID}).Debug("beverage upserted")
	return bev.ID, nil
}

func validateBeverage(bev models.Beverage) error {
	switch {
	case bev.ID == "":
		return fmt.Errorf("beverage id or name is required: %w", ErrInvalidInput)
	case strings.TrimSpace(bev.Name) == "":
		return fmt.Errorf("beverage %s: name is required: %w", bev.ID, ErrInvalidInput)
	case bev.Price < 0:
		return fmt.Errorf("beverage %s: price must not be negative: %w", bev.ID, ErrInvalidInput)
	case bev.Inventory < 0:
		return fmt.Errorf("beverage %s: inventory must not be negative: %w", bev.ID, ErrInvalidInput)
	case bev.Sales < 0:
		return fmt.Errorf("beverage %s: sales must not be negative: %w", bev.ID, ErrInvalidInput)
	}
	return nil
}

// Update merges patch into the stored beverage and upserts the result.
func (s *CatalogService) Update(ctx context.Context, ref string, patch BeveragePatch) (*models.Beverage, error) {
	current, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	merged := *current
	if patch.Name != nil && *patch.Name != "" {
		merged.Name = *patch.Name
	}
	if patch.Category != nil && *patch.Category != "" {
		merged.Category = *patch.Category
	}
	if patch.Subcategory != nil && *patch.Subcategory != "" {
		merged.Subcategory = *patch.Subcategory
	}
	if patch.Price != nil {
		merged.Price = *patch.Price
	}
	if patch.Inventory != nil {
		merged.Inventory = *patch.Inventory
	}
	if patch.Image != nil && *patch.Image != "" {
		merged.Image = *patch.Image
	}

	return s.Upsert(ctx, merged)
}

func (s *CatalogService) FindByID(ctx context.Context, id string) (*models.Beverage, error) {
	return s.findByID(s.db.WithContext(ctx), id)
}

func (s *CatalogService) findByID(tx *gorm.DB, id string) (*models.Beverage, error) {
	var bev models.Beverage
	if err := tx.Where("id = ?", id).First(&bev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("beverage %q: %w", id, ErrNotFound)
		}
		return nil, classifyDBError(err)
	}
	return &bev, nil
}

// Resolve looks a beverage up by literal id first, then by the id derived from ref as a name.
func (s *CatalogService) Resolve(ctx context.Context, ref string) (*models.Beverage, error) {
	return s.resolve(s.db.WithContext(ctx), ref)
}

func (s *CatalogService) resolve(tx *gorm.DB, ref string) (*models.Beverage, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("empty beverage reference: %w", ErrNotFound)
	}

	bev, err := s.findByID(tx, ref)
	if err == nil || !errors.Is(err, ErrNotFound) {
		return bev, err
	}

	derived := DeriveID(ref)
	if derived == ref {
		return nil, err
	}
	return s.findByID(tx, derived)
}

// List returns the whole catalog grouped by category.
func (s *CatalogService) List(ctx context.Context) ([]models.Beverage, error) {
	bevs := make([]models.Beverage, 0)
	err := s.db.WithContext(ctx).
		Order("category ASC").Order("created_at ASC").Order("id ASC").
		Find(&bevs).Error
	if err != nil {
		return nil, classifyDBError(err)
	}
	return bevs, nil
}

// ListByCategory returns beverages of category in insertion order.
func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]models.Beverage, error) {
	bevs := make([]models.Beverage, 0)
	err := s.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at ASC").Order("id ASC").
		Find(&bevs).Error
	if err != nil {
		return nil, classifyDBError(err)
	}
	return bevs, nil
}

// Count returns the number of catalog rows.
func (s *CatalogService) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Beverage{}).Count(&count).Error; err != nil {
		return 0, classifyDBError(err)
	}
	return count, nil
}

// Delete removes the beverage and the recommendations naming it. It reports whether a row existed.
func (s *CatalogService) Delete(ctx context.Context, ref string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bev, err := s.resolve(tx, ref)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Where("beverage_id = ? OR recommended_beverage_id = ?", bev.ID, bev.ID).
			Delete(&models.Recommendation{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", bev.ID).Delete(&models.Beverage{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, classifyDBError(err)
	}

	if deleted {
		utils.InfoLogger.WithFields(logrus.Fields{"ref": ref}).Info("beverage deleted")
	}
	return deleted, nil
}

// PopularItems ranks beverages by how many transaction lines reference them, then by sales.
func (s *CatalogService) PopularItems(ctx context.Context, category string, limit int) ([]models.PopularItem, error) {
	if limit <= 0 {
		limit = 10
	}

	q := s.db.WithContext(ctx).
		Table("beverages AS b").
		Select("b.id, b.name, b.category, b.subcategory, b.price, b.sales, COUNT(ti.id) AS order_count").
		Joins("LEFT JOIN transaction_items ti ON ti.beverage_id = b.id")
	if category != "" {
		q = q.Where("b.category = ?", category)
	}

	items := make([]models.PopularItem, 0)
	err := q.Group("b.id, b.name, b.category, b.subcategory, b.price, b.sales").
		Order("order_count DESC").Order("b.sales DESC").Order("b.id ASC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, classifyDBError(err)
	}
	return items, nil
}

// LowStock lists beverages whose inventory is below threshold, lowest first.
func (s *CatalogService) LowStock(ctx context.Context, threshold int) ([]models.Beverage, error) {
	if threshold <= 0 {
		threshold = s.opts.LowStockThreshold
	}

	bevs := make([]models.Beverage, 0)
	err := s.db.WithContext(ctx).
		Where("inventory < ?", threshold).
		Order("inventory ASC").Order("id ASC").
		Find(&bevs).Error
	if err != nil {
		return nil, classifyDBError(err)
	}
	return bevs, nil
}
