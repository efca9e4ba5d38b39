package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/bar-pos/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultRecommendationLimit = 3
	// fallbackConfidence is assigned to same-subcategory peers when no explicit pairing exists
	fallbackConfidence = 0.7
)

type AnalyticsService struct {
	*base
	catalog *CatalogService
}

// RecommendationsFor suggests beverages to pair with ref. Explicit pairings win; otherwise
// the best sellers of the same category and subcategory are returned. An empty or unknown
// ref yields an empty slice.
func (s *AnalyticsService) RecommendationsFor(ctx context.Context, ref string, limit int) ([]models.Suggestion, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	suggestions := make([]models.Suggestion, 0)
	if strings.TrimSpace(ref) == "" {
		return suggestions, nil
	}

	db := s.db.WithContext(ctx)
	bev, err := s.catalog.resolve(db, ref)
	if errors.Is(err, ErrNotFound) {
		return suggestions, nil
	}
	if err != nil {
		return nil, err
	}

	err = db.Table("recommendations AS r").
		Select("b.id, b.name, b.category, b.price, r.confidence").
		Joins("JOIN beverages b ON b.id = r.recommended_beverage_id").
		Where("r.beverage_id = ?", bev.ID).
		Order("r.confidence DESC").Order("b.id ASC").
		Limit(limit).
		Scan(&suggestions).Error
	if err != nil {
		return nil, classifyDBError(err)
	}
	if len(suggestions) > 0 {
		return suggestions, nil
	}

	var peers []models.Beverage
	err = db.Where("category = ? AND subcategory = ? AND id <> ?", bev.Category, bev.Subcategory, bev.ID).
		Order("sales DESC").Order("id ASC").
		Limit(limit).
		Find(&peers).Error
	if err != nil {
		return nil, classifyDBError(err)
	}
	for _, p := range peers {
		suggestions = append(suggestions, models.Suggestion{
			ID:         p.ID,
			Name:       p.Name,
			Category:   p.Category,
			Price:      p.Price,
			Confidence: fallbackConfidence,
		})
	}
	return suggestions, nil
}

// UpsertRecommendation stores or replaces the confidence of the (beverage, recommended) pair.
func (s *AnalyticsService) UpsertRecommendation(ctx context.Context, ref, recommendedRef string, confidence float64) (rec *models.Recommendation, err error) {
	defer func(start time.Time) { s.opts.Metrics.observe("recommendation_upsert", start, err) }(time.Now())

	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("confidence %v outside [0,1]: %w", confidence, ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		from, rerr := s.catalog.resolve(tx, ref)
		if rerr != nil {
			return rerr
		}
		to, rerr := s.catalog.resolve(tx, recommendedRef)
		if rerr != nil {
			return rerr
		}
		if from.ID == to.ID {
			return fmt.Errorf("%s cannot recommend itself: %w", from.ID, ErrInvalidInput)
		}

		rec = &models.Recommendation{
			BeverageID:            from.ID,
			RecommendedBeverageID: to.ID,
			Confidence:            confidence,
		}
		cerr := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "beverage_id"}, {Name: "recommended_beverage_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"confidence", "updated_at"}),
		}).Create(rec).Error
		if cerr != nil {
			return cerr
		}
		rec = &models.Recommendation{}
		return tx.Where("beverage_id = ? AND recommended_beverage_id = ?", from.ID, to.ID).First(rec).Error
	})
	if err != nil {
		return nil, classifyDBError(err)
	}
	return rec, nil
}
