package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bar-pos/models"
	"github.com/yeremiapane/bar-pos/services"
	"github.com/yeremiapane/bar-pos/utils"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedBeverage is one catalog row of a seed file. The id is derived from the name.
type SeedBeverage struct {
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category" yaml:"category"`
	Subcategory string `json:"subcategory" yaml:"subcategory"`
	Price       int64  `json:"price" yaml:"price"`
	Inventory   int    `json:"inventory" yaml:"inventory"`
	Sales       int    `json:"sales" yaml:"sales"`
	Image       string `json:"image" yaml:"image"`
}

// LoadSeedFile reads a JSON or YAML (.yaml/.yml) list of beverages.
func LoadSeedFile(path string) ([]SeedBeverage, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var items []SeedBeverage
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &items)
	default:
		err = json.Unmarshal(raw, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return items, nil
}

// SeedBeverages loads items into an empty catalog. A catalog that already has rows is left
// untouched and 0 is returned.
func SeedBeverages(ctx context.Context, catalog *services.CatalogService, items []SeedBeverage) (int, error) {
	count, err := catalog.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		utils.InfoLogger.WithFields(logrus.Fields{"existing": count}).Info("catalog already seeded, skipping")
		return 0, nil
	}

	bevs := make([]models.Beverage, 0, len(items))
	for _, item := range items {
		bevs = append(bevs, models.Beverage{
			ID:          services.DeriveID(item.Name),
			Name:        strings.TrimSpace(item.Name),
			Category:    item.Category,
			Subcategory: item.Subcategory,
			Price:       item.Price,
			Inventory:   item.Inventory,
			Sales:       item.Sales,
			Image:       item.Image,
		})
	}

	// satu transaksi: seed yang gagal tidak meninggalkan katalog setengah terisi
	loaded, err := catalog.UpsertMany(ctx, bevs)
	if err != nil {
		return 0, fmt.Errorf("seed catalog: %w", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{"beverages": loaded}).Info("catalog seeded")
	return loaded, nil
}

// Bootstrap migrates the schema, seeds the tax rates and, on first boot, the catalog.
// A missing seed file is not an error.
func Bootstrap(ctx context.Context, db *gorm.DB, engine *services.Engine, seedFile string) error {
	if err := Migrate(db); err != nil {
		return err
	}
	if err := engine.Tax.SeedRates(ctx); err != nil {
		return err
	}
	if seedFile == "" {
		return nil
	}

	items, err := LoadSeedFile(seedFile)
	if errors.Is(err, os.ErrNotExist) {
		utils.InfoLogger.Warnf("seed file %s not found, starting with an empty catalog", seedFile)
		return nil
	}
	if err != nil {
		return err
	}
	_, err = SeedBeverages(ctx, engine.Catalog, items)
	return err
}
