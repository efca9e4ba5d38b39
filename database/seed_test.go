package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/bar-pos/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestLoadSeedFileYAML(t *testing.T) {
	items, err := LoadSeedFile(filepath.Join("testdata", "drinks.yaml"))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Negroni", items[0].Name)
	assert.EqualValues(t, 1300, items[1].Price)
	assert.Equal(t, 4, items[1].Sales)
}

func TestLoadSeedFileJSON(t *testing.T) {
	items, err := LoadSeedFile(filepath.Join("..", "drinks.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	for _, item := range items {
		assert.NotEmpty(t, item.Name)
		assert.GreaterOrEqual(t, item.Inventory, 0)
	}
}

func TestLoadSeedFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadSeedFile(path)
	assert.Error(t, err)
}

func TestBootstrapSeedsOnce(t *testing.T) {
	db := setupTestDB(t)
	engine := services.NewEngine(db, services.Options{})
	ctx := context.Background()
	seed := filepath.Join("testdata", "drinks.yaml")

	require.NoError(t, Bootstrap(ctx, db, engine, seed))

	bev, err := engine.Catalog.Resolve(ctx, "Boulevardier")
	require.NoError(t, err)
	assert.Equal(t, "boulevardier", bev.ID)
	assert.Equal(t, 20, bev.Inventory)

	rates, err := engine.Tax.Rates(ctx)
	require.NoError(t, err)
	assert.Len(t, rates, 4)

	// a second boot must not reset stock
	require.NoError(t, db.Exec("UPDATE beverages SET inventory = 3 WHERE id = ?", "negroni").Error)
	require.NoError(t, Bootstrap(ctx, db, engine, seed))

	negroni, err := engine.Catalog.FindByID(ctx, "negroni")
	require.NoError(t, err)
	assert.Equal(t, 3, negroni.Inventory)
}

func TestBootstrapWithoutSeedFile(t *testing.T) {
	db := setupTestDB(t)
	engine := services.NewEngine(db, services.Options{})
	ctx := context.Background()

	require.NoError(t, Bootstrap(ctx, db, engine, filepath.Join(t.TempDir(), "missing.json")))

	count, err := engine.Catalog.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSeedBeveragesIsAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	engine := services.NewEngine(db, services.Options{})
	ctx := context.Background()
	require.NoError(t, Migrate(db))

	items := []SeedBeverage{
		{Name: "Negroni", Category: "cocktail", Subcategory: "bitter", Price: 1200, Inventory: 10},
		{Name: "Broken", Category: "cocktail", Subcategory: "bitter", Price: -1, Inventory: 10},
		{Name: "Americano", Category: "cocktail", Subcategory: "bitter", Price: 1000, Inventory: 10},
	}
	_, err := SeedBeverages(ctx, engine.Catalog, items)
	require.ErrorIs(t, err, services.ErrInvalidInput)

	count, err := engine.Catalog.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// the next boot with a fixed file seeds the whole catalog
	items[1].Price = 900
	loaded, err := SeedBeverages(ctx, engine.Catalog, items)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded)
}
