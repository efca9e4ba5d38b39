package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/bar-pos/models"
)

func TestDeriveID(t *testing.T) {
	assert.Equal(t, "old_fashioned", DeriveID("Old Fashioned"))
	assert.Equal(t, "mojito", DeriveID("  Mojito "))
	assert.Equal(t, "", DeriveID("   "))
}

func TestUpsertFindAndResolveGenerated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	f := gofakeit.New(42)

	for i := 0; i < 25; i++ {
		in := models.Beverage{
			Name:        fmt.Sprintf("%s %d", f.BeerName(), i),
			Category:    f.BeerStyle(),
			Subcategory: f.Word(),
			Price:       int64(f.Number(0, 5000)),
			Inventory:   f.Number(0, 200),
			Sales:       f.Number(0, 50),
		}

		saved, err := env.engine.Catalog.Upsert(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, DeriveID(in.Name), saved.ID)

		got, err := env.engine.Catalog.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, in.Name, got.Name)
		assert.Equal(t, in.Category, got.Category)
		assert.Equal(t, in.Subcategory, got.Subcategory)
		assert.Equal(t, in.Price, got.Price)
		assert.Equal(t, in.Inventory, got.Inventory)
		assert.Equal(t, in.Sales, got.Sales)

		byName, err := env.engine.Catalog.Resolve(ctx, in.Name)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, byName.ID)

		byID, err := env.engine.Catalog.Resolve(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, byID.ID)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	in := models.Beverage{ID: "negroni", Name: "Negroni", Category: "cocktail", Subcategory: "bitter", Price: 1200, Inventory: 40}

	first, err := env.engine.Catalog.Upsert(ctx, in)
	require.NoError(t, err)
	second, err := env.engine.Catalog.Upsert(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Price, second.Price)
	assert.Equal(t, first.Inventory, second.Inventory)
	assert.Equal(t, first.Sales, second.Sales)

	count, err := env.engine.Catalog.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUpsertRejectsNegativeValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.engine.Catalog.Upsert(ctx, models.Beverage{Name: "Bad", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.engine.Catalog.Upsert(ctx, models.Beverage{Name: "Bad", Inventory: -5})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.engine.Catalog.Upsert(ctx, models.Beverage{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpsertManyRollsBackOnBadRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bevs := []models.Beverage{
		{Name: "Daiquiri", Category: "cocktail", Subcategory: "sour", Price: 1100, Inventory: 5},
		{Name: "Gimlet", Category: "cocktail", Subcategory: "sour", Price: 1000, Inventory: -2},
	}
	_, err := env.engine.Catalog.UpsertMany(ctx, bevs)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.engine.Catalog.FindByID(ctx, "daiquiri")
	assert.ErrorIs(t, err, ErrNotFound)

	bevs[1].Inventory = 2
	n, err := env.engine.Catalog.UpsertMany(ctx, bevs)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	gimlet, err := env.engine.Catalog.Resolve(ctx, "Gimlet")
	require.NoError(t, err)
	assert.Equal(t, 2, gimlet.Inventory)
}

func TestUpdateKeepsUnspecifiedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.engine.Catalog.Upsert(ctx, models.Beverage{
		ID: "daiquiri", Name: "Daiquiri", Category: "cocktail", Subcategory: "sour",
		Price: 1100, Inventory: 20, Sales: 9, Image: "daiquiri.png",
	})
	require.NoError(t, err)

	price := int64(1250)
	updated, err := env.engine.Catalog.Update(ctx, "Daiquiri", BeveragePatch{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, int64(1250), updated.Price)
	assert.Equal(t, 20, updated.Inventory)
	assert.Equal(t, 9, updated.Sales)
	assert.Equal(t, "daiquiri.png", updated.Image)
	assert.Equal(t, "sour", updated.Subcategory)

	_, err = env.engine.Catalog.Update(ctx, "unknown", BeveragePatch{Price: &price})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByCategoryKeepsInsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "c_first", "C First", 100, 5)
	env.beverage(t, "d_second", "D Second", 100, 5)
	_, err := env.engine.Catalog.Upsert(ctx, models.Beverage{ID: "lager", Name: "Lager", Category: "beer", Subcategory: "pale", Price: 600, Inventory: 10})
	require.NoError(t, err)

	bevs, err := env.engine.Catalog.ListByCategory(ctx, "cocktail")
	require.NoError(t, err)
	require.Len(t, bevs, 2)
	assert.Equal(t, "c_first", bevs[0].ID)
	assert.Equal(t, "d_second", bevs[1].ID)

	none, err := env.engine.Catalog.ListByCategory(ctx, "wine")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteReportsExistence(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "gimlet", "Gimlet", 1000, 5)
	env.beverage(t, "gin_sour", "Gin Sour", 1000, 5)
	_, err := env.engine.Analytics.UpsertRecommendation(ctx, "gimlet", "gin_sour", 0.8)
	require.NoError(t, err)

	deleted, err := env.engine.Catalog.Delete(ctx, "Gimlet")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = env.engine.Catalog.Delete(ctx, "gimlet")
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = env.engine.Catalog.FindByID(ctx, "gimlet")
	assert.ErrorIs(t, err, ErrNotFound)

	var recs int64
	require.NoError(t, env.db.Model(&models.Recommendation{}).Count(&recs).Error)
	assert.Zero(t, recs)
}

func TestPopularItemsRanking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "mojito", "Mojito", 1000, 50)
	env.beverage(t, "margarita", "Margarita", 1100, 50)
	_, err := env.engine.Catalog.Upsert(ctx, models.Beverage{ID: "martini", Name: "Martini", Category: "cocktail", Subcategory: "classic", Price: 1300, Inventory: 50, Sales: 99})
	require.NoError(t, err)

	_, err = env.engine.Ledger.Record(ctx, "cash", []LineRequest{{BeverageID: "mojito", Quantity: 1}, {BeverageID: "margarita", Quantity: 1}}, nil)
	require.NoError(t, err)
	_, err = env.engine.Ledger.Record(ctx, "card", []LineRequest{{BeverageID: "mojito", Quantity: 1}}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.engine.Ledger.Record(ctx, "credit", []LineRequest{{BeverageID: "mojito", Quantity: 2}}, nil)
	require.NoError(t, err)

	items, err := env.engine.Catalog.PopularItems(ctx, "cocktail", 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "mojito", items[0].ID)
	assert.EqualValues(t, 2, items[0].OrderCount)
	assert.Equal(t, "margarita", items[1].ID)
	assert.Equal(t, "martini", items[2].ID)
	assert.EqualValues(t, 0, items[2].OrderCount)

	top, err := env.engine.Catalog.PopularItems(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestLowStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "rum", "Rum", 800, 3)
	env.beverage(t, "vodka", "Vodka", 800, 29)
	env.beverage(t, "whisky", "Whisky", 800, 30)

	low, err := env.engine.Catalog.LowStock(ctx, 0)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "rum", low[0].ID)
	assert.Equal(t, "vodka", low[1].ID)

	low, err = env.engine.Catalog.LowStock(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, low, 1)
}
