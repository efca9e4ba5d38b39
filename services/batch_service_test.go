package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/bar-pos/models"
)

func TestFinalizeMojitoScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "mojito", "Mojito", 1000, 10)

	batch, err := env.engine.Batches.Create(ctx, "5", nil)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusPending, batch.Status)

	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "mojito", Quantity: 3})
	require.NoError(t, err)

	employee := uint(7)
	txn, err := env.engine.Batches.Finalize(ctx, batch.ID, "Cash", &employee)
	require.NoError(t, err)
	assert.EqualValues(t, 3210, txn.TotalAmount)
	assert.EqualValues(t, 210, txn.TaxAmount)
	assert.Equal(t, "cash", txn.PaymentMethod)
	assert.Equal(t, "2026-03-14", txn.TransactionDate)
	assert.Equal(t, "18:30:00", txn.TransactionTime)
	require.Len(t, txn.Items, 1)
	assert.Equal(t, models.TaxCategoryPourShot, txn.Items[0].TaxCategory)
	require.NotNil(t, txn.Items[0].TaxDetail)
	assert.EqualValues(t, 210, txn.Items[0].TaxDetail.CalculatedTaxAmount)

	bev, err := env.engine.Catalog.FindByID(ctx, "mojito")
	require.NoError(t, err)
	assert.Equal(t, 7, bev.Inventory)
	assert.Equal(t, 3, bev.Sales)

	stored, err := env.engine.Batches.Get(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusCompleted, stored.Status)
	require.NotNil(t, stored.TransactionID)
	assert.Equal(t, txn.ID, *stored.TransactionID)
	assert.Equal(t, models.BatchStatusCompleted, stored.Items[0].Status)

	receipt, err := env.engine.Ledger.Receipt(ctx, txn.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3000, receipt.Subtotal)
	assert.Equal(t, receipt.Total, receipt.Subtotal+receipt.Tax)

	assert.Len(t, env.notifier.transactions, 1)
	assert.Len(t, env.notifier.lowStock, 1)
}

func TestFinalizeInsufficientInventoryIsAtomic(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "gin_tonic", "Gin Tonic", 900, 20)
	env.beverage(t, "mojito", "Mojito", 1000, 2)

	batch, err := env.engine.Batches.Create(ctx, "12", nil)
	require.NoError(t, err)
	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "Gin Tonic", Quantity: 4})
	require.NoError(t, err)
	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "mojito", Quantity: 3})
	require.NoError(t, err)

	_, err = env.engine.Batches.Finalize(ctx, batch.ID, "cash", nil)
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	gin, err := env.engine.Catalog.FindByID(ctx, "gin_tonic")
	require.NoError(t, err)
	assert.Equal(t, 20, gin.Inventory)
	assert.Equal(t, 0, gin.Sales)

	mojito, err := env.engine.Catalog.FindByID(ctx, "mojito")
	require.NoError(t, err)
	assert.Equal(t, 2, mojito.Inventory)

	stored, err := env.engine.Batches.Get(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusPending, stored.Status)

	var txCount int64
	require.NoError(t, env.db.Model(&models.Transaction{}).Count(&txCount).Error)
	assert.Zero(t, txCount)
}

func TestFinalizeAggregatesQuantitiesPerBeverage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "spritz", "Spritz", 800, 5)

	batch, err := env.engine.Batches.Create(ctx, "3", nil)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "spritz", Quantity: 3})
		require.NoError(t, err)
	}

	_, err = env.engine.Batches.Finalize(ctx, batch.ID, "debit", nil)
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	bev, err := env.engine.Catalog.FindByID(ctx, "spritz")
	require.NoError(t, err)
	assert.Equal(t, 5, bev.Inventory)
}

func TestFinalizeUsesItemTaxCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "prosecco", "Prosecco", 3000, 10)

	batch, err := env.engine.Batches.Create(ctx, "VIP", nil)
	require.NoError(t, err)
	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "prosecco", Quantity: 1, TaxCategory: "bottle"})
	require.NoError(t, err)
	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "prosecco", Quantity: 1, TaxCategory: "glass"})
	require.NoError(t, err)

	txn, err := env.engine.Batches.Finalize(ctx, batch.ID, "mobile", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 270+210, txn.TaxAmount)
	assert.EqualValues(t, 6000+480, txn.TotalAmount)
}

func TestBatchStateMachine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "mojito", "Mojito", 1000, 100)

	cancelled, err := env.engine.Batches.Create(ctx, "1", nil)
	require.NoError(t, err)
	_, err = env.engine.Batches.AddItem(ctx, cancelled.ID, BatchItemRequest{BeverageRef: "mojito", Quantity: 1})
	require.NoError(t, err)
	_, err = env.engine.Batches.Cancel(ctx, cancelled.ID)
	require.NoError(t, err)

	_, err = env.engine.Batches.AddItem(ctx, cancelled.ID, BatchItemRequest{BeverageRef: "mojito", Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = env.engine.Batches.Finalize(ctx, cancelled.ID, "cash", nil)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = env.engine.Batches.Cancel(ctx, cancelled.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	completed, err := env.engine.Batches.Create(ctx, "2", nil)
	require.NoError(t, err)
	_, err = env.engine.Batches.AddItem(ctx, completed.ID, BatchItemRequest{BeverageRef: "mojito", Quantity: 1})
	require.NoError(t, err)
	_, err = env.engine.Batches.Finalize(ctx, completed.ID, "cash", nil)
	require.NoError(t, err)

	_, err = env.engine.Batches.AddItem(ctx, completed.ID, BatchItemRequest{BeverageRef: "mojito", Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = env.engine.Batches.Cancel(ctx, completed.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = env.engine.Batches.Finalize(ctx, completed.ID, "cash", nil)
	assert.ErrorIs(t, err, ErrInvalidState)

	bev, err := env.engine.Catalog.FindByID(ctx, "mojito")
	require.NoError(t, err)
	assert.Equal(t, 99, bev.Inventory)
}

func TestBatchErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "mojito", "Mojito", 1000, 10)

	_, err := env.engine.Batches.Create(ctx, "  ", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.engine.Batches.AddItem(ctx, 999, BatchItemRequest{BeverageRef: "mojito", Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.engine.Batches.Finalize(ctx, 999, "cash", nil)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.engine.Batches.Cancel(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.engine.Batches.View(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	batch, err := env.engine.Batches.Create(ctx, "4", nil)
	require.NoError(t, err)

	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "mojito", Quantity: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "unicorn tears", Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.engine.Batches.Finalize(ctx, batch.ID, "cash", nil)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "mojito", Quantity: 1})
	require.NoError(t, err)
	_, err = env.engine.Batches.Finalize(ctx, batch.ID, "bitcoin", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	stored, err := env.engine.Batches.Get(ctx, batch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusPending, stored.Status)
}

func TestFinalizeChecksBatchBeforePaymentMethod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "mojito", "Mojito", 1000, 10)

	_, err := env.engine.Batches.Finalize(ctx, 999, "bitcoin", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	batch, err := env.engine.Batches.Create(ctx, "6", nil)
	require.NoError(t, err)
	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "mojito", Quantity: 1})
	require.NoError(t, err)
	_, err = env.engine.Batches.Cancel(ctx, batch.ID)
	require.NoError(t, err)

	_, err = env.engine.Batches.Finalize(ctx, batch.ID, "bitcoin", nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "mojito", "Mojito", 1000, 10)

	batch, err := env.engine.Batches.Create(ctx, "8", nil)
	require.NoError(t, err)
	item, err := env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "mojito", Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, env.engine.Batches.RemoveItem(ctx, batch.ID, item.ID))
	assert.ErrorIs(t, env.engine.Batches.RemoveItem(ctx, batch.ID, item.ID), ErrNotFound)

	view, err := env.engine.Batches.View(ctx, batch.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestViewUsesFlatDisplayTax(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "mojito", "Mojito", 1000, 10)
	env.beverage(t, "old_fashioned", "Old Fashioned", 1450, 10)

	batch, err := env.engine.Batches.Create(ctx, "9", nil)
	require.NoError(t, err)
	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "Mojito", Quantity: 2, Notes: "extra mint"})
	require.NoError(t, err)
	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "Old Fashioned", Quantity: 1, TaxCategory: "bottle"})
	require.NoError(t, err)

	view, err := env.engine.Batches.View(ctx, batch.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Mojito", view.Items[0].Name)
	assert.Equal(t, "extra mint", view.Items[0].Notes)
	assert.EqualValues(t, 3450, view.Subtotal)
	assert.EqualValues(t, 242, view.Tax) // 241.5
	assert.EqualValues(t, 3692, view.Total)
	assert.Equal(t, "9", view.TableNumber)
}

func TestCreateRecordsCustomerVisit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer, err := env.engine.Customers.Create(ctx, CustomerRequest{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = env.engine.Batches.Create(ctx, "11", &customer.ID)
	require.NoError(t, err)

	stored, err := env.engine.Customers.Get(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.VisitCount)
	assert.NotNil(t, stored.LastVisit)
}

func TestConcurrentFinalizeCommitsOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.beverage(t, "mojito", "Mojito", 1000, 10)

	batch, err := env.engine.Batches.Create(ctx, "5", nil)
	require.NoError(t, err)
	_, err = env.engine.Batches.AddItem(ctx, batch.ID, BatchItemRequest{BeverageRef: "mojito", Quantity: 3})
	require.NoError(t, err)

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.engine.Batches.Finalize(ctx, batch.ID, "cash", nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidState)
	}
	assert.Equal(t, 1, succeeded)

	bev, err := env.engine.Catalog.FindByID(ctx, "mojito")
	require.NoError(t, err)
	assert.Equal(t, 7, bev.Inventory)
	assert.Equal(t, 3, bev.Sales)
}
