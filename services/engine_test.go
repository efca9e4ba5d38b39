package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/bar-pos/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type recordingNotifier struct {
	mu           sync.Mutex
	batches      []models.OrderBatch
	transactions []models.Transaction
	lowStock     []models.Beverage
}

func (n *recordingNotifier) BatchChanged(b models.OrderBatch) {
	n.mu.Lock()
	n.batches = append(n.batches, b)
	n.mu.Unlock()
}

func (n *recordingNotifier) TransactionRecorded(t models.Transaction) {
	n.mu.Lock()
	n.transactions = append(n.transactions, t)
	n.mu.Unlock()
}

func (n *recordingNotifier) LowStock(b models.Beverage) {
	n.mu.Lock()
	n.lowStock = append(n.lowStock, b)
	n.mu.Unlock()
}

// setupTestDB opens a private in-memory database per test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type testEnv struct {
	db       *gorm.DB
	engine   *Engine
	clock    *testClock
	notifier *recordingNotifier
	metrics  *Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		db:       setupTestDB(t),
		clock:    &testClock{now: time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)},
		notifier: &recordingNotifier{},
		metrics:  NewMetrics(),
	}
	env.engine = NewEngine(env.db, Options{
		Now:      env.clock.Now,
		Notifier: env.notifier,
		Metrics:  env.metrics,
	})
	require.NoError(t, env.engine.Tax.SeedRates(context.Background()))
	return env
}

func (env *testEnv) beverage(t *testing.T, id, name string, price int64, inventory int) *models.Beverage {
	t.Helper()
	bev, err := env.engine.Catalog.Upsert(context.Background(), models.Beverage{
		ID:          id,
		Name:        name,
		Category:    "cocktail",
		Subcategory: "classic",
		Price:       price,
		Inventory:   inventory,
	})
	require.NoError(t, err)
	return bev
}
