package services

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/yeremiapane/bar-pos/models"
	"gorm.io/gorm"
)

const (
	DefaultLockTimeout       = 3 * time.Second
	DefaultLowStockThreshold = 30
)

// Notifier receives committed state changes. Calls happen after commit, on the caller's goroutine.
type Notifier interface {
	BatchChanged(batch models.OrderBatch)
	TransactionRecorded(txn models.Transaction)
	LowStock(beverage models.Beverage)
}

type noopNotifier struct{}

func (noopNotifier) BatchChanged(models.OrderBatch)         {}
func (noopNotifier) TransactionRecorded(models.Transaction) {}
func (noopNotifier) LowStock(models.Beverage)               {}

type Options struct {
	LockTimeout       time.Duration
	LowStockThreshold int
	Now               func() time.Time
	Metrics           *Metrics
	Notifier          Notifier
}

func (o *Options) applyDefaults() {
	if o.LockTimeout <= 0 {
		o.LockTimeout = DefaultLockTimeout
	}
	if o.LowStockThreshold <= 0 {
		o.LowStockThreshold = DefaultLowStockThreshold
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Notifier == nil {
		o.Notifier = noopNotifier{}
	}
}

// base is shared by every service of one Engine
type base struct {
	db       *gorm.DB
	opts     *Options
	validate *validator.Validate
}

func (b *base) now() time.Time {
	return b.opts.Now()
}

// withTimeout bounds a mutating operation so lock waits fail fast instead of hanging.
func (b *base) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.opts.LockTimeout)
}

// Engine is the function-call surface used by the HTTP layer and other callers.
type Engine struct {
	Catalog   *CatalogService
	Tax       *TaxService
	Batches   *BatchService
	Ledger    *LedgerService
	Analytics *AnalyticsService
	Events    *EventService
	Customers *CustomerService
}

func NewEngine(db *gorm.DB, opts Options) *Engine {
	opts.applyDefaults()
	b := &base{db: db, opts: &opts, validate: validator.New()}

	catalog := &CatalogService{base: b}
	tax := &TaxService{base: b, catalog: catalog}
	ledger := &LedgerService{base: b, catalog: catalog, tax: tax}

	return &Engine{
		Catalog:   catalog,
		Tax:       tax,
		Batches:   &BatchService{base: b, catalog: catalog, tax: tax, ledger: ledger},
		Ledger:    ledger,
		Analytics: &AnalyticsService{base: b, catalog: catalog},
		Events:    &EventService{base: b},
		Customers: &CustomerService{base: b},
	}
}
