package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bar-pos/models"
	"github.com/yeremiapane/bar-pos/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BatchItemRequest is a line appended to a pending batch. BeverageRef may be an id or a name.
type BatchItemRequest struct {
	BeverageRef string `json:"beverage_id"`
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes"`
	TaxCategory string `json:"tax_category"`
}

// BatchService drives the pending -> completed | cancelled lifecycle of table orders.
type BatchService struct {
	*base
	catalog *CatalogService
	tax     *TaxService
	ledger  *LedgerService
}

// lockBatch reads the batch row with FOR UPDATE on dialects that support it.
func (s *BatchService) lockBatch(tx *gorm.DB, batchID uint) (*models.OrderBatch, error) {
	var batch models.OrderBatch
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("batch_id = ?", batchID).
		First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("batch %d: %w", batchID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func requirePending(batch *models.OrderBatch) error {
	if !batch.IsPending() {
		return fmt.Errorf("batch %d is %s: %w", batch.ID, batch.Status, ErrInvalidState)
	}
	return nil
}

// Create opens a pending batch for a table. A known customer gets its visit recorded.
func (s *BatchService) Create(ctx context.Context, tableNumber string, customerID *uint) (batch *models.OrderBatch, err error) {
	defer func(start time.Time) { s.opts.Metrics.observe("batch_create", start, err) }(time.Now())

	tableNumber = strings.TrimSpace(tableNumber)
	if tableNumber == "" {
		return nil, fmt.Errorf("table number is required: %w", ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	batch = &models.OrderBatch{
		TableNumber: tableNumber,
		CustomerID:  customerID,
		Status:      models.BatchStatusPending,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(batch).Error; err != nil {
			return err
		}
		if customerID == nil {
			return nil
		}
		now := s.now()
		return tx.Model(&models.CustomerProfile{}).
			Where("customer_id = ?", *customerID).
			Updates(map[string]interface{}{
				"visit_count": gorm.Expr("visit_count + ?", 1),
				"last_visit":  now,
			}).Error
	})
	if err != nil {
		return nil, classifyDBError(err)
	}

	batch.Items = []models.BatchItem{}
	utils.InfoLogger.WithFields(logrus.Fields{
		"batch_id":     batch.ID,
		"table_number": batch.TableNumber,
	}).Info("batch created")
	s.opts.Notifier.BatchChanged(*batch)
	return batch, nil
}

// AddItem appends a line to a pending batch. Stock is not reserved until Finalize.
func (s *BatchService) AddItem(ctx context.Context, batchID uint, req BatchItemRequest) (item *models.BatchItem, err error) {
	defer func(start time.Time) { s.opts.Metrics.observe("batch_add_item", start, err) }(time.Now())

	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity %d: %w", req.Quantity, ErrInvalidInput)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var batch *models.OrderBatch
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lerr error
		if batch, lerr = s.lockBatch(tx, batchID); lerr != nil {
			return lerr
		}
		if lerr = requirePending(batch); lerr != nil {
			return lerr
		}

		bev, rerr := s.catalog.resolve(tx, req.BeverageRef)
		if rerr != nil {
			return rerr
		}

		item = &models.BatchItem{
			BatchID:     batch.ID,
			BeverageID:  bev.ID,
			Quantity:    req.Quantity,
			TaxCategory: normalizeTaxCategory(req.TaxCategory),
			Notes:       strings.TrimSpace(req.Notes),
			Status:      models.BatchStatusPending,
		}
		if cerr := tx.Create(item).Error; cerr != nil {
			return cerr
		}
		return tx.Model(batch).Update("updated_at", s.now()).Error
	})
	if err != nil {
		return nil, classifyDBError(err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"batch_id":    batchID,
		"beverage_id": item.BeverageID,
		"quantity":    item.Quantity,
	}).Info("item added to batch")
	s.opts.Notifier.BatchChanged(*batch)
	return item, nil
}

// RemoveItem drops a line from a pending batch.
func (s *BatchService) RemoveItem(ctx context.Context, batchID, itemID uint) (err error) {
	defer func(start time.Time) { s.opts.Metrics.observe("batch_remove_item", start, err) }(time.Now())

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var batch *models.OrderBatch
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lerr error
		if batch, lerr = s.lockBatch(tx, batchID); lerr != nil {
			return lerr
		}
		if lerr = requirePending(batch); lerr != nil {
			return lerr
		}

		res := tx.Where("id = ? AND batch_id = ?", itemID, batchID).Delete(&models.BatchItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("item %d in batch %d: %w", itemID, batchID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return classifyDBError(err)
	}

	s.opts.Notifier.BatchChanged(*batch)
	return nil
}

// Get loads a batch with its lines.
func (s *BatchService) Get(ctx context.Context, batchID uint) (*models.OrderBatch, error) {
	var batch models.OrderBatch
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("batch_id = ?", batchID).
		First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("batch %d: %w", batchID, ErrNotFound)
	}
	if err != nil {
		return nil, classifyDBError(err)
	}
	return &batch, nil
}

// List returns batches, optionally filtered by status, newest first.
func (s *BatchService) List(ctx context.Context, status string) ([]models.OrderBatch, error) {
	q := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	if status != "" {
		q = q.Where("status = ?", status)
	}

	batches := make([]models.OrderBatch, 0)
	if err := q.Order("batch_id DESC").Find(&batches).Error; err != nil {
		return nil, classifyDBError(err)
	}
	return batches, nil
}

// View is a read-only projection priced with the flat default rate.
func (s *BatchService) View(ctx context.Context, batchID uint) (*models.BatchView, error) {
	batch, err := s.Get(ctx, batchID)
	if err != nil {
		return nil, err
	}

	view := &models.BatchView{
		BatchID:     batch.ID,
		TableNumber: batch.TableNumber,
		CustomerID:  batch.CustomerID,
		Status:      batch.Status,
		CreatedAt:   batch.CreatedAt,
		Items:       make([]models.BatchViewItem, 0, len(batch.Items)),
	}

	db := s.db.WithContext(ctx)
	for _, item := range batch.Items {
		line := models.BatchViewItem{
			ItemID:     item.ID,
			BeverageID: item.BeverageID,
			Name:       item.BeverageID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
			Status:     item.Status,
		}
		// a beverage deleted after the line was added shows up unpriced
		bev, ferr := s.catalog.findByID(db, item.BeverageID)
		switch {
		case ferr == nil:
			line.Name = bev.Name
			line.UnitPrice = bev.Price
		case !errors.Is(ferr, ErrNotFound):
			return nil, ferr
		}

		view.Subtotal += line.UnitPrice * int64(line.Quantity)
		view.Items = append(view.Items, line)
	}
	view.Tax = computeTax(view.Subtotal, DefaultTaxRate)
	view.Total = view.Subtotal + view.Tax
	return view, nil
}

// Finalize turns a pending batch into a transaction. Stock is decremented, sales are
// counted, the transaction is written and the batch is completed in one DB transaction;
// any failure leaves all of them untouched.
// Checks run in the same order as the other batch operations: the batch must exist and be
// pending before the payment method or the items are looked at.
func (s *BatchService) Finalize(ctx context.Context, batchID uint, paymentMethod string, employeeID *uint) (txn *models.Transaction, err error) {
	defer func(start time.Time) { s.opts.Metrics.observe("batch_finalize", start, err) }(time.Now())

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		method   string
		batch    *models.OrderBatch
		sold     map[string]int
		lowStock []models.Beverage
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lerr error
		if batch, lerr = s.lockBatch(tx, batchID); lerr != nil {
			return lerr
		}
		if lerr = requirePending(batch); lerr != nil {
			return lerr
		}
		if method, lerr = s.ledger.NormalizePaymentMethod(paymentMethod); lerr != nil {
			return lerr
		}

		var items []models.BatchItem
		if ferr := tx.Where("batch_id = ?", batch.ID).Order("id ASC").Find(&items).Error; ferr != nil {
			return ferr
		}
		if len(items) == 0 {
			return fmt.Errorf("batch %d has no items: %w", batch.ID, ErrInvalidState)
		}

		sold = make(map[string]int, len(items))
		for _, item := range items {
			sold[item.BeverageID] += item.Quantity
		}
		ids := make([]string, 0, len(sold))
		for id := range sold {
			ids = append(ids, id)
		}
		// fixed lock order across concurrent finalizes
		sort.Strings(ids)

		beverages := make(map[string]models.Beverage, len(ids))
		for _, id := range ids {
			qty := sold[id]
			res := tx.Model(&models.Beverage{}).
				Where("id = ? AND inventory >= ?", id, qty).
				Updates(map[string]interface{}{
					"inventory": gorm.Expr("inventory - ?", qty),
					"sales":     gorm.Expr("sales + ?", qty),
				})
			if res.Error != nil {
				return res.Error
			}

			bev, ferr := s.catalog.findByID(tx, id)
			if ferr != nil {
				return ferr
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%s: %d requested, %d in stock: %w", id, qty, bev.Inventory, ErrInsufficientInventory)
			}
			beverages[id] = *bev
			if bev.Inventory < s.opts.LowStockThreshold {
				lowStock = append(lowStock, *bev)
			}
		}

		lines := make([]pricedLine, 0, len(items))
		for _, item := range items {
			line, perr := s.tax.priceLine(tx, beverages[item.BeverageID], item.Quantity, item.TaxCategory)
			if perr != nil {
				return perr
			}
			lines = append(lines, line)
		}

		var werr error
		if txn, werr = s.ledger.write(tx, method, employeeID, &batch.ID, lines); werr != nil {
			return werr
		}

		res := tx.Model(&models.OrderBatch{}).
			Where("batch_id = ? AND status = ?", batch.ID, models.BatchStatusPending).
			Updates(map[string]interface{}{
				"status":         models.BatchStatusCompleted,
				"transaction_id": txn.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("batch %d changed concurrently: %w", batch.ID, ErrRetryable)
		}

		return tx.Model(&models.BatchItem{}).
			Where("batch_id = ?", batch.ID).
			Update("status", models.BatchStatusCompleted).Error
	})
	if err != nil {
		err = classifyDBError(err)
		utils.ErrorLogger.WithFields(logrus.Fields{
			"batch_id": batchID,
			"kind":     ErrorKind(err),
		}).WithError(err).Warn("batch finalize failed")
		return nil, err
	}

	batch.Status = models.BatchStatusCompleted
	batch.TransactionID = &txn.ID

	utils.InfoLogger.WithFields(logrus.Fields{
		"batch_id":       batch.ID,
		"transaction_id": txn.ID,
		"total":          txn.TotalAmount,
		"payment_method": method,
	}).Info("batch finalized")

	for id, qty := range sold {
		s.opts.Metrics.sold(id, qty)
	}
	s.opts.Metrics.recorded(txn.TotalAmount)
	s.opts.Notifier.BatchChanged(*batch)
	s.opts.Notifier.TransactionRecorded(*txn)
	for _, bev := range lowStock {
		s.opts.Notifier.LowStock(bev)
	}
	return txn, nil
}

// Cancel moves a pending batch to cancelled. Nothing was reserved, so nothing is released.
func (s *BatchService) Cancel(ctx context.Context, batchID uint) (batch *models.OrderBatch, err error) {
	defer func(start time.Time) { s.opts.Metrics.observe("batch_cancel", start, err) }(time.Now())

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lerr error
		if batch, lerr = s.lockBatch(tx, batchID); lerr != nil {
			return lerr
		}
		if lerr = requirePending(batch); lerr != nil {
			return lerr
		}

		res := tx.Model(&models.OrderBatch{}).
			Where("batch_id = ? AND status = ?", batch.ID, models.BatchStatusPending).
			Update("status", models.BatchStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("batch %d changed concurrently: %w", batch.ID, ErrRetryable)
		}

		return tx.Model(&models.BatchItem{}).
			Where("batch_id = ?", batch.ID).
			Update("status", models.BatchStatusCancelled).Error
	})
	if err != nil {
		return nil, classifyDBError(err)
	}

	batch.Status = models.BatchStatusCancelled
	utils.InfoLogger.WithFields(logrus.Fields{"batch_id": batch.ID}).Info("batch cancelled")
	s.opts.Notifier.BatchChanged(*batch)
	return batch, nil
}
