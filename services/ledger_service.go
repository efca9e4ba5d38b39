package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/bar-pos/models"
	"github.com/yeremiapane/bar-pos/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Accepted payment methods
const (
	PaymentCash   = "cash"
	PaymentCredit = "credit"
	PaymentDebit  = "debit"
	PaymentMobile = "mobile"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"

	morningStart = "08:00:00"
	eveningStart = "16:00:00"
)

// LineRequest is one line of a direct transaction.
type LineRequest struct {
	BeverageID  string `json:"id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gte=1"`
	TaxCategory string `json:"tax_category"`
}

// LedgerService writes and reads committed transactions.
type LedgerService struct {
	*base
	catalog *CatalogService
	tax     *TaxService
}

// NormalizePaymentMethod lower-cases method and checks it against the accepted set.
func (s *LedgerService) NormalizePaymentMethod(method string) (string, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	if err := s.validate.Var(method, "required,oneof=cash credit debit mobile"); err != nil {
		return "", fmt.Errorf("payment method %q: %w", method, ErrInvalidInput)
	}
	return method, nil
}

// write inserts the transaction header, its lines and their tax details. It runs inside
// the caller's transaction and is the only place totals are computed.
func (s *LedgerService) write(tx *gorm.DB, method string, employeeID, batchID *uint, lines []pricedLine) (*models.Transaction, error) {
	var subtotal, tax int64
	for _, l := range lines {
		subtotal += l.LineTotal
		tax += l.TaxAmount
	}

	now := s.now()
	txn := models.Transaction{
		TransactionDate: now.Format(dateLayout),
		TransactionTime: now.Format(timeLayout),
		PaymentMethod:   method,
		EmployeeID:      employeeID,
		BatchID:         batchID,
		TotalAmount:     subtotal + tax,
		TaxAmount:       tax,
	}
	if err := tx.Omit(clause.Associations).Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	txn.Items = make([]models.TransactionItem, 0, len(lines))
	for _, l := range lines {
		item := models.TransactionItem{
			TransactionID: txn.ID,
			BeverageID:    l.Beverage.ID,
			BeverageName:  l.Beverage.Name,
			Quantity:      l.Quantity,
			UnitPrice:     l.Beverage.Price,
			LineTotal:     l.LineTotal,
			TaxCategory:   l.TaxCategory,
			TaxAmount:     l.TaxAmount,
		}
		if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
			return nil, fmt.Errorf("insert transaction item %s: %w", l.Beverage.ID, err)
		}

		if l.Rate != nil {
			detail := models.TaxDetail{
				TransactionItemID:   item.ID,
				TaxRateID:           l.Rate.ID,
				CalculatedTaxAmount: l.TaxAmount,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return nil, fmt.Errorf("insert tax detail %s: %w", l.Beverage.ID, err)
			}
			item.TaxDetail = &detail
		}
		txn.Items = append(txn.Items, item)
	}

	return &txn, nil
}

// Record writes a direct transaction. Stock is not checked or changed; lines that fail
// validation or do not resolve to a beverage are dropped.
func (s *LedgerService) Record(ctx context.Context, paymentMethod string, items []LineRequest, employeeID *uint) (txn *models.Transaction, err error) {
	defer func(start time.Time) { s.opts.Metrics.observe("record", start, err) }(time.Now())

	method, err := s.NormalizePaymentMethod(paymentMethod)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	dropped := 0
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := make([]pricedLine, 0, len(items))
		for _, req := range items {
			if verr := s.validate.Struct(req); verr != nil {
				dropped++
				continue
			}
			bev, rerr := s.catalog.resolve(tx, req.BeverageID)
			if errors.Is(rerr, ErrNotFound) {
				dropped++
				continue
			}
			if rerr != nil {
				return rerr
			}
			line, perr := s.tax.priceLine(tx, *bev, req.Quantity, req.TaxCategory)
			if perr != nil {
				return perr
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			return fmt.Errorf("no valid items among %d: %w", len(items), ErrInvalidInput)
		}

		var werr error
		txn, werr = s.write(tx, method, employeeID, nil, lines)
		return werr
	})
	if err != nil {
		err = classifyDBError(err)
		utils.ErrorLogger.WithError(err).Warn("record transaction failed")
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"total":          txn.TotalAmount,
		"dropped_items":  dropped,
	}).Info("direct transaction recorded")
	s.opts.Metrics.recorded(txn.TotalAmount)
	s.opts.Notifier.TransactionRecorded(*txn)
	return txn, nil
}

// Transaction loads a committed transaction with its lines.
func (s *LedgerService) Transaction(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.TaxDetail").
		Where("transaction_id = ?", transactionID).
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("transaction %d: %w", transactionID, ErrNotFound)
	}
	if err != nil {
		return nil, classifyDBError(err)
	}
	return &txn, nil
}

func (s *LedgerService) Receipt(ctx context.Context, transactionID uint) (*models.Receipt, error) {
	txn, err := s.Transaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	receipt := &models.Receipt{
		TransactionID: txn.ID,
		Date:          txn.TransactionDate,
		Time:          txn.TransactionTime,
		Items:         make([]models.ReceiptItem, 0, len(txn.Items)),
		Subtotal:      txn.TotalAmount - txn.TaxAmount,
		Tax:           txn.TaxAmount,
		Total:         txn.TotalAmount,
		PaymentMethod: txn.PaymentMethod,
	}
	for _, item := range txn.Items {
		receipt.Items = append(receipt.Items, models.ReceiptItem{
			Name:      item.BeverageName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
			Tax:       item.TaxAmount,
		})
	}
	return receipt, nil
}

// RevenueSummary aggregates transactions of date (any date when empty) within shift
// (whole day when empty).
func (s *LedgerService) RevenueSummary(ctx context.Context, date, shift string) (*models.RevenueSummary, error) {
	q := s.db.WithContext(ctx).Model(&models.Transaction{})
	if date != "" {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("date %q: %w", date, ErrInvalidInput)
		}
		q = q.Where("transaction_date = ?", date)
	}

	shift = strings.ToLower(strings.TrimSpace(shift))
	switch shift {
	case "":
	case models.ShiftMorning:
		q = q.Where("transaction_time >= ? AND transaction_time < ?", morningStart, eveningStart)
	case models.ShiftEvening:
		q = q.Where("transaction_time >= ?", eveningStart)
	default:
		return nil, fmt.Errorf("shift %q: %w", shift, ErrInvalidInput)
	}

	var row struct {
		TotalSales       int64
		TotalTax         int64
		TransactionCount int64
	}
	err := q.Select("COALESCE(SUM(total_amount), 0) AS total_sales, " +
		"COALESCE(SUM(tax_amount), 0) AS total_tax, " +
		"COUNT(*) AS transaction_count").
		Scan(&row).Error
	if err != nil {
		return nil, classifyDBError(err)
	}
	if row.TransactionCount == 0 {
		return nil, fmt.Errorf("revenue for date %q shift %q: %w", date, shift, ErrNotFound)
	}

	return &models.RevenueSummary{
		Date:             date,
		Shift:            shift,
		TotalSales:       row.TotalSales,
		TotalTax:         row.TotalTax,
		TransactionCount: row.TransactionCount,

		AverageTransaction: row.TotalSales / row.TransactionCount,
	}, nil
}

// SalesTrend returns one point per date with sales in the trailing window, oldest first.
func (s *LedgerService) SalesTrend(ctx context.Context, days int) ([]models.SalesTrendPoint, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days %d: %w", days, ErrInvalidInput)
	}
	cutoff := s.now().AddDate(0, 0, -days).Format(dateLayout)

	points := make([]models.SalesTrendPoint, 0)
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("transaction_date AS date, COUNT(*) AS transaction_count, " +
			"SUM(total_amount) AS sales_total, SUM(tax_amount) AS tax_total").
		Where("transaction_date >= ?", cutoff).
		Group("transaction_date").
		Order("transaction_date ASC").
		Scan(&points).Error
	if err != nil {
		return nil, classifyDBError(err)
	}
	return points, nil
}
