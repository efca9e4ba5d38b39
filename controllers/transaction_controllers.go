package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bar-pos/services"
	"github.com/yeremiapane/bar-pos/utils"
)

type TransactionController struct {
	Engine *services.Engine
}

func NewTransactionController(engine *services.Engine) *TransactionController {
	return &TransactionController{Engine: engine}
}

type recordRequest struct {
	PaymentMethod string                 `json:"payment_method" binding:"required"`
	Items         []services.LineRequest `json:"items" binding:"required"`
	EmployeeID    *uint                  `json:"employee_id"`
}

// RecordTransaction -> POST /transactions, direct order without stock check
func (tc *TransactionController) RecordTransaction(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	txn, err := tc.Engine.Ledger.Record(c.Request.Context(), req.PaymentMethod, req.Items, employeeFor(c, req.EmployeeID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Transaction recorded", txn)
}

// GetTransaction -> GET /transactions/:transaction_id
func (tc *TransactionController) GetTransaction(c *gin.Context) {
	id, ok := parseIDParam(c, "transaction_id")
	if !ok {
		return
	}
	txn, err := tc.Engine.Ledger.Transaction(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Transaction details", txn)
}

// GetReceipt -> GET /transactions/:transaction_id/receipt[?format=text]
func (tc *TransactionController) GetReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "transaction_id")
	if !ok {
		return
	}
	receipt, err := tc.Engine.Ledger.Receipt(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, services.RenderReceiptText(receipt))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Receipt", receipt)
}

// GetReceiptPDF -> GET /transactions/:transaction_id/receipt/pdf
func (tc *TransactionController) GetReceiptPDF(c *gin.Context) {
	id, ok := parseIDParam(c, "transaction_id")
	if !ok {
		return
	}
	receipt, err := tc.Engine.Ledger.Receipt(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.RenderReceiptPDF(receipt, &buf); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=receipt-%d.pdf", id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// RevenueSummary -> GET /reports/revenue?date=2026-03-14&shift=evening
func (tc *TransactionController) RevenueSummary(c *gin.Context) {
	summary, err := tc.Engine.Ledger.RevenueSummary(c.Request.Context(), c.Query("date"), c.Query("shift"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Revenue summary", summary)
}

// SalesTrend -> GET /reports/sales-trend?days=7
func (tc *TransactionController) SalesTrend(c *gin.Context) {
	days, ok := queryInt(c, "days", 7)
	if !ok {
		return
	}
	points, err := tc.Engine.Ledger.SalesTrend(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sales trend", points)
}
