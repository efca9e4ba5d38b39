package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bar-pos/services"
	"github.com/yeremiapane/bar-pos/utils"
)

type BatchController struct {
	Engine *services.Engine
}

func NewBatchController(engine *services.Engine) *BatchController {
	return &BatchController{Engine: engine}
}

type createBatchRequest struct {
	TableNumber string `json:"table_number" binding:"required"`
	CustomerID  *uint  `json:"customer_id"`
}

type addItemRequest struct {
	BeverageID  string `json:"beverage_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required"`
	Notes       string `json:"notes"`
	TaxCategory string `json:"tax_category"`
}

type finalizeRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	EmployeeID    *uint  `json:"employee_id"`
}

// CreateBatch -> POST /batches
func (bc *BatchController) CreateBatch(c *gin.Context) {
	var req createBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	batch, err := bc.Engine.Batches.Create(c.Request.Context(), req.TableNumber, req.CustomerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Batch created", batch)
}

// ListBatches -> GET /batches?status=pending
func (bc *BatchController) ListBatches(c *gin.Context) {
	batches, err := bc.Engine.Batches.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of batches", batches)
}

// ViewBatch -> GET /batches/:batch_id
func (bc *BatchController) ViewBatch(c *gin.Context) {
	batchID, ok := parseIDParam(c, "batch_id")
	if !ok {
		return
	}
	view, err := bc.Engine.Batches.View(c.Request.Context(), batchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Batch details", view)
}

// AddItem -> POST /batches/:batch_id/items
func (bc *BatchController) AddItem(c *gin.Context) {
	batchID, ok := parseIDParam(c, "batch_id")
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := bc.Engine.Batches.AddItem(c.Request.Context(), batchID, services.BatchItemRequest{
		BeverageRef: req.BeverageID,
		Quantity:    req.Quantity,
		Notes:       req.Notes,
		TaxCategory: req.TaxCategory,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item added", item)
}

// RemoveItem -> DELETE /batches/:batch_id/items/:item_id
func (bc *BatchController) RemoveItem(c *gin.Context) {
	batchID, ok := parseIDParam(c, "batch_id")
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "item_id")
	if !ok {
		return
	}
	if err := bc.Engine.Batches.RemoveItem(c.Request.Context(), batchID, itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", nil)
}

// FinalizeBatch -> POST /batches/:batch_id/finalize
func (bc *BatchController) FinalizeBatch(c *gin.Context) {
	batchID, ok := parseIDParam(c, "batch_id")
	if !ok {
		return
	}
	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	txn, err := bc.Engine.Batches.Finalize(c.Request.Context(), batchID, req.PaymentMethod, employeeFor(c, req.EmployeeID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Batch finalized", txn)
}

// CancelBatch -> POST /batches/:batch_id/cancel
func (bc *BatchController) CancelBatch(c *gin.Context) {
	batchID, ok := parseIDParam(c, "batch_id")
	if !ok {
		return
	}
	batch, err := bc.Engine.Batches.Cancel(c.Request.Context(), batchID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Batch cancelled", batch)
}
