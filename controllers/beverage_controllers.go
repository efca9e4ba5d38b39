package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bar-pos/models"
	"github.com/yeremiapane/bar-pos/services"
	"github.com/yeremiapane/bar-pos/utils"
)

type BeverageController struct {
	Engine *services.Engine
}

func NewBeverageController(engine *services.Engine) *BeverageController {
	return &BeverageController{Engine: engine}
}

type upsertBeverageRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Subcategory string `json:"subcategory"`
	Price       int64  `json:"price"`
	Inventory   int    `json:"inventory"`
	Image       string `json:"image"`
	Sales       int    `json:"sales"`
}

type recommendationRequest struct {
	RecommendedID string  `json:"recommended_id" binding:"required"`
	Confidence    float64 `json:"confidence"`
}

// ListBeverages -> GET /beverages?category=
func (bc *BeverageController) ListBeverages(c *gin.Context) {
	var (
		bevs []models.Beverage
		err  error
	)
	if category := c.Query("category"); category != "" {
		bevs, err = bc.Engine.Catalog.ListByCategory(c.Request.Context(), category)
	} else {
		bevs, err = bc.Engine.Catalog.List(c.Request.Context())
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of beverages", bevs)
}

// GetBeverage -> GET /beverages/:id, id boleh berupa nama
func (bc *BeverageController) GetBeverage(c *gin.Context) {
	bev, err := bc.Engine.Catalog.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Beverage found", bev)
}

// ResolveBeverage -> GET /beverages/resolve?q=Old Fashioned
func (bc *BeverageController) ResolveBeverage(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("query parameter q is required"))
		return
	}
	bev, err := bc.Engine.Catalog.Resolve(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Beverage found", bev)
}

// UpsertBeverage -> POST /beverages, full overwrite
func (bc *BeverageController) UpsertBeverage(c *gin.Context) {
	var req upsertBeverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	bev, err := bc.Engine.Catalog.Upsert(c.Request.Context(), models.Beverage{
		ID:          req.ID,
		Name:        req.Name,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Price:       req.Price,
		Inventory:   req.Inventory,
		Image:       req.Image,
		Sales:       req.Sales,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Beverage saved", bev)
}

// UpdateBeverage -> PATCH /beverages/:id, only the fields sent are changed
func (bc *BeverageController) UpdateBeverage(c *gin.Context) {
	var patch services.BeveragePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	bev, err := bc.Engine.Catalog.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Beverage updated", bev)
}

// DeleteBeverage -> DELETE /beverages/:id
func (bc *BeverageController) DeleteBeverage(c *gin.Context) {
	deleted, err := bc.Engine.Catalog.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !deleted {
		utils.RespondError(c, http.StatusNotFound, errors.New("beverage not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Beverage deleted", gin.H{"deleted": true})
}

// PopularItems -> GET /beverages/popular?category=&limit=
func (bc *BeverageController) PopularItems(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 10)
	if !ok {
		return
	}
	items, err := bc.Engine.Catalog.PopularItems(c.Request.Context(), c.Query("category"), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Popular items", items)
}

// LowStock -> GET /beverages/low-stock?threshold=
func (bc *BeverageController) LowStock(c *gin.Context) {
	threshold, ok := queryInt(c, "threshold", 0)
	if !ok {
		return
	}
	bevs, err := bc.Engine.Catalog.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Low stock beverages", bevs)
}

// LineTax -> GET /beverages/:id/line-tax?quantity=&tax_category=
func (bc *BeverageController) LineTax(c *gin.Context) {
	qty, ok := queryInt(c, "quantity", 1)
	if !ok {
		return
	}
	lineTotal, tax, err := bc.Engine.Tax.LineTax(c.Request.Context(), c.Param("id"), qty, c.Query("tax_category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Line priced", gin.H{
		"line_total": lineTotal,
		"tax":        tax,
	})
}

// Recommendations -> GET /beverages/:id/recommendations?limit=
func (bc *BeverageController) Recommendations(c *gin.Context) {
	limit, ok := queryInt(c, "limit", services.DefaultRecommendationLimit)
	if !ok {
		return
	}
	recs, err := bc.Engine.Analytics.RecommendationsFor(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recommendations", recs)
}

// UpsertRecommendation -> POST /beverages/:id/recommendations
func (bc *BeverageController) UpsertRecommendation(c *gin.Context) {
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	rec, err := bc.Engine.Analytics.UpsertRecommendation(c.Request.Context(), c.Param("id"), req.RecommendedID, req.Confidence)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recommendation saved", rec)
}
