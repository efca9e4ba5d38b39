package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/bar-pos/services"
	"github.com/yeremiapane/bar-pos/utils"
)

type TaxController struct {
	Engine *services.Engine
}

func NewTaxController(engine *services.Engine) *TaxController {
	return &TaxController{Engine: engine}
}

// category goes in the body: "pour/shot" cannot be a path segment
type updateRateRequest struct {
	TaxCategory string          `json:"tax_category" binding:"required"`
	Rate        decimal.Decimal `json:"rate"`
	Description string          `json:"description"`
}

// ListRates -> GET /tax-rates
func (tc *TaxController) ListRates(c *gin.Context) {
	rates, err := tc.Engine.Tax.Rates(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tax rates", rates)
}

// UpdateRate -> POST /tax-rates (manager only)
func (tc *TaxController) UpdateRate(c *gin.Context) {
	var req updateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	rate, err := tc.Engine.Tax.UpdateRate(c.Request.Context(), req.TaxCategory, req.Rate, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Tax rate updated", rate)
}
