package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bar-pos/services"
	"github.com/yeremiapane/bar-pos/utils"
)

type CustomerController struct {
	Engine *services.Engine
}

func NewCustomerController(engine *services.Engine) *CustomerController {
	return &CustomerController{Engine: engine}
}

// CreateCustomer -> POST /customers
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	var req services.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	profile, err := cc.Engine.Customers.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Customer created", profile)
}

// GetCustomer -> GET /customers/:customer_id
func (cc *CustomerController) GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "customer_id")
	if !ok {
		return
	}
	profile, err := cc.Engine.Customers.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Customer details", profile)
}
