package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bar-pos/services"
	"github.com/yeremiapane/bar-pos/utils"
)

type EventController struct {
	Engine *services.Engine
}

func NewEventController(engine *services.Engine) *EventController {
	return &EventController{Engine: engine}
}

// CreateEvent -> POST /events
func (ec *EventController) CreateEvent(c *gin.Context) {
	var req services.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	event, err := ec.Engine.Events.CreateEvent(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Event created", event)
}

// ListUpcoming -> GET /events
func (ec *EventController) ListUpcoming(c *gin.Context) {
	events, err := ec.Engine.Events.UpcomingEvents(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Upcoming events", events)
}

// GetEvent -> GET /events/:event_id
func (ec *EventController) GetEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}
	event, err := ec.Engine.Events.EventDetails(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Event details", event)
}

// CreateBooking -> POST /events/:event_id/bookings
func (ec *EventController) CreateBooking(c *gin.Context) {
	id, ok := parseIDParam(c, "event_id")
	if !ok {
		return
	}
	var req services.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	booking, err := ec.Engine.Events.CreateBooking(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

// DrinkPackages -> GET /events/packages
func (ec *EventController) DrinkPackages(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Drink packages", ec.Engine.Events.DrinkPackages())
}
