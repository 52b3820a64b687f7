package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atanasster/pad-champions/internal/dto"
	"github.com/atanasster/pad-champions/internal/response"
	"github.com/atanasster/pad-champions/internal/service"
	"github.com/atanasster/pad-champions/internal/util"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// SeedEventsResponse reports how many events were written
type SeedEventsResponse struct {
	Seeded int `json:"seeded"`
}

// ListEvents godoc
// @Summary      List screening events
// @Description  Public calendar of screening events, soonest first
// @Tags         events
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.EventResponse}
// @Failure      500 {object} response.ErrorResponse
// @Router       /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.eventService.ListEvents(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, events)
}

// CreateEvent godoc
// @Summary      Create a screening event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body dto.EventRequest true "Event"
// @Success      201 {object} response.SuccessResponse{data=dto.EventResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary      Update a screening event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id path string true "Event ID (UUID)"
// @Param        request body dto.EventRequest true "Event"
// @Success      200 {object} response.SuccessResponse{data=dto.EventResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id} [put]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "event ID")
	if !ok {
		return
	}

	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary      Delete a screening event
// @Tags         events
// @Param        id path string true "Event ID (UUID)"
// @Success      204
// @Failure      403 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /events/{id} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "event ID")
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), actor, id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SeedEvents godoc
// @Summary      Seed screening events
// @Description  Upserts a batch of events by id. Admins only.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body dto.SeedEventsRequest true "Events"
// @Success      200 {object} response.SuccessResponse{data=handler.SeedEventsResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      403 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /events/seed [post]
func (h *EventHandler) SeedEvents(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	var req dto.SeedEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	n, err := h.eventService.SeedEvents(c.Request.Context(), actor, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, SeedEventsResponse{Seeded: n})
}
