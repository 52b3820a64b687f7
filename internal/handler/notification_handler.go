package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atanasster/pad-champions/internal/response"
	"github.com/atanasster/pad-champions/internal/service"
	"github.com/atanasster/pad-champions/internal/util"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// UnreadCountResponse carries the unread total
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// List godoc
// @Summary      My notifications
// @Description  Newest inbox entries with the unread total
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.InboxResponse}
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	inbox, err := h.notificationService.List(c.Request.Context(), actor.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, inbox)
}

// UnreadCount godoc
// @Summary      My unread notification count
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=handler.UnreadCountResponse}
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), actor.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, UnreadCountResponse{Count: count})
}

// MarkRead godoc
// @Summary      Mark a notification read
// @Tags         notifications
// @Param        id path string true "Notification ID (UUID)"
// @Success      204
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}
	id, ok := parseUUIDParam(c, "id", "notification ID")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), actor.ID, id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead godoc
// @Summary      Mark all notifications read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.MarkAllReadResponse}
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := util.ExtractActor(c)
	if !ok {
		return
	}

	result, err := h.notificationService.MarkAllRead(c.Request.Context(), actor.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}
