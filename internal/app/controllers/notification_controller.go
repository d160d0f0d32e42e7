package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deniz/looking4/internal/app/models/dto"
	"github.com/deniz/looking4/internal/app/repositories"
	"github.com/deniz/looking4/internal/app/services"
	"github.com/deniz/looking4/internal/middleware"
	"github.com/deniz/looking4/internal/pkg/helpers"
)

// NotificationController handles notification operations
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// ListNotifications handles listing the caller's notifications
// @Summary List notifications
// @Description Retrieves the caller's notifications newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unreadOnly query bool false "Only unread notifications"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=[]dto.NotificationResponse} "Notifications"
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	limit, offset := helpers.ParseLimitOffset(ctx, helpers.DefaultLimit)

	filter := repositories.NotificationFilter{Limit: limit, Offset: offset}
	if unreadStr := ctx.Query("unreadOnly"); unreadStr != "" {
		if unread, err := strconv.ParseBool(unreadStr); err == nil {
			filter.UnreadOnly = unread
		}
	}

	notifications, pagination, err := c.notificationService.List(ctx, userID, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPagedResponse(notifications, pagination))
}

// MarkNotificationRead handles marking a notification as read
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse "Marked read"
// @Failure 403 {object} dto.APIResponse "Not the recipient"
// @Failure 404 {object} dto.APIResponse "Notification not found"
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkNotificationRead(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	notificationID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid notification ID"))
		return
	}

	if err := c.notificationService.MarkAsRead(ctx, notificationID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(nil, "Notification marked as read"))
}

// DeleteNotification handles removing a notification
// @Summary Delete a notification
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 403 {object} dto.APIResponse "Not the recipient"
// @Failure 404 {object} dto.APIResponse "Notification not found"
// @Router /notifications/{id} [delete]
func (c *NotificationController) DeleteNotification(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	notificationID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid notification ID"))
		return
	}

	if err := c.notificationService.Delete(ctx, notificationID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(nil, "Notification deleted"))
}
