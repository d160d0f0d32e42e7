package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deniz/looking4/internal/app/models/dto"
	"github.com/deniz/looking4/internal/app/services"
	"github.com/deniz/looking4/internal/middleware"
	"github.com/deniz/looking4/internal/pkg/helpers"
)

// ChatController handles chat room and message operations
type ChatController struct {
	chatService *services.ChatService
}

// NewChatController creates a new ChatController
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// GetUserRooms handles listing the caller's chat rooms
// @Summary List own chat rooms
// @Description Retrieves the caller's rooms, most recently active first
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=[]dto.ChatRoomResponse} "Rooms"
// @Router /chats/rooms/my-rooms [get]
func (c *ChatController) GetUserRooms(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	limit, offset := helpers.ParseLimitOffset(ctx, helpers.DefaultLimit)

	rooms, pagination, err := c.chatService.GetUserRooms(ctx, userID, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPagedResponse(rooms, pagination))
}

// GetRoom handles retrieving a single chat room
// @Summary Get a chat room
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat room ID"
// @Success 200 {object} dto.APIResponse{data=dto.ChatRoomResponse} "Room"
// @Failure 403 {object} dto.APIResponse "Not a participant"
// @Failure 404 {object} dto.APIResponse "Room not found"
// @Router /chats/{id} [get]
func (c *ChatController) GetRoom(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	roomID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid chat room ID"))
		return
	}

	response, err := c.chatService.GetRoom(ctx, roomID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// GetMessages handles retrieving room history
// @Summary Get room messages
// @Description Retrieves a page of the room's history in insertion order
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat room ID"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=[]dto.MessageResponse} "Messages"
// @Failure 403 {object} dto.APIResponse "Not a participant"
// @Failure 404 {object} dto.APIResponse "Room not found"
// @Router /chats/{id}/messages [get]
func (c *ChatController) GetMessages(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	roomID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid chat room ID"))
		return
	}

	limit, offset := helpers.ParseLimitOffset(ctx, helpers.DefaultLimit)

	messages, pagination, err := c.chatService.GetMessages(ctx, roomID, userID, limit, offset)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPagedResponse(messages, pagination))
}

// SendMessage handles posting a message to a room
// @Summary Send a message
// @Description Persists the message, then pushes it to the room's connected clients
// @Tags chats
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat room ID"
// @Param request body dto.SendMessageRequest true "Message content"
// @Success 201 {object} dto.APIResponse{data=dto.MessageResponse} "Message stored"
// @Failure 400 {object} dto.APIResponse "Invalid content"
// @Failure 403 {object} dto.APIResponse "Not a participant or post closed"
// @Failure 404 {object} dto.APIResponse "Room not found"
// @Router /chats/{id}/messages [post]
func (c *ChatController) SendMessage(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	roomID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid chat room ID"))
		return
	}

	var req dto.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	response, err := c.chatService.SendMessage(ctx, roomID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// LeaveRoom handles a member leaving a room
// @Summary Leave a chat room
// @Description Removes the caller's membership. The room persists even when empty.
// @Tags chats
// @Produce json
// @Security BearerAuth
// @Param id path int true "Chat room ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeaveRoomResponse} "Left the room"
// @Failure 403 {object} dto.APIResponse "Not a participant"
// @Failure 404 {object} dto.APIResponse "Room not found"
// @Router /chats/{id}/leave [post]
func (c *ChatController) LeaveRoom(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	roomID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid chat room ID"))
		return
	}

	response, err := c.chatService.LeaveRoom(ctx, roomID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}
