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

// PostController handles post related operations
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

// CreatePost handles creating a new post
// @Summary Create a post
// @Description Creates a new "looking for" post owned by the authenticated user
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post data"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse} "Post created"
// @Failure 400 {object} dto.APIResponse "Invalid request body"
// @Failure 404 {object} dto.APIResponse "Category not found"
// @Router /posts [post]
func (c *PostController) CreatePost(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	var req dto.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	response, err := c.postService.Create(ctx, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(response))
}

// GetPost handles retrieving a single post
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse} "Post"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /posts/{id} [get]
func (c *PostController) GetPost(ctx *gin.Context) {
	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid post ID"))
		return
	}

	response, err := c.postService.GetByID(ctx, postID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// ListPosts handles retrieving posts with optional filters
// @Summary List posts
// @Description Retrieves posts newest first, optionally filtered by category, owner or open state
// @Tags posts
// @Produce json
// @Param categoryId query int false "Filter by category ID"
// @Param userId query int false "Filter by owner ID"
// @Param open query bool false "Only open posts"
// @Param limit query int false "Page size (default 50, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.APIResponse{data=[]dto.PostResponse} "Posts"
// @Router /posts [get]
func (c *PostController) ListPosts(ctx *gin.Context) {
	limit, offset := helpers.ParseLimitOffset(ctx, helpers.DefaultLimit)

	filter := repositories.PostFilter{Limit: limit, Offset: offset}

	if categoryIDStr := ctx.Query("categoryId"); categoryIDStr != "" {
		if categoryID, err := strconv.ParseInt(categoryIDStr, 10, 64); err == nil {
			filter.CategoryID = &categoryID
		}
	}
	if userIDStr := ctx.Query("userId"); userIDStr != "" {
		if userID, err := strconv.ParseInt(userIDStr, 10, 64); err == nil {
			filter.UserID = &userID
		}
	}
	if openStr := ctx.Query("open"); openStr != "" {
		if open, err := strconv.ParseBool(openStr); err == nil {
			filter.OpenOnly = open
		}
	}

	posts, pagination, err := c.postService.List(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewPagedResponse(posts, pagination))
}

// RespondToPost handles answering a post
// @Summary Respond to a post
// @Description Opens (or joins) the post's chat room and notifies the owner
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.ChatRoomResponse} "Chat room"
// @Failure 403 {object} dto.APIResponse "Post closed, own post, or room already taken"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /posts/{id}/respond [post]
func (c *PostController) RespondToPost(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid post ID"))
		return
	}

	response, message, err := c.postService.Respond(ctx, postID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(response, message))
}

// ClosePost handles closing a post to further responses
// @Summary Close a post
// @Description Marks the post closed. Owner only; the room stops accepting new messages.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse "Post closed"
// @Failure 400 {object} dto.APIResponse "Post already closed"
// @Failure 403 {object} dto.APIResponse "Not the post owner"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /posts/{id}/close [post]
func (c *PostController) ClosePost(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid post ID"))
		return
	}

	if err := c.postService.ClosePost(ctx, postID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(nil, "Post closed"))
}

// UpdatePost handles editing a post's fields
// @Summary Update a post
// @Description Updates the given fields of an open post. Owner only.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body dto.UpdatePostRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse} "Updated post"
// @Failure 400 {object} dto.APIResponse "Invalid request body or post closed"
// @Failure 403 {object} dto.APIResponse "Not the post owner"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /posts/{id} [put]
func (c *PostController) UpdatePost(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid post ID"))
		return
	}

	var req dto.UpdatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid request body: "+err.Error()))
		return
	}

	response, err := c.postService.Update(ctx, postID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// DeletePost handles removing a post
// @Summary Delete a post
// @Description Deletes the post along with its chat room and notifications. Owner only.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse "Post deleted"
// @Failure 403 {object} dto.APIResponse "Not the post owner"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /posts/{id} [delete]
func (c *PostController) DeletePost(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid post ID"))
		return
	}

	if err := c.postService.Delete(ctx, postID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessMessageResponse(nil, "Post deleted"))
}

// CheckUserResponse handles checking whether the caller already responded
// @Summary Check response status
// @Description Reports whether the caller has responded to the post and, if so, the room ID
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.ResponseStatus} "Response status"
// @Failure 404 {object} dto.APIResponse "Post not found"
// @Router /posts/{id}/response [get]
func (c *PostController) CheckUserResponse(ctx *gin.Context) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	postID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid post ID"))
		return
	}

	response, err := c.postService.CheckResponse(ctx, postID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// ListCategories handles retrieving all post categories
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CategoryResponse} "Categories"
// @Router /categories [get]
func (c *PostController) ListCategories(ctx *gin.Context) {
	categories, err := c.postService.ListCategories(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(categories))
}
