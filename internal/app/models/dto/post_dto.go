package dto

import (
	"time"

	"github.com/deniz/looking4/internal/app/models"
)

// --- Request DTOs ---

// CreatePostRequest represents data for creating a new post
type CreatePostRequest struct {
	Title                     string  `json:"title" binding:"required,min=1,max=200"`
	Description               string  `json:"description" binding:"required,min=1,max=5000"`
	CategoryID                int64   `json:"categoryId" binding:"required"`
	Location                  *string `json:"location,omitempty"`
	AllowMultipleParticipants bool    `json:"allowMultipleParticipants"`
}

// UpdatePostRequest represents a partial edit to a post. Nil fields are
// left unchanged.
type UpdatePostRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" binding:"omitempty,min=1,max=5000"`
	CategoryID  *int64  `json:"categoryId,omitempty"`
	Location    *string `json:"location,omitempty"`
}

// --- Response DTOs ---

// ResponseStatus tells whether the caller already responded to a post
type ResponseStatus struct {
	Responded  bool   `json:"responded"`
	ChatRoomID *int64 `json:"chatRoomId,omitempty"`
}

// CategoryResponse represents a post category
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// PostRoomSummary is the room summary embedded in a post detail response
type PostRoomSummary struct {
	ID               int64     `json:"id"`
	CreatedAt        time.Time `json:"createdAt"`
	ParticipantCount int       `json:"participantCount"`
}

// PostResponse represents a post with denormalized owner and category fields
type PostResponse struct {
	ID                        int64              `json:"id"`
	UserID                    int64              `json:"userId"`
	Title                     string             `json:"title"`
	Description               string             `json:"description"`
	Location                  *string            `json:"location,omitempty"`
	AllowMultipleParticipants bool               `json:"allowMultipleParticipants"`
	IsOpen                    bool               `json:"isOpen"`
	CreatedAt                 time.Time          `json:"createdAt"`
	User                      *UserBasicResponse `json:"user,omitempty"`
	Category                  *CategoryResponse  `json:"category,omitempty"`
	ChatRoom                  *PostRoomSummary   `json:"chatRoom,omitempty"`
}

// ToCategoryResponse converts a category model to its response shape
func ToCategoryResponse(category *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
	}
}

// ToPostResponse converts a post model to its response shape
func ToPostResponse(post *models.Post) PostResponse {
	response := PostResponse{
		ID:                        post.ID,
		UserID:                    post.UserID,
		Title:                     post.Title,
		Description:               post.Description,
		Location:                  post.Location,
		AllowMultipleParticipants: post.AllowMultipleParticipants,
		IsOpen:                    post.IsOpen,
		CreatedAt:                 post.CreatedAt,
	}

	if post.User != nil {
		user := ToUserBasicResponse(post.User)
		response.User = &user
	}

	if post.Category != nil {
		category := ToCategoryResponse(post.Category)
		response.Category = &category
	}

	return response
}
