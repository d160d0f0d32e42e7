package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deniz/looking4/internal/app/models/dto"
)

const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ParseLimitOffset extracts and validates limit/offset query parameters.
// Invalid or out-of-range values fall back to defaults.
func ParseLimitOffset(c *gin.Context, defaultLimit int) (limit, offset int) {
	if defaultLimit <= 0 || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}

	limit = defaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil && v > 0 && v <= MaxLimit {
			limit = v
		}
	}

	offset = 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if v, err := strconv.Atoi(offsetStr); err == nil && v >= 0 {
			offset = v
		}
	}

	return limit, offset
}

// NewPagination builds the pagination block returned alongside list responses.
func NewPagination(total int64, limit, offset int) *dto.Pagination {
	return &dto.Pagination{
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}

// ClampLimit normalizes an arbitrary limit value for repository queries.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
