package models

import "time"

// Post represents a classifieds request ("Looking 4 ...").
// Once IsOpen flips to false no further responses or room creation are
// authorized through it; reads remain available.
type Post struct {
	ID                        int64     `json:"id" db:"id"`
	UserID                    int64     `json:"userId" db:"user_id"`
	CategoryID                int64     `json:"categoryId" db:"category_id"`
	Title                     string    `json:"title" db:"title"`
	Description               string    `json:"description" db:"description"`
	Location                  *string   `json:"location,omitempty" db:"location"`
	AllowMultipleParticipants bool      `json:"allowMultipleParticipants" db:"allow_multiple_participants"`
	IsOpen                    bool      `json:"isOpen" db:"is_open"`
	CreatedAt                 time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt                 time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	User     *User     `json:"user,omitempty"`
	Category *Category `json:"category,omitempty"`
}
