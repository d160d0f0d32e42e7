package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/pkg/apperrors"
)

// PostFilter holds optional filters for listing posts
type PostFilter struct {
	CategoryID *int64
	UserID     *int64
	OpenOnly   bool
	Limit      int
	Offset     int
}

// PostUpdate holds the fields of a partial post edit. Nil fields are left
// untouched.
type PostUpdate struct {
	Title       *string
	Description *string
	CategoryID  *int64
	Location    *string
}

// PostRepository handles database operations for posts
type PostRepository struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post and returns its ID
func (r *PostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (
			user_id, category_id, title, description, location, allow_multiple_participants
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_open, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		post.UserID,
		post.CategoryID,
		post.Title,
		post.Description,
		post.Location,
		post.AllowMultipleParticipants,
	).Scan(&post.ID, &post.IsOpen, &post.CreatedAt, &post.UpdatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	return post.ID, nil
}

// GetByID retrieves a post with its owner and category
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `
		SELECT
			p.id, p.user_id, p.category_id, p.title, p.description, p.location,
			p.allow_multiple_participants, p.is_open, p.created_at, p.updated_at,
			u.username, u.avatar_url,
			c.name, c.slug, c.description
		FROM posts p
		JOIN users u ON p.user_id = u.id
		JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1
	`

	var post models.Post
	var user models.User
	var category models.Category

	err := r.db.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.UserID,
		&post.CategoryID,
		&post.Title,
		&post.Description,
		&post.Location,
		&post.AllowMultipleParticipants,
		&post.IsOpen,
		&post.CreatedAt,
		&post.UpdatedAt,
		&user.Username,
		&user.AvatarURL,
		&category.Name,
		&category.Slug,
		&category.Description,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error retrieving post: %w", err)
	}

	user.ID = post.UserID
	category.ID = post.CategoryID
	post.User = &user
	post.Category = &category

	return &post, nil
}

// List retrieves posts matching the filter, newest first
func (r *PostRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	queryBuilder := squirrel.Select(
		"p.id", "p.user_id", "p.category_id", "p.title", "p.description", "p.location",
		"p.allow_multiple_participants", "p.is_open", "p.created_at", "p.updated_at",
		"u.username", "u.avatar_url",
		"c.name", "c.slug", "c.description",
	).
		From("posts p").
		Join("users u ON p.user_id = u.id").
		Join("categories c ON p.category_id = c.id").
		OrderBy("p.created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(squirrel.Dollar)

	if filter.CategoryID != nil {
		queryBuilder = queryBuilder.Where("p.category_id = ?", *filter.CategoryID)
	}
	if filter.UserID != nil {
		queryBuilder = queryBuilder.Where("p.user_id = ?", *filter.UserID)
	}
	if filter.OpenOnly {
		queryBuilder = queryBuilder.Where("p.is_open = TRUE")
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		var user models.User
		var category models.Category

		if err := rows.Scan(
			&post.ID,
			&post.UserID,
			&post.CategoryID,
			&post.Title,
			&post.Description,
			&post.Location,
			&post.AllowMultipleParticipants,
			&post.IsOpen,
			&post.CreatedAt,
			&post.UpdatedAt,
			&user.Username,
			&user.AvatarURL,
			&category.Name,
			&category.Slug,
			&category.Description,
		); err != nil {
			return nil, fmt.Errorf("error scanning post row: %w", err)
		}

		user.ID = post.UserID
		category.ID = post.CategoryID
		post.User = &user
		post.Category = &category
		posts = append(posts, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// Count returns the number of posts matching the filter
func (r *PostRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	queryBuilder := squirrel.Select("COUNT(*)").
		From("posts p").
		PlaceholderFormat(squirrel.Dollar)

	if filter.CategoryID != nil {
		queryBuilder = queryBuilder.Where("p.category_id = ?", *filter.CategoryID)
	}
	if filter.UserID != nil {
		queryBuilder = queryBuilder.Where("p.user_id = ?", *filter.UserID)
	}
	if filter.OpenOnly {
		queryBuilder = queryBuilder.Where("p.is_open = TRUE")
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return count, nil
}

// Update applies a partial edit to a post
func (r *PostRepository) Update(ctx context.Context, id int64, update PostUpdate) error {
	queryBuilder := squirrel.Update("posts").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	if update.Title != nil {
		queryBuilder = queryBuilder.Set("title", *update.Title)
	}
	if update.Description != nil {
		queryBuilder = queryBuilder.Set("description", *update.Description)
	}
	if update.CategoryID != nil {
		queryBuilder = queryBuilder.Set("category_id", *update.CategoryID)
	}
	if update.Location != nil {
		queryBuilder = queryBuilder.Set("location", *update.Location)
	}

	sql, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

// Delete removes a post. The room, participants and messages attached to it
// go with it through the foreign key cascade.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

// Close flips the post's open flag. Returns ErrConflict if already closed.
func (r *PostRepository) Close(ctx context.Context, id int64) error {
	query := `
		UPDATE posts
		SET is_open = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_open = TRUE
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error closing post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}

	return nil
}
