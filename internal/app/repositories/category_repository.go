package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deniz/looking4/internal/app/models"
	"github.com/deniz/looking4/internal/pkg/apperrors"
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetAll retrieves all categories ordered by name
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*models.Category, error) {
	query := `
		SELECT id, name, slug, description, created_at
		FROM categories
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error retrieving categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.Description,
			&category.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		categories = append(categories, &category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

// GetByID retrieves a category by its ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := `
		SELECT id, name, slug, description, created_at
		FROM categories
		WHERE id = $1
	`

	var category models.Category
	err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Category not found")
		}
		return nil, fmt.Errorf("error retrieving category: %w", err)
	}

	return &category, nil
}

// GetBySlug retrieves a category by its slug
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `
		SELECT id, name, slug, description, created_at
		FROM categories
		WHERE slug = $1
	`

	var category models.Category
	err := r.db.QueryRow(ctx, query, slug).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Description,
		&category.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("Category not found")
		}
		return nil, fmt.Errorf("error retrieving category by slug: %w", err)
	}

	return &category, nil
}

// Create inserts a new category and returns its ID
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) (int64, error) {
	query := `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		category.Name,
		category.Slug,
		category.Description,
	).Scan(&category.ID, &category.CreatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating category: %w", err)
	}

	return category.ID, nil
}
