package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/deniz/looking4/internal/app/models"
	appRepos "github.com/deniz/looking4/internal/app/repositories"
	"github.com/deniz/looking4/internal/pkg/apperrors"
)

var defaultCategories = []appModels.Category{
	{Name: "Team", Slug: "team", Description: "Looking 4 team members or collaborators"},
	{Name: "Items", Slug: "items", Description: "Looking 4 items or products"},
	{Name: "Rides", Slug: "rides", Description: "Looking 4 or offering rides"},
	{Name: "Housing", Slug: "housing", Description: "Looking 4 housing or roommates"},
	{Name: "Services", Slug: "services", Description: "Looking 4 services or expertise"},
	{Name: "Learning", Slug: "learning", Description: "Looking 4 learning opportunities or tutors"},
	{Name: "Events", Slug: "events", Description: "Looking 4 event attendees or participants"},
	{Name: "Other", Slug: "other", Description: "Other requests"},
}

// CreateDefaultData inserts the default post categories if they don't exist
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	categoryRepo := appRepos.NewCategoryRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default categories...")
	var finalErr error

	for _, category := range defaultCategories {
		category := category
		if _, err := categoryRepo.GetBySlug(ctx, category.Slug); err == nil {
			continue
		} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
			lgr.Error().Err(err).Str("slug", category.Slug).Msg("Error checking category")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		if _, err := categoryRepo.Create(ctx, &category); err != nil {
			lgr.Error().Err(err).Str("slug", category.Slug).Msg("Error creating category")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("slug", category.Slug).Msg("Created category")
	}

	return finalErr
}
