package recipelist

import (
	"context"

	"github.com/dhima/recipe-list-platform/internal/models"
)

// RecipeStore defines the persistence the repository needs.
type RecipeStore interface {
	GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error)
	ListRecipes(ctx context.Context) ([]models.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipe(ctx context.Context, recipeID string) error
}

// EventBus receives one event per successful repository operation.
type EventBus interface {
	Post(ctx context.Context, event models.RecipeListEvent) error
}
