package recipemain

import (
	"context"
	"fmt"
	"strings"

	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/dhima/recipe-list-platform/internal/models"
	"github.com/dhima/recipe-list-platform/internal/recipelist"
	"go.uber.org/zap"
)

// RecipeSaver persists discovered recipes.
type RecipeSaver interface {
	SaveRecipe(ctx context.Context, recipe *models.Recipe) error
}

// EventBus receives a SAVE event for every stored recipe.
type EventBus interface {
	Post(ctx context.Context, event models.RecipeMainEvent) error
}

// Repository saves recipes picked from the discovery feed.
type Repository struct {
	store  RecipeSaver
	bus    EventBus
	logger logging.Logger
}

// NewRepository creates a repository over store that reports to bus.
func NewRepository(store RecipeSaver, bus EventBus, logger logging.Logger) *Repository {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Repository{
		store:  store,
		bus:    bus,
		logger: logging.Component(logger, "recipemain"),
	}
}

// SaveRecipe upserts the recipe and posts one SAVE event carrying it. The
// id is trimmed before storing; the returned record is what was stored.
func (r *Repository) SaveRecipe(ctx context.Context, recipe models.Recipe) (models.Recipe, error) {
	recipe.RecipeID = strings.TrimSpace(recipe.RecipeID)
	if recipe.RecipeID == "" {
		return models.Recipe{}, recipelist.NewValidationError("recipe_id is required")
	}

	if err := r.store.SaveRecipe(ctx, &recipe); err != nil {
		r.logger.Error("failed to save recipe",
			zap.String("recipe_id", recipe.RecipeID),
			zap.Error(err))
		return models.Recipe{}, fmt.Errorf("save recipe: %w", err)
	}

	event := models.RecipeMainEvent{Type: models.RecipeMainEventSave, Recipe: recipe}
	if err := r.bus.Post(ctx, event); err != nil {
		r.logger.Error("failed to post recipe main event",
			zap.String("recipe_id", recipe.RecipeID),
			zap.Error(err))
		return recipe, fmt.Errorf("post save event: %w", err)
	}

	r.logger.Info("recipe saved", zap.String("recipe_id", recipe.RecipeID))
	return recipe, nil
}
