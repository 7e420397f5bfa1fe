package recipelist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/dhima/recipe-list-platform/internal/models"
	"github.com/dhima/recipe-list-platform/internal/storage"
	"go.uber.org/zap"
)

// Repository is the saved-recipes facade. Every successful operation posts
// exactly one RecipeListEvent to the bus; failed operations post nothing.
type Repository struct {
	store  RecipeStore
	bus    EventBus
	logger logging.Logger
}

// NewRepository creates a repository over store that reports to bus.
func NewRepository(store RecipeStore, bus EventBus, logger logging.Logger) *Repository {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Repository{
		store:  store,
		bus:    bus,
		logger: logging.Component(logger, "recipelist"),
	}
}

// GetSavedRecipes returns every stored recipe and posts a READ event
// carrying the same list.
func (r *Repository) GetSavedRecipes(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := r.store.ListRecipes(ctx)
	if err != nil {
		r.logger.Error("failed to list saved recipes", zap.Error(err))
		return nil, fmt.Errorf("list saved recipes: %w", err)
	}
	if recipes == nil {
		recipes = []models.Recipe{}
	}

	// The event must not share a backing array with the caller's slice.
	snapshot := append([]models.Recipe(nil), recipes...)
	if err := r.post(ctx, models.RecipeListEventRead, snapshot...); err != nil {
		return recipes, err
	}

	r.logger.Debug("listed saved recipes", zap.Int("count", len(recipes)))
	return recipes, nil
}

// UpdateRecipe overwrites the stored fields of an existing recipe and posts
// an UPDATE event with the new values. Unknown ids fail with
// storage.ErrRecipeNotFound. The store only touches an existing row, so a
// concurrently removed recipe is never recreated.
func (r *Repository) UpdateRecipe(ctx context.Context, recipe models.Recipe) error {
	if err := validateID(recipe.RecipeID); err != nil {
		return err
	}

	if err := r.store.UpdateRecipe(ctx, &recipe); err != nil {
		if errors.Is(err, storage.ErrRecipeNotFound) {
			r.logger.Info("update of unknown recipe", zap.String("recipe_id", recipe.RecipeID))
			return err
		}
		r.logger.Error("failed to update recipe",
			zap.String("recipe_id", recipe.RecipeID),
			zap.Error(err))
		return fmt.Errorf("update recipe: %w", err)
	}

	if err := r.post(ctx, models.RecipeListEventUpdate, recipe); err != nil {
		return err
	}

	r.logger.Info("recipe updated",
		zap.String("recipe_id", recipe.RecipeID),
		zap.Bool("favorite", recipe.Favorite))
	return nil
}

// RemoveRecipe deletes the recipe and posts a DELETE event carrying exactly
// the given record.
func (r *Repository) RemoveRecipe(ctx context.Context, recipe models.Recipe) error {
	if err := validateID(recipe.RecipeID); err != nil {
		return err
	}

	if err := r.store.DeleteRecipe(ctx, recipe.RecipeID); err != nil {
		if errors.Is(err, storage.ErrRecipeNotFound) {
			r.logger.Info("remove of unknown recipe", zap.String("recipe_id", recipe.RecipeID))
			return err
		}
		r.logger.Error("failed to remove recipe",
			zap.String("recipe_id", recipe.RecipeID),
			zap.Error(err))
		return fmt.Errorf("remove recipe: %w", err)
	}

	if err := r.post(ctx, models.RecipeListEventDelete, recipe); err != nil {
		return err
	}

	r.logger.Info("recipe removed", zap.String("recipe_id", recipe.RecipeID))
	return nil
}

// RemoveRecipeByID loads the stored recipe and removes it, so the DELETE
// event carries the full stored record. The removed recipe is returned.
func (r *Repository) RemoveRecipeByID(ctx context.Context, recipeID string) (*models.Recipe, error) {
	if err := validateID(recipeID); err != nil {
		return nil, err
	}

	recipe, err := r.store.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, storage.ErrRecipeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}

	if err := r.RemoveRecipe(ctx, *recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// post publishes one event. The store has already changed when this fails,
// so the error is logged and returned wrapped for the caller to decide.
func (r *Repository) post(ctx context.Context, kind models.RecipeListEventType, recipes ...models.Recipe) error {
	event := models.RecipeListEvent{Type: kind, Recipes: recipes}
	if err := r.bus.Post(ctx, event); err != nil {
		r.logger.Error("failed to post recipe list event",
			zap.String("type", string(kind)),
			zap.Int("count", len(recipes)),
			zap.Error(err))
		return fmt.Errorf("post %s event: %w", kind, err)
	}
	return nil
}

func validateID(recipeID string) error {
	if strings.TrimSpace(recipeID) == "" {
		return NewValidationError("recipe_id is required")
	}
	return nil
}
