package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dhima/recipe-list-platform/internal/api/response"
	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/dhima/recipe-list-platform/internal/models"
	"github.com/dhima/recipe-list-platform/internal/recipelist"
	"github.com/dhima/recipe-list-platform/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// RecipeListService is the saved-recipes surface the handler needs.
type RecipeListService interface {
	GetSavedRecipes(ctx context.Context) ([]models.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe models.Recipe) error
	RemoveRecipeByID(ctx context.Context, recipeID string) (*models.Recipe, error)
}

// RecipeSaver stores newly discovered recipes.
type RecipeSaver interface {
	SaveRecipe(ctx context.Context, recipe models.Recipe) (models.Recipe, error)
}

// RecipeHandler handles saved recipe requests.
type RecipeHandler struct {
	logger logging.Logger
	list   RecipeListService
	saver  RecipeSaver
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(logger logging.Logger, list RecipeListService, saver RecipeSaver) *RecipeHandler {
	return &RecipeHandler{
		logger: logger.With(zap.String("handler", "recipe")),
		list:   list,
		saver:  saver,
	}
}

// ListRecipes godoc
// @Summary List saved recipes
// @Description Returns every saved recipe ordered by id and posts a read event
// @Tags Recipes
// @Produce json
// @Success 200 {object} models.RecipeListResponse
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/recipes [get]
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.list.GetSavedRecipes(c.Request.Context())
	if h.handleServiceError(c, err, "list recipes") {
		return
	}

	response.OK(c, models.RecipeListResponse{Recipes: recipes, Count: len(recipes)})
}

// SaveRecipe godoc
// @Summary Save a recipe
// @Description Saves a discovered recipe. An existing recipe with the same id is overwritten.
// @Tags Recipes
// @Accept json
// @Produce json
// @Param recipe body models.SaveRecipeRequest true "Recipe to save"
// @Success 201 {object} models.Recipe
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/recipes [post]
func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	var req models.SaveRecipeRequest
	if !h.bindValidated(c, saveRecipeSchema, &req) {
		return
	}

	recipe, err := h.saver.SaveRecipe(c.Request.Context(), req.ToRecipe())
	if h.handleServiceError(c, err, "save recipe") {
		return
	}

	h.logger.Info("recipe saved",
		zap.String("recipe_id", recipe.RecipeID),
		zap.String("request_id", response.GetRequestID(c)),
	)
	response.Created(c, recipe, "recipe saved successfully")
}

// UpdateRecipe godoc
// @Summary Update a saved recipe
// @Description Overwrites the fields of an existing saved recipe and posts an update event
// @Tags Recipes
// @Accept json
// @Produce json
// @Param id path string true "Recipe ID"
// @Param recipe body models.UpdateRecipeRequest true "New field values"
// @Success 200 {object} models.Recipe
// @Failure 400 {object} response.ErrorResponse "Invalid request"
// @Failure 404 {object} response.ErrorResponse "Recipe not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/recipes/{id} [put]
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	recipeID := c.Param("id")

	var req models.UpdateRecipeRequest
	if !h.bindValidated(c, updateRecipeSchema, &req) {
		return
	}

	recipe := req.ToRecipe(recipeID)
	if h.handleServiceError(c, h.list.UpdateRecipe(c.Request.Context(), recipe), "update recipe") {
		return
	}

	response.OK(c, recipe)
}

// RemoveRecipe godoc
// @Summary Remove a saved recipe
// @Description Deletes a saved recipe and posts a delete event carrying the removed record
// @Tags Recipes
// @Produce json
// @Param id path string true "Recipe ID"
// @Success 204 "Recipe removed"
// @Failure 404 {object} response.ErrorResponse "Recipe not found"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/recipes/{id} [delete]
func (h *RecipeHandler) RemoveRecipe(c *gin.Context) {
	recipeID := c.Param("id")

	removed, err := h.list.RemoveRecipeByID(c.Request.Context(), recipeID)
	if h.handleServiceError(c, err, "remove recipe") {
		return
	}

	h.logger.Info("recipe removed",
		zap.String("recipe_id", removed.RecipeID),
		zap.String("request_id", response.GetRequestID(c)),
	)
	response.NoContent(c)
}

// bindValidated reads the body, checks it against schema and decodes it into
// dst. On failure the response is already written.
func (h *RecipeHandler) bindValidated(c *gin.Context, schema *gojsonschema.Schema, dst any) bool {
	body, err := c.GetRawData()
	if err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return false
	}

	violations, err := validateBody(schema, body)
	if err != nil {
		h.logger.Warn("malformed request body",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.BadRequest(c, "invalid request body", err.Error())
		return false
	}
	if len(violations) > 0 {
		h.logger.Warn("request body failed schema validation",
			zap.Int("violations", len(violations)),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.ValidationErrors(c, violations)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		response.BadRequest(c, "invalid request body", err.Error())
		return false
	}
	return true
}

func (h *RecipeHandler) handleServiceError(c *gin.Context, err error, operation string) bool {
	if err == nil {
		return false
	}

	var validationErr recipelist.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(c, "validation failed", validationErr.Error())
	case errors.Is(err, storage.ErrRecipeNotFound):
		response.NotFound(c, "recipe not found")
	default:
		h.logger.Error(operation+" failed",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.InternalServerError(c, "internal server error")
	}
	return true
}
