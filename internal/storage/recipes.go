package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dhima/recipe-list-platform/internal/models"
)

// ErrRecipeNotFound is returned when no row matches a recipe id.
var ErrRecipeNotFound = errors.New("recipe not found")

const recipeColumns = `recipe_id, title, image_url, source_url, favorite`

// SaveRecipe inserts the recipe, or overwrites the stored fields when a row
// with the same id already exists.
func (c *SQLClient) SaveRecipe(ctx context.Context, recipe *models.Recipe) error {
	query := `INSERT INTO recipes (` + recipeColumns + `) VALUES (?, ?, ?, ?, ?) ` + c.dialect.upsert

	if _, err := c.db.ExecContext(ctx, query,
		recipe.RecipeID,
		recipe.Title,
		recipe.ImageURL,
		recipe.SourceURL,
		recipe.Favorite,
	); err != nil {
		return fmt.Errorf("save recipe: %w", err)
	}

	return nil
}

// GetRecipe fetches a single recipe by id.
func (c *SQLClient) GetRecipe(ctx context.Context, recipeID string) (*models.Recipe, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE recipe_id = ?`,
		recipeID,
	)

	var r models.Recipe
	if err := row.Scan(&r.RecipeID, &r.Title, &r.ImageURL, &r.SourceURL, &r.Favorite); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("scan recipe: %w", err)
	}

	return &r, nil
}

// ListRecipes returns every stored recipe ordered by id. Both schemas compare
// recipe_id bytewise, so the order is the same on SQLite and MySQL.
func (c *SQLClient) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT `+recipeColumns+` FROM recipes ORDER BY recipe_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]models.Recipe, 0)
	for rows.Next() {
		var r models.Recipe
		if err := rows.Scan(&r.RecipeID, &r.Title, &r.ImageURL, &r.SourceURL, &r.Favorite); err != nil {
			return nil, fmt.Errorf("scan recipe row: %w", err)
		}
		recipes = append(recipes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}

	return recipes, nil
}

// UpdateRecipe overwrites the fields of an existing recipe. Unlike SaveRecipe
// it never inserts; an unknown id fails with ErrRecipeNotFound.
func (c *SQLClient) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE recipes SET title = ?, image_url = ?, source_url = ?, favorite = ?, updated_at = CURRENT_TIMESTAMP
		WHERE recipe_id = ?`,
		recipe.Title,
		recipe.ImageURL,
		recipe.SourceURL,
		recipe.Favorite,
		recipe.RecipeID,
	)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}

	// MySQL connections are opened with clientFoundRows, so an update that
	// changes nothing still reports the matched row.
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// RecipeExists reports whether a row with the given id is stored.
func (c *SQLClient) RecipeExists(ctx context.Context, recipeID string) (bool, error) {
	var one int
	err := c.db.QueryRowContext(ctx, `SELECT 1 FROM recipes WHERE recipe_id = ? LIMIT 1`, recipeID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check recipe: %w", err)
	}
	return true, nil
}

// DeleteRecipe removes the recipe with the given id.
func (c *SQLClient) DeleteRecipe(ctx context.Context, recipeID string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM recipes WHERE recipe_id = ?`, recipeID)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if rows == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// CountRecipes returns the number of stored recipes.
func (c *SQLClient) CountRecipes(ctx context.Context) (int64, error) {
	var total int64
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count recipes: %w", err)
	}
	return total, nil
}
