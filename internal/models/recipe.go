package models

// Recipe represents a saved recipe row from the database.
type Recipe struct {
	RecipeID  string `json:"recipe_id" yaml:"recipe_id" example:"35382"`
	Title     string `json:"title" yaml:"title" example:"Jalapeno Popper Grilled Cheese Sandwich"`
	ImageURL  string `json:"image_url,omitempty" yaml:"image_url,omitempty" example:"https://example.com/img/35382.jpg"`
	SourceURL string `json:"source_url,omitempty" yaml:"source_url,omitempty" example:"https://example.com/recipes/35382"`
	Favorite  bool   `json:"favorite" yaml:"favorite" example:"false"`
}

// SaveRecipeRequest represents the request to save a newly discovered recipe.
type SaveRecipeRequest struct {
	RecipeID  string `json:"recipe_id" binding:"required" example:"35382"`
	Title     string `json:"title" example:"Jalapeno Popper Grilled Cheese Sandwich"`
	ImageURL  string `json:"image_url,omitempty" example:"https://example.com/img/35382.jpg"`
	SourceURL string `json:"source_url,omitempty" example:"https://example.com/recipes/35382"`
	Favorite  bool   `json:"favorite" example:"false"`
} // @name SaveRecipeRequest

// UpdateRecipeRequest carries the new field values of an existing recipe.
// The recipe id comes from the path.
type UpdateRecipeRequest struct {
	Title     string `json:"title" example:"Jalapeno Popper Grilled Cheese Sandwich"`
	ImageURL  string `json:"image_url,omitempty" example:"https://example.com/img/35382.jpg"`
	SourceURL string `json:"source_url,omitempty" example:"https://example.com/recipes/35382"`
	Favorite  bool   `json:"favorite" example:"true"`
} // @name UpdateRecipeRequest

// ToRecipe builds the recipe the request describes.
func (r SaveRecipeRequest) ToRecipe() Recipe {
	return Recipe{
		RecipeID:  r.RecipeID,
		Title:     r.Title,
		ImageURL:  r.ImageURL,
		SourceURL: r.SourceURL,
		Favorite:  r.Favorite,
	}
}

// ToRecipe applies the request to the recipe with the given id.
func (r UpdateRecipeRequest) ToRecipe(recipeID string) Recipe {
	return Recipe{
		RecipeID:  recipeID,
		Title:     r.Title,
		ImageURL:  r.ImageURL,
		SourceURL: r.SourceURL,
		Favorite:  r.Favorite,
	}
}

// RecipeListResponse represents the response for listing saved recipes.
type RecipeListResponse struct {
	Recipes []Recipe `json:"recipes"`
	Count   int      `json:"count" example:"5"`
} // @name RecipeListResponse
