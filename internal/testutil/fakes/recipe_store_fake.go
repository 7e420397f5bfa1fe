package fakes

import (
	"context"
	"sort"
	"sync"

	"github.com/dhima/recipe-list-platform/internal/models"
	"github.com/dhima/recipe-list-platform/internal/storage"
)

// FakeRecipeStore is an in-memory implementation of the recipe store.
// Setting Err makes every call fail with it.
type FakeRecipeStore struct {
	mu      sync.Mutex
	recipes map[string]models.Recipe
	Err     error
}

func NewFakeRecipeStore(seed ...models.Recipe) *FakeRecipeStore {
	f := &FakeRecipeStore{recipes: make(map[string]models.Recipe)}
	for _, r := range seed {
		f.recipes[r.RecipeID] = r
	}
	return f
}

func (f *FakeRecipeStore) SaveRecipe(_ context.Context, recipe *models.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.recipes[recipe.RecipeID] = *recipe
	return nil
}

func (f *FakeRecipeStore) GetRecipe(_ context.Context, recipeID string) (*models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	r, ok := f.recipes[recipeID]
	if !ok {
		return nil, storage.ErrRecipeNotFound
	}
	return &r, nil
}

func (f *FakeRecipeStore) ListRecipes(_ context.Context) ([]models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]models.Recipe, 0, len(f.recipes))
	for _, r := range f.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecipeID < out[j].RecipeID })
	return out, nil
}

func (f *FakeRecipeStore) UpdateRecipe(_ context.Context, recipe *models.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if _, ok := f.recipes[recipe.RecipeID]; !ok {
		return storage.ErrRecipeNotFound
	}
	f.recipes[recipe.RecipeID] = *recipe
	return nil
}

func (f *FakeRecipeStore) RecipeExists(_ context.Context, recipeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return false, f.Err
	}
	_, ok := f.recipes[recipeID]
	return ok, nil
}

func (f *FakeRecipeStore) DeleteRecipe(_ context.Context, recipeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	if _, ok := f.recipes[recipeID]; !ok {
		return storage.ErrRecipeNotFound
	}
	delete(f.recipes, recipeID)
	return nil
}

func (f *FakeRecipeStore) CountRecipes(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	return int64(len(f.recipes)), nil
}

// Ping reports Err, so health checks can be driven from tests.
func (f *FakeRecipeStore) Ping(_ context.Context) error {
	return f.Err
}
