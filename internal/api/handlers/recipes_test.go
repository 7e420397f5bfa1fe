package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dhima/recipe-list-platform/internal/api/response"
	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/dhima/recipe-list-platform/internal/models"
	"github.com/dhima/recipe-list-platform/internal/recipelist"
	"github.com/dhima/recipe-list-platform/internal/recipemain"
	"github.com/dhima/recipe-list-platform/internal/testutil/fakes"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recipeFixture struct {
	router  *gin.Engine
	store   *fakes.FakeRecipeStore
	listBus *fakes.FakeBus[models.RecipeListEvent]
	mainBus *fakes.FakeBus[models.RecipeMainEvent]
}

func newRecipeFixture(seed ...models.Recipe) *recipeFixture {
	gin.SetMode(gin.TestMode)
	f := &recipeFixture{
		store:   fakes.NewFakeRecipeStore(seed...),
		listBus: &fakes.FakeBus[models.RecipeListEvent]{},
		mainBus: &fakes.FakeBus[models.RecipeMainEvent]{},
	}
	logger := logging.NewNoOpLogger()
	h := NewRecipeHandler(logger,
		recipelist.NewRepository(f.store, f.listBus, logger),
		recipemain.NewRepository(f.store, f.mainBus, logger),
	)

	f.router = gin.New()
	f.router.GET("/api/v1/recipes", h.ListRecipes)
	f.router.POST("/api/v1/recipes", h.SaveRecipe)
	f.router.PUT("/api/v1/recipes/:id", h.UpdateRecipe)
	f.router.DELETE("/api/v1/recipes/:id", h.RemoveRecipe)
	return f
}

func (f *recipeFixture) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestListRecipes_WhenRecipesStored_ThenReturnsAllAndPostsRead(t *testing.T) {
	// Arrange
	f := newRecipeFixture(models.Recipe{RecipeID: "id 1", Title: "b"}, models.Recipe{RecipeID: "id 0", Title: "a"})

	// Act
	w := f.do(http.MethodGet, "/api/v1/recipes", "")

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data models.RecipeListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Count)
	assert.Equal(t, "id 0", body.Data.Recipes[0].RecipeID)
	require.Len(t, f.listBus.Events, 1)
	assert.Equal(t, models.RecipeListEventRead, f.listBus.Events[0].Type)
}

func TestListRecipes_WhenStoreFails_Then500(t *testing.T) {
	f := newRecipeFixture()
	f.store.Err = errors.New("disk full")

	w := f.do(http.MethodGet, "/api/v1/recipes", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, f.listBus.Events)
}

func TestSaveRecipe_WhenValid_Then201AndSaveEvent(t *testing.T) {
	f := newRecipeFixture()

	w := f.do(http.MethodPost, "/api/v1/recipes", `{"recipe_id":"35382","title":"Grilled Cheese","favorite":true}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"recipe_id":"35382"`)
	require.Len(t, f.mainBus.Events, 1)
	assert.Equal(t, models.RecipeMainEventSave, f.mainBus.Events[0].Type)
	exists, _ := f.store.RecipeExists(context.Background(), "35382")
	assert.True(t, exists)
}

func TestSaveRecipe_WhenBodyInvalid_Then400(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "missing id", body: `{"title":"x"}`},
		{name: "blank id", body: `{"recipe_id":"   "}`},
		{name: "wrong type", body: `{"recipe_id":"id1","favorite":"yes"}`},
		{name: "unknown field", body: `{"recipe_id":"id1","rating":5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRecipeFixture()

			w := f.do(http.MethodPost, "/api/v1/recipes", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, f.mainBus.Events)
		})
	}
}

func TestSaveRecipe_WhenMissingID_ThenValidationDetailsListed(t *testing.T) {
	f := newRecipeFixture()

	w := f.do(http.MethodPost, "/api/v1/recipes", `{"title":"x"}`)

	var body struct {
		Error   string                     `json:"error"`
		Details []response.ValidationError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	require.NotEmpty(t, body.Details)
	assert.Contains(t, body.Details[0].Message, "recipe_id")
}

func TestUpdateRecipe_WhenExisting_Then200AndUpdateEvent(t *testing.T) {
	// Arrange
	f := newRecipeFixture(models.Recipe{RecipeID: "id1", Title: "title before update"})

	// Act
	w := f.do(http.MethodPut, "/api/v1/recipes/id1", `{"title":"title after update","favorite":true}`)

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	stored, err := f.store.GetRecipe(context.Background(), "id1")
	require.NoError(t, err)
	assert.Equal(t, "title after update", stored.Title)
	require.Len(t, f.listBus.Events, 1)
	assert.Equal(t, models.RecipeListEventUpdate, f.listBus.Events[0].Type)
}

func TestUpdateRecipe_WhenMissing_Then404(t *testing.T) {
	f := newRecipeFixture()

	w := f.do(http.MethodPut, "/api/v1/recipes/ghost", `{"title":"x"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.listBus.Events)
}

func TestRemoveRecipe_WhenExisting_Then204AndDeleteEvent(t *testing.T) {
	stored := models.Recipe{RecipeID: "id1", Title: "soup"}
	f := newRecipeFixture(stored)

	w := f.do(http.MethodDelete, "/api/v1/recipes/id1", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	require.Len(t, f.listBus.Events, 1)
	assert.Equal(t, models.RecipeListEventDelete, f.listBus.Events[0].Type)
	assert.Equal(t, []models.Recipe{stored}, f.listBus.Events[0].Recipes)
}

func TestRemoveRecipe_WhenMissing_Then404(t *testing.T) {
	f := newRecipeFixture()

	w := f.do(http.MethodDelete, "/api/v1/recipes/ghost", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "recipe not found")
}

func TestSaveRecipe_WhenIDPadded_ThenRespondsWithStoredID(t *testing.T) {
	f := newRecipeFixture()

	w := f.do(http.MethodPost, "/api/v1/recipes", `{"recipe_id":"  id1 ","title":"soup"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		Data models.Recipe `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "id1", body.Data.RecipeID)
	_, err := f.store.GetRecipe(context.Background(), "id1")
	assert.NoError(t, err)
}

func TestSaveRecipe_WhenFieldLengthsAtColumnLimits_ThenBoundaryEnforced(t *testing.T) {
	body := func(id, imageURL, sourceURL, title string) string {
		return fmt.Sprintf(`{"recipe_id":%q,"image_url":%q,"source_url":%q,"title":%q}`, id, imageURL, sourceURL, title)
	}
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "id at 191", body: body(strings.Repeat("i", 191), "", "", ""), want: http.StatusCreated},
		{name: "id at 192", body: body(strings.Repeat("i", 192), "", "", ""), want: http.StatusBadRequest},
		{name: "image url at 1024", body: body("id1", strings.Repeat("u", 1024), "", ""), want: http.StatusCreated},
		{name: "image url at 1025", body: body("id1", strings.Repeat("u", 1025), "", ""), want: http.StatusBadRequest},
		{name: "source url at 1025", body: body("id1", "", strings.Repeat("u", 1025), ""), want: http.StatusBadRequest},
		{name: "title at 513", body: body("id1", "", "", strings.Repeat("t", 513)), want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRecipeFixture()

			w := f.do(http.MethodPost, "/api/v1/recipes", tt.body)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestUpdateRecipe_WhenSourceURLTooLong_Then400AndStoreUnchanged(t *testing.T) {
	f := newRecipeFixture(models.Recipe{RecipeID: "id1", SourceURL: "https://src"})

	w := f.do(http.MethodPut, "/api/v1/recipes/id1", fmt.Sprintf(`{"source_url":%q}`, strings.Repeat("u", 1025)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	stored, err := f.store.GetRecipe(context.Background(), "id1")
	require.NoError(t, err)
	assert.Equal(t, "https://src", stored.SourceURL)
	assert.Empty(t, f.listBus.Events)
}
