package models

// RecipeListEventType tags what a RecipeListEvent describes.
type RecipeListEventType string

const (
	RecipeListEventRead   RecipeListEventType = "read"
	RecipeListEventUpdate RecipeListEventType = "update"
	RecipeListEventDelete RecipeListEventType = "delete"
)

// RecipeListEvent is posted by the recipe list repository after every
// successful operation. Recipes holds all stored rows for read, the updated
// row for update and the removed row for delete.
type RecipeListEvent struct {
	Type    RecipeListEventType `json:"type"`
	Recipes []Recipe            `json:"recipes"`
}

// EventKind returns the event type as a plain string for metrics and keys.
func (e RecipeListEvent) EventKind() string { return string(e.Type) }

// RecipeMainEventType tags what a RecipeMainEvent describes.
type RecipeMainEventType string

const (
	RecipeMainEventSave RecipeMainEventType = "save"
)

// RecipeMainEvent is posted when a recipe is saved from the discovery screen.
type RecipeMainEvent struct {
	Type   RecipeMainEventType `json:"type"`
	Recipe Recipe              `json:"recipe"`
}

// EventKind returns the event type as a plain string for metrics and keys.
func (e RecipeMainEvent) EventKind() string { return string(e.Type) }
