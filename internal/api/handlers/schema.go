package handlers

import (
	"github.com/dhima/recipe-list-platform/internal/api/response"
	"github.com/xeipuuv/gojsonschema"
)

// Length limits match the recipes columns of the MySQL schema.
const recipeFieldsSchema = `
		"title":      {"type": "string", "maxLength": 512},
		"image_url":  {"type": "string", "maxLength": 1024},
		"source_url": {"type": "string", "maxLength": 1024},
		"favorite":   {"type": "boolean"}`

var (
	saveRecipeSchema = mustSchema(`{
	"type": "object",
	"required": ["recipe_id"],
	"additionalProperties": false,
	"properties": {
		"recipe_id":  {"type": "string", "minLength": 1, "maxLength": 191, "pattern": "\\S"},` + recipeFieldsSchema + `
	}
}`)

	updateRecipeSchema = mustSchema(`{
	"type": "object",
	"additionalProperties": false,
	"properties": {` + recipeFieldsSchema + `
	}
}`)
)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("handlers: invalid request schema: " + err.Error())
	}
	return schema
}

// validateBody checks body against schema. A non-nil error means body is not
// JSON at all; otherwise the returned slice lists every violation.
func validateBody(schema *gojsonschema.Schema, body []byte) ([]response.ValidationError, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, err
	}
	if result.Valid() {
		return nil, nil
	}

	violations := make([]response.ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, response.ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return violations, nil
}
