package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dhima/recipe-list-platform/internal/models"
	"gopkg.in/yaml.v3"
)

// writeRecipes renders recipes in the requested format.
func writeRecipes(w io.Writer, format string, recipes []models.Recipe) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recipes)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recipes); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(recipes) == 0 {
		_, err := fmt.Fprintln(w, "No saved recipes")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tFAVORITE")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%t\n", r.RecipeID, r.Title, r.Favorite)
	}
	return tw.Flush()
}
