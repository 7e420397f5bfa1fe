package cli

import (
	"fmt"

	"github.com/dhima/recipe-list-platform/internal/models"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type recipeFlags struct {
	title     string
	imageURL  string
	sourceURL string
	favorite  bool
}

func (f *recipeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "recipe title")
	cmd.Flags().StringVar(&f.imageURL, "image-url", "", "image URL")
	cmd.Flags().StringVar(&f.sourceURL, "source-url", "", "source URL")
	cmd.Flags().BoolVar(&f.favorite, "favorite", false, "mark as favorite")
}

// apply copies the flags the user actually set onto r.
func (f *recipeFlags) apply(cmd *cobra.Command, r *models.Recipe) {
	if cmd.Flags().Changed("title") {
		r.Title = f.title
	}
	if cmd.Flags().Changed("image-url") {
		r.ImageURL = f.imageURL
	}
	if cmd.Flags().Changed("source-url") {
		r.SourceURL = f.sourceURL
	}
	if cmd.Flags().Changed("favorite") {
		r.Favorite = f.favorite
	}
}

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			recipes, err := a.RecipeList.GetSavedRecipes(cmd.Context())
			if err != nil {
				return err
			}
			return writeRecipes(cmd.OutOrStdout(), opts.Format, recipes)
		},
	}
}

// NewSaveCommand creates the save command. Without an id a UUID is used.
func NewSaveCommand(opts *RootOptions) *cobra.Command {
	var flags recipeFlags
	cmd := &cobra.Command{
		Use:   "save [id]",
		Short: "Save a recipe",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe := models.Recipe{RecipeID: uuid.New().String()}
			if len(args) == 1 {
				recipe.RecipeID = args[0]
			}
			flags.apply(cmd, &recipe)

			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			saved, err := a.RecipeMain.SaveRecipe(cmd.Context(), recipe)
			if err != nil {
				return err
			}
			return writeRecipes(cmd.OutOrStdout(), opts.Format, []models.Recipe{saved})
		},
	}
	flags.register(cmd)
	return cmd
}

// NewUpdateCommand creates the update command. Only flags given on the
// command line change; other fields keep their stored values.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	var flags recipeFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a saved recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			current, err := a.Store.GetRecipe(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("recipe %s: %w", args[0], err)
			}
			recipe := *current
			flags.apply(cmd, &recipe)

			if err := a.RecipeList.UpdateRecipe(cmd.Context(), recipe); err != nil {
				return err
			}
			return writeRecipes(cmd.OutOrStdout(), opts.Format, []models.Recipe{recipe})
		},
	}
	flags.register(cmd)
	return cmd
}

// NewRemoveCommand creates the remove command.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a saved recipe",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.RecipeList.RemoveRecipeByID(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("recipe %s: %w", args[0], err)
			}
			return writeRecipes(cmd.OutOrStdout(), opts.Format, []models.Recipe{*removed})
		},
	}
}
