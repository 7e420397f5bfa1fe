// Package cli implements the recipectl command line tool.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/dhima/recipe-list-platform/internal/app"
	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/dhima/recipe-list-platform/pkg/config"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format   string // "text" | "json" | "yaml"
	EnvFile  string
	Driver   string
	Database string
	LogLevel string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for recipectl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "recipectl",
		Short:         "Manage saved recipes",
		Long:          "recipectl lists, saves, updates and removes saved recipes. Every change is published as a recipe event.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	flags.StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringVar(&opts.Driver, "driver", "", "database driver, overrides DATABASE_DRIVER")
	flags.StringVar(&opts.Database, "db", "", "database DSN, overrides DATABASE_URL")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "log level")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))

	return cmd
}

// openApp builds the same wiring the API server uses, with flag overrides
// applied, and starts event forwarding.
func (o *RootOptions) openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(o.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.Driver != "" {
		cfg.DatabaseDriver = o.Driver
	}
	if o.Database != "" {
		cfg.DatabaseURL = o.Database
	}

	logger, err := logging.New(logging.Options{
		Environment: cfg.Environment,
		Level:       o.LogLevel,
		Encoding:    cfg.LogEncoding,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a, err := app.New(ctx, cfg, logging.Component(logger, "recipectl"))
	if err != nil {
		return nil, err
	}
	a.Start(ctx)
	return a, nil
}
