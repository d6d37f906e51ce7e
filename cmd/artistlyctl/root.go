package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/artistly/internal/adapters/storage"
	"github.com/jsamuelsen/artistly/internal/app"
	"github.com/jsamuelsen/artistly/internal/platform/config"
	"github.com/jsamuelsen/artistly/internal/platform/logging"
)

// stateOpener builds the application state for a profile. Tests swap it for
// an in-memory backend.
type stateOpener func(ctx context.Context, profile string, logger *slog.Logger) (*app.State, error)

// cli carries what every subcommand needs once the root pre-run has finished.
type cli struct {
	open     stateOpener
	profile  string
	logLevel string
	jsonOut  bool

	logger *slog.Logger
	state  *app.State
}

func newRootCmd(open stateOpener) *cobra.Command {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:   "artistlyctl",
		Short: "Inspect artistly storage",
		Long: `artistlyctl reads and edits the artist roster, quote requests and theme
preference held in the configured storage backend.

Configuration is loaded exactly like the service: defaults, configs/base.yaml,
configs/{profile}.yaml, then APP_* environment variables.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.teardown()
		},
	}

	defaultProfile := os.Getenv("APP_ENVIRONMENT")
	if defaultProfile == "" {
		defaultProfile = "local"
	}

	root.PersistentFlags().StringVar(&c.profile, "profile", defaultProfile, "configuration profile to load")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "print JSON instead of a table")

	root.AddCommand(
		newArtistsCmd(c),
		newQuotesCmd(c),
		newThemeCmd(c),
	)

	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	c.logger = logging.NewWithWriter(&logging.Config{
		Level:   c.logLevel,
		Format:  "pretty",
		Service: "artistlyctl",
	}, cmd.ErrOrStderr())

	state, err := c.open(cmd.Context(), c.profile, c.logger)
	if err != nil {
		return err
	}

	c.state = state

	return nil
}

func (c *cli) teardown() error {
	if c.state == nil {
		return nil
	}

	if err := c.state.Close(); err != nil {
		return fmt.Errorf("closing state: %w", err)
	}

	return nil
}

// openState loads the profile's configuration and opens its backend.
func openState(ctx context.Context, profile string, logger *slog.Logger) (*app.State, error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	state, err := app.NewState(app.StateConfig{
		Backend:   backend,
		KeyPrefix: cfg.Storage.KeyPrefix,
	})
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	return state, nil
}
