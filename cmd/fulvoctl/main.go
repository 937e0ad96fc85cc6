package main

import (
	"context"
	"fmt"
	"os"

	"fulvo/backend/internal/app"
	"fulvo/backend/internal/config"
	"fulvo/backend/internal/database"
	"fulvo/backend/internal/logging"
	"fulvo/backend/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// env is what every command needs; it is built lazily so --help works
// without a database.
type env struct {
	configDir string
	log       zerolog.Logger
}

func (e *env) cfg() (*config.Config, error) {
	cfg, err := config.Load(e.configDir)
	if err != nil {
		return nil, err
	}
	e.log = logging.New(cfg.LogLevel, true)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (e *env) app(ctx context.Context) (*app.App, error) {
	cfg, err := e.cfg()
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg.DatabaseURL, e.log)
	if err != nil {
		return nil, err
	}
	deps, err := app.DepsFromConfig(ctx, cfg, db, metrics.NewMock(), e.log)
	if err != nil {
		return nil, err
	}
	return app.New(deps), nil
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "fulvoctl",
		Short:         "Administrative tasks for the Fulvo backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&e.configDir, "config-dir", ".", "Directory holding the .env file")

	root.AddCommand(newMigrateCmd(e), newSeasonCmd(e), newSubscriptionCmd(e))
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "fulvoctl: %s\n", err)
		os.Exit(1)
	}
}
