package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/realreach/internal/analysis"
	"github.com/nao1215/realreach/internal/auth"
	"github.com/nao1215/realreach/internal/config"
	"github.com/nao1215/realreach/internal/database"
	"github.com/nao1215/realreach/internal/log"
	"github.com/nao1215/realreach/internal/source"
)

// app holds what every command needs: configuration, logger and the
// opened session store.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  database.SessionUserStore
}

// newApp builds the configuration from flags and the config file, sets up
// logging and opens the session store. Callers must Close the app.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)

	store, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("session store opened", "redis", cfg.RedisURL != "", "dataDir", cfg.DataDir)

	return &app{cfg: cfg, logger: logger, store: store}, nil
}

// Close releases the session store.
func (a *app) Close() error {
	return a.store.Close()
}

// provider returns the login provider backed by the app's store.
func (a *app) provider(delay time.Duration) *auth.MockProvider {
	return auth.NewMockProvider(a.store,
		auth.WithDelay(delay),
		auth.WithLogger(a.logger),
	)
}

// service returns an analysis service over the app's store. src may be nil
// for commands that do not start analyses.
func (a *app) service(src source.Source, concurrency int) *analysis.Service {
	if src == nil {
		src = source.NewMockSource()
	}
	return &analysis.Service{
		Store:       a.store,
		Auth:        a.provider(a.cfg.LoginDelay),
		Source:      src,
		Logger:      a.logger,
		Concurrency: concurrency,
	}
}

// openStore opens Redis when a URL is configured and SQLite otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.SessionUserStore, error) {
	if cfg.RedisURL != "" {
		store, err := database.OpenRedis(ctx, cfg.RedisURL, database.WithRedisLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to open redis store: %w", err)
		}
		return store, nil
	}

	opts := database.DefaultOptions()
	opts.Logger = logger
	store, err := database.Open(cfg.DataDir, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// buildConfig creates a Config from defaults, the config file and the
// global flags, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getBoolFlag(cmd, "verbose")
	cfg.ConfigFilePath = getStringFlag(cmd, "config")

	// An explicitly given config file must exist; the default locations
	// are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(file)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if v := getStringFlag(cmd, "redis"); v != "" {
		cfg.RedisURL = v
	}
	if v := getStringFlag(cmd, "data-dir"); v != "" {
		cfg.DataDir = v
	}

	return cfg, nil
}

// getBoolFlag retrieves a flag from the command or the root's persistent flags.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// getStringFlag retrieves a flag from the command or the root's persistent flags.
func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return v
}

// outputFormat reads the --json and --markdown flags of cmd.
func outputFormat(cmd *cobra.Command) (jsonOut, markdownOut bool, err error) {
	if jsonOut, err = cmd.Flags().GetBool("json"); err != nil {
		return false, false, err
	}
	if markdownOut, err = cmd.Flags().GetBool("markdown"); err != nil {
		return false, false, err
	}
	if jsonOut && markdownOut {
		return false, false, config.ErrConflictingReportFormats
	}
	return jsonOut, markdownOut, nil
}

// createOutputFile creates path and its parent directories. Reports list
// account names, so the file is readable by the owner only.
func createOutputFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

// closeApp closes a and joins the error into err.
func closeApp(a *app, err *error) {
	if cerr := a.Close(); cerr != nil {
		*err = errors.Join(*err, cerr)
	}
}

// withLoginHint adds a hint to ErrNotLoggedIn.
func withLoginHint(err error) error {
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return fmt.Errorf("%w (run `realreach login <platform>` first)", err)
	}
	return err
}
