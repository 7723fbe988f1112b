package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/nao1215/realreach/internal/analysis"
	"github.com/nao1215/realreach/internal/database"
	"github.com/nao1215/realreach/internal/log"
	"github.com/nao1215/realreach/internal/server"
	"github.com/nao1215/realreach/internal/source"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Serve starts a local JSON API exposing login, analyses, filtered results,
marking, hiding and export, plus Prometheus metrics on /metrics.

The server shares the session store with the CLI unless --memory is given.
It stops cleanly on SIGINT or SIGTERM.

Examples:
  realreach serve
  realreach serve --addr 127.0.0.1:9000 --memory
  curl -X POST localhost:8080/api/login -d '{"platform":"twitter"}'`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", "", "Listen address (default: serverAddr from the config file, else 127.0.0.1:8080)")
	cmd.Flags().Bool("memory", false, "Keep sessions in memory instead of the configured store")
	cmd.Flags().Bool("log-json", false, "Write logs as JSON")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) (err error) {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	flags := cmd.Flags()
	addr := a.cfg.ServerAddr
	if v, _ := flags.GetString("addr"); v != "" {
		addr = v
	}
	if logJSON, _ := flags.GetBool("log-json"); logJSON {
		a.logger = log.NewSecureJSONLogger(cmd.ErrOrStderr(), a.cfg.Verbose)
	}
	if memory, _ := flags.GetBool("memory"); memory {
		persistent := a.store
		a.store = database.NewMemoryStore()
		defer func() { _ = persistent.Close() }()
	}

	// The platform is only known per request, so the defaults section of
	// the config file applies.
	cfg := a.cfg.ForPlatform("")
	opts := []source.MockOption{source.WithCount(cfg.SampleSize)}
	if cfg.Seeded {
		opts = append(opts, source.WithSeed(cfg.Seed))
	}
	svc := &analysis.Service{
		Store:       a.store,
		Auth:        a.provider(cfg.LoginDelay),
		Source:      source.NewMockSource(opts...),
		Logger:      a.logger,
		Concurrency: cfg.Concurrency,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Serving RealReach API on http://%s\n", ln.Addr())

	srv := server.New(svc, server.WithLogger(a.logger))
	return srv.Serve(cmd.Context(), ln)
}
