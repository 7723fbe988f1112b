package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for RealReach.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "realreach",
		Short: "Fake follower detection for social media accounts",
		Long: `RealReach analyzes the followers of a social media account and scores how
likely each one is a real, active person.

Every follower starts at 100 and loses points for a missing avatar, an empty
bio, spam keywords, a low follower/following ratio and inactivity. Analyses
are stored as sessions you can filter, annotate and export.

Sessions are stored in SQLite under the XDG data directory unless --redis
points at a Redis server.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .realreach in current or home directory)")
	cmd.PersistentFlags().String("redis", "",
		"Store sessions in Redis at this URL (e.g. redis://localhost:6379/0)")
	cmd.PersistentFlags().String("data-dir", "",
		"Directory of the SQLite database (default: XDG data directory)")

	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewLogoutCmd())
	cmd.AddCommand(NewWhoamiCmd())
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewSessionsCmd())
	cmd.AddCommand(NewResultsCmd())
	cmd.AddCommand(NewMarkCmd())
	cmd.AddCommand(NewHideCmd())
	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context so running analyses and the server stop cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
