package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/realreach/internal/model"
	"github.com/nao1215/realreach/internal/report"
	"github.com/nao1215/realreach/internal/source"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the followers of the logged in account",
		Long: `Analyze fetches the followers of the logged in account, scores each one
and stores the result as a new session.

Followers come from the simulated platform unless --source names a JSON or
YAML follower file.

Examples:
  # Analyze 30 simulated followers
  realreach analyze

  # Reproducible run with 100 followers
  realreach analyze --count 100 --seed 42

  # Analyze an exported follower list
  realreach analyze --source followers.json

  # Print the session as Markdown
  realreach analyze --markdown > report.md`,
		Args: cobra.NoArgs,
		RunE: runAnalyzeCmd,
	}

	cmd.Flags().IntP("count", "n", 0,
		"Number of simulated followers (default: sampleSize from the config file, else 30)")
	cmd.Flags().Uint64("seed", 0, "Seed for reproducible simulated followers")
	cmd.Flags().StringP("source", "s", "", "Read followers from a JSON or YAML file")
	cmd.Flags().Int("concurrency", 0, "Followers scored in parallel (default: from config, else 8)")
	cmd.Flags().BoolP("quiet", "q", false, "Do not print progress")
	cmd.Flags().BoolP("json", "j", false, "Output the session as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output the session as Markdown (mutually exclusive with --json)")

	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) (err error) {
	jsonOut, markdownOut, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	user, err := a.provider(0).Current(cmd.Context())
	if err != nil {
		return withLoginHint(err)
	}
	cfg := a.cfg.ForPlatform(user.Platform.String())

	flags := cmd.Flags()
	if flags.Changed("count") {
		if cfg.SampleSize, err = flags.GetInt("count"); err != nil {
			return err
		}
	}
	if flags.Changed("seed") {
		if cfg.Seed, err = flags.GetUint64("seed"); err != nil {
			return err
		}
		cfg.Seeded = true
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	src, err := buildSource(cmd, cfg.SampleSize, cfg.Seed, cfg.Seeded)
	if err != nil {
		return err
	}

	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return err
	}
	var progress func(done, total int)
	if !quiet {
		progress = newProgressPrinter(cmd.ErrOrStderr())
	}

	session, err := a.service(src, cfg.Concurrency).StartAnalysis(cmd.Context(), progress)
	if err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved session %s\n", session.ID)
	}

	return writeSession(cmd.OutOrStdout(), session, jsonOut, markdownOut)
}

// buildSource returns the file source when --source is set and the
// simulated platform otherwise.
func buildSource(cmd *cobra.Command, count int, seed uint64, seeded bool) (source.Source, error) {
	path, err := cmd.Flags().GetString("source")
	if err != nil {
		return nil, err
	}
	if path != "" {
		var opts []source.FileOption
		if cmd.Flags().Changed("count") {
			opts = append(opts, source.WithLimit(count))
		}
		return source.NewFileSource(path, opts...), nil
	}

	opts := []source.MockOption{source.WithCount(count)}
	if seeded {
		opts = append(opts, source.WithSeed(seed))
	}
	return source.NewMockSource(opts...), nil
}

// newProgressPrinter returns a progress callback that redraws one line.
// The batch processor serializes calls.
func newProgressPrinter(w io.Writer) func(done, total int) {
	return func(done, total int) {
		fmt.Fprintf(w, "\rScoring followers... %d/%d", done, total)
		if done == total {
			fmt.Fprintln(w)
		}
	}
}

// writeSession renders a whole session in the selected format.
func writeSession(w io.Writer, session *model.AnalysisSession, jsonOut, markdownOut bool) error {
	var writer report.Writer
	switch {
	case jsonOut:
		writer = report.NewJSONWriter(w, report.WithPrettyPrint())
	case markdownOut:
		writer = report.NewMarkdownWriter(w)
	default:
		writer = report.NewSimpleWriter(w)
	}
	_, err := writer.Write(session)
	return err
}
