package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/realreach/internal/report"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export the suspicious followers of a session",
		Long: `Export writes the summary of a session and its suspicious followers
(score below 50) to a file.

The JSON document has the fields analysisDate, platform, user, summary and
suspiciousFollowers. With --markdown the full session report is written
instead.

Examples:
  # Write realreach-analysis-YYYY-MM-DD.json in the current directory
  realreach export session_1718000000000

  # Write to a specific file
  realreach export session_1718000000000 -o reports/june.json

  # Print to stdout
  realreach export session_1718000000000 -o -`,
		Args: cobra.ExactArgs(1),
		RunE: runExportCmd,
	}

	cmd.Flags().StringP("output", "o", "",
		"Output file, - for stdout (default: realreach-analysis-YYYY-MM-DD.json)")
	cmd.Flags().BoolP("markdown", "m", false, "Write a Markdown report instead of JSON")

	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) (err error) {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	markdownOut, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	svc := a.service(nil, 0)
	session, err := svc.GetSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if output == "" {
		output = report.ExportFileName(time.Now())
		if markdownOut {
			output = strings.TrimSuffix(output, filepath.Ext(output)) + ".md"
		}
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "-" {
		f, err := createOutputFile(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if markdownOut {
		_, err = report.NewMarkdownWriter(w).Write(session)
	} else {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(report.NewExport(session))
	}
	if err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	if output != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported session %s to %s\n", session.ID, output)
	}
	return nil
}
