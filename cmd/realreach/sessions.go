package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/realreach/internal/filter"
	"github.com/nao1215/realreach/internal/model"
	"github.com/nao1215/realreach/internal/report"
)

// NewSessionsCmd creates the sessions command.
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List the analysis sessions of the logged in account",
		Long: `Sessions lists past analyses of the logged in account, newest first, with
their follower counts and average score.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}

			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			sessions, err := a.service(nil, 0).ListSessions(cmd.Context())
			if err != nil {
				return withLoginHint(err)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sessionOverviews(sessions))
			}
			_, err = report.NewSimpleWriter(cmd.OutOrStdout()).WriteSessions(sessions)
			return err
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Output the list as JSON")
	return cmd
}

// sessionOverview is a session without its results.
type sessionOverview struct {
	ID          string         `json:"id"`
	Platform    model.Platform `json:"platform"`
	Date        string         `json:"date"`
	MarkedCount int            `json:"markedCount"`
	Summary     model.Summary  `json:"summary"`
}

func sessionOverviews(sessions []*model.AnalysisSession) []sessionOverview {
	out := make([]sessionOverview, len(sessions))
	for i, s := range sessions {
		out[i] = sessionOverview{
			ID:          s.ID,
			Platform:    s.Platform,
			Date:        s.Date.UTC().Format("2006-01-02T15:04:05Z"),
			MarkedCount: s.MarkedCount(),
			Summary:     s.Summary,
		}
	}
	return out
}

// NewResultsCmd creates the results command.
func NewResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results <session-id>",
		Short: "Show the scored followers of a session",
		Long: `Results prints the followers of a session, filtered and sorted.

Issue types: missing_avatar, suspicious_bio, spam_keywords, low_ratio, inactive.

Examples:
  # Likely fake followers, worst first
  realreach results session_1718000000000 --max 49

  # Followers with spam or ratio problems, by username
  realreach results session_1718000000000 --issue spam_keywords --issue low_ratio --sort username

  # Only followers you marked, as Markdown
  realreach results session_1718000000000 --marked marked --markdown`,
		Args: cobra.ExactArgs(1),
		RunE: runResultsCmd,
	}

	defaults := filter.DefaultCriteria()
	cmd.Flags().Int("min", defaults.ScoreRange[0], "Minimum score (inclusive)")
	cmd.Flags().Int("max", defaults.ScoreRange[1], "Maximum score (inclusive)")
	cmd.Flags().StringSlice("issue", nil, "Keep followers with any of these issue types (repeatable)")
	cmd.Flags().String("marked", string(defaults.MarkedStatus), "Filter on the marked flag: all, marked, unmarked")
	cmd.Flags().String("sort", string(defaults.SortBy), "Sort by: score, username, date")
	cmd.Flags().String("dir", string(defaults.SortDirection), "Sort direction: asc, desc")
	cmd.Flags().Bool("hide-hidden", false, "Drop followers you hid")
	cmd.Flags().BoolP("details", "d", false, "List the issues of each follower")
	cmd.Flags().BoolP("json", "j", false, "Output results as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output results as Markdown (mutually exclusive with --json)")

	return cmd
}

// criteriaFromFlags maps the filter flags onto filter.ParseCriteria so the
// CLI and the HTTP API share one parser.
func criteriaFromFlags(cmd *cobra.Command) (filter.Criteria, error) {
	values := filter.DefaultCriteria().Values()
	for flagName, param := range map[string]string{
		"min":         filter.ParamMin,
		"max":         filter.ParamMax,
		"marked":      filter.ParamMarked,
		"sort":        filter.ParamSort,
		"dir":         filter.ParamDirection,
		"hide-hidden": filter.ParamHideHidden,
	} {
		if f := cmd.Flags().Lookup(flagName); f != nil && f.Changed {
			values.Set(param, f.Value.String())
		}
	}

	issues, err := cmd.Flags().GetStringSlice("issue")
	if err != nil {
		return filter.Criteria{}, err
	}
	for _, issue := range issues {
		values.Add(filter.ParamIssue, issue)
	}

	return filter.ParseCriteria(values)
}

func runResultsCmd(cmd *cobra.Command, args []string) (err error) {
	jsonOut, markdownOut, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	details, err := cmd.Flags().GetBool("details")
	if err != nil {
		return err
	}
	criteria, err := criteriaFromFlags(cmd)
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
	results, err := filter.Apply(session.Results, criteria)
	if err != nil {
		return err
	}

	var writer report.Writer
	switch {
	case jsonOut:
		writer = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	case markdownOut:
		writer = report.NewMarkdownWriter(cmd.OutOrStdout())
	default:
		writer = report.NewSimpleWriter(cmd.OutOrStdout(), report.WithVerbose(details), report.WithShowEmpty(true))
	}
	_, err = writer.WriteResults(session, results)
	return err
}

// NewMarkCmd creates the mark command.
func NewMarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark <session-id> <result-id>",
		Short: "Toggle the suspicious mark of a follower",
		Long: `Mark flips the "marked suspicious" flag of one result. Running it again
removes the mark. Result IDs are shown by "realreach results --json".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			result, err := a.service(nil, 0).ToggleMark(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printToggle(cmd.OutOrStdout(), result, "marked suspicious", result.IsMarkedSuspicious)
			return nil
		},
	}
}

// NewHideCmd creates the hide command.
func NewHideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hide <session-id> <result-id>",
		Short: "Toggle whether a follower is hidden",
		Long: `Hide flips the hidden flag of one result. Hidden results are dropped by
"realreach results --hide-hidden". Running it again unhides the result.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			result, err := a.service(nil, 0).ToggleHidden(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printToggle(cmd.OutOrStdout(), result, "hidden", result.IsHidden)
			return nil
		},
	}
}

func printToggle(w io.Writer, result *model.AnalysisResult, flag string, on bool) {
	state := "no longer " + flag
	if on {
		state = "now " + flag
	}
	fmt.Fprintf(w, "@%s (%s) is %s\n", result.Follower.Username, result.ID, state)
}

// NewDeleteCmd creates the delete command.
func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <session-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an analysis session",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			if err := a.service(nil, 0).DeleteSession(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", args[0])
			return nil
		},
	}
}
