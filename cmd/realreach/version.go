package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildSetting returns a vcs setting from the embedded build info.
func buildSetting(key string) string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range buildInfo.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

// getVersion returns version string.
// Priority: ldflags > debug.ReadBuildInfo > "(devel)"
func getVersion() string {
	if version != "" {
		return version
	}
	if buildInfo, ok := debug.ReadBuildInfo(); ok && buildInfo.Main.Version != "" {
		return buildInfo.Main.Version
	}
	return "(devel)"
}

// getCommit returns the short commit hash.
// Priority: ldflags > vcs.revision > "unknown"
func getCommit() string {
	if commit != "" {
		return commit
	}
	if rev := buildSetting("vcs.revision"); rev != "" {
		if len(rev) > 7 {
			return rev[:7]
		}
		return rev
	}
	return "unknown"
}

// getDate returns build date.
// Priority: ldflags > vcs.time > "unknown"
func getDate() string {
	if date != "" {
		return date
	}
	if t := buildSetting("vcs.time"); t != "" {
		return t
	}
	return "unknown"
}

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Built     string `json:"built"`
	GoVersion string `json:"goVersion"`
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date and Go version of realreach.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{
				Version:   getVersion(),
				Commit:    getCommit(),
				Built:     getDate(),
				GoVersion: runtime.Version(),
			}

			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "realreach version %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", info.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", info.Built)
			fmt.Fprintf(cmd.OutOrStdout(), "  go:     %s\n", info.GoVersion)
			return nil
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Print version information as JSON")
	return cmd
}
