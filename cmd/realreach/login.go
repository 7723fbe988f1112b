package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/realreach/internal/model"
	"github.com/nao1215/realreach/internal/report"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <platform>",
		Short: "Log in to a social media platform",
		Long: `Login connects RealReach to your account on a platform.
Supported platforms: twitter, instagram, facebook.

The login is simulated: it waits for the configured login delay and then
stores a demo account. Logging in again replaces the stored account.

Examples:
  realreach login twitter
  realreach login instagram --delay 0s`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"twitter", "instagram", "facebook"},
		RunE:      runLoginCmd,
	}
	cmd.Flags().Duration("delay", 0,
		"Simulated login delay (default: loginDelay from the config file, else 1.5s)")
	return cmd
}

func runLoginCmd(cmd *cobra.Command, args []string) (err error) {
	platform, err := model.ParsePlatform(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a, &err)

	delay := a.cfg.ForPlatform(platform.String()).LoginDelay
	if cmd.Flags().Changed("delay") {
		if delay, err = cmd.Flags().GetDuration("delay"); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Connecting to %s...\n", report.PlatformTitle(platform))
	user, err := a.provider(delay).Login(cmd.Context(), platform)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as @%s (%s) on %s\n",
		user.Username, user.Name, report.PlatformTitle(user.Platform))
	return nil
}

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the logged in account",
		Long:  `Logout removes the stored account. Analysis sessions are kept.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			if err := a.provider(0).Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			user, err := a.provider(0).Current(cmd.Context())
			if err != nil {
				return withLoginHint(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "@%s (%s)\n", user.Username, user.Name)
			fmt.Fprintf(out, "  Platform:  %s\n", report.PlatformTitle(user.Platform))
			fmt.Fprintf(out, "  Followers: %d\n", user.FollowerCount)
			fmt.Fprintf(out, "  Following: %d\n", user.FollowingCount)
			return nil
		},
	}
}
