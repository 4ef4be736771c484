// Package cli implements the FitCoach command-line interface using Cobra.
// Each subcommand maps to one surface of the app (chat, stats, badges,
// serve, signout).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fitcoach",
	Short: "FitCoach — AI fitness coaching with streaks and badges",
	Long: `FitCoach is a fitness-coaching chat app.
Talk to your AI coach, keep your daily streak alive, and earn badges as
you level up from Beginner to Champion.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
