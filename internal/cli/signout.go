package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitcoach-app/fitcoach/internal/daemon"
)

func init() {
	rootCmd.AddCommand(signoutCmd)
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Clear the local chat transcript",
	Long:  `Clear the locally persisted conversation. Your profile, streak, and badges are kept.`,
	RunE:  runSignout,
}

func runSignout(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return fmt.Errorf("initialize daemon: %w", err)
	}
	defer d.Close()

	d.Session.Clear()
	fmt.Println("Transcript cleared.")
	return nil
}
