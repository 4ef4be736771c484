package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fitcoach-app/fitcoach/internal/daemon"
)

func init() {
	rootCmd.AddCommand(badgesCmd)
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List badges and which ones you've earned",
	RunE:  runBadges,
}

func runBadges(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return fmt.Errorf("initialize daemon: %w", err)
	}
	defer d.Close()

	earned := make(map[string]string)
	for _, b := range d.Orchestrator.EarnedBadges() {
		earned[b.BadgeID] = b.EarnedAt.Format("2006-01-02")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "BADGE\tCATEGORY\tDESCRIPTION\tEARNED")
	for _, b := range d.Orchestrator.Catalog() {
		when := "-"
		if at, ok := earned[b.ID]; ok {
			when = at
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Name, b.Category, b.Description, when)
	}
	return w.Flush()
}
