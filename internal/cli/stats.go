package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fitcoach-app/fitcoach/internal/daemon"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your level, progress, and streak",
	RunE:  runStats,
}

const statsBarWidth = 20

func runStats(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return fmt.Errorf("initialize daemon: %w", err)
	}
	defer d.Close()

	p := d.Orchestrator.Profile()
	prog := d.Orchestrator.Progress()
	streak := d.Orchestrator.Streak()

	fmt.Printf("%s\n", displayName(p))
	fmt.Printf("  Level:    %d (%s)\n", prog.Level, prog.Name)
	fmt.Printf("  Messages: %d\n", p.MessageCount)

	if prog.MessagesToNext > 0 {
		filled := int(prog.Progress / 100 * statsBarWidth)
		bar := strings.Repeat("=", filled) + strings.Repeat(".", statsBarWidth-filled)
		fmt.Printf("  Progress: [%s] %.0f%%, %d messages to next level\n",
			bar, prog.Progress, prog.MessagesToNext)
	} else {
		fmt.Printf("  Progress: max level reached\n")
	}

	fmt.Printf("  Streak:   %d days (longest %d, %d active total)\n",
		streak.CurrentStreak, streak.LongestStreak, streak.TotalDaysActive)
	fmt.Printf("  Freezes:  %d banked\n", streak.FreezesBanked)
	if streak.StreakAtRisk {
		fmt.Println("  Your streak is at risk! Chat today to keep it alive.")
	}

	return nil
}
