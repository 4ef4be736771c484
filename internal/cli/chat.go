package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fitcoach-app/fitcoach/internal/daemon"
	"github.com/fitcoach-app/fitcoach/internal/domain"
)

func init() {
	rootCmd.AddCommand(chatCmd)
}

var chatCmd = &cobra.Command{
	Use:   "chat [MESSAGE]",
	Short: "Chat with your AI fitness coach",
	Long:  `Start an interactive coaching chat. Each day you chat extends your streak.`,
	RunE:  runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return fmt.Errorf("initialize daemon: %w", err)
	}
	defer d.Close()

	if len(args) > 0 {
		// Single-shot mode
		return sendAndPrint(cmd, d, args[0])
	}

	p := d.Orchestrator.Profile()
	fmt.Printf(">>> Chatting as %s, level %d %s (type /bye to exit)\n",
		displayName(p), p.CurrentLevel, p.LevelName)

	scanner := newLineScanner(os.Stdin)
	for {
		fmt.Print(">>> ")
		if !scanner.Scan() {
			break
		}
		input := scanner.Text()

		if input == "/bye" || input == "/exit" || input == "/quit" {
			fmt.Println("Keep moving!")
			return nil
		}

		if input == "" {
			continue
		}

		if err := sendAndPrint(cmd, d, input); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		fmt.Println()
	}

	return nil
}

func sendAndPrint(cmd *cobra.Command, d *daemon.Daemon, input string) error {
	msg, err := d.Session.Send(cmd.Context(), input)
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		fmt.Fprintln(os.Stderr, "Slow down a little, you're sending messages too fast.")
		return nil
	case err != nil:
		return err
	}

	if msg.IsError {
		fmt.Fprintln(os.Stderr, msg.Content)
		return nil
	}

	fmt.Println(msg.Content)
	printCelebrations(d.Orchestrator.DrainEvents())
	return nil
}

// printCelebrations renders the queued reward events as toast lines.
func printCelebrations(events []domain.GamificationEvent) {
	for _, e := range events {
		switch ev := e.(type) {
		case domain.LevelUpEvent:
			fmt.Printf("  ** Level up! You're now level %d: %s\n", ev.NewLevel, ev.NewName)
		case domain.BadgeEarnedEvent:
			fmt.Printf("  ** Badge earned: %s — %s\n", ev.Badge.Name, ev.Badge.Description)
		case domain.StreakMilestoneEvent:
			fmt.Printf("  ** %d-day streak!\n", ev.Days)
		case domain.StreakFreezeUsedEvent:
			fmt.Println("  ** A streak freeze saved your streak.")
		case domain.StreakFreezeEarnedEvent:
			fmt.Println("  ** Streak freeze banked.")
		}
	}
}

func displayName(p domain.UserProfile) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.ID
}
