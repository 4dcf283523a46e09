package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// timerCmd groups the countdown timer subcommands.
var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Manage the countdown timer.",
}

// timerStartCmd begins a countdown.
var timerStartCmd = &cobra.Command{
	Use:   "start <duration>",
	Short: "Start a countdown (e.g. 10m, 1h30m, 90s).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", args[0], err)
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		end, err := client.StartTimer(cmd.Context(), d)
		if err != nil {
			return err
		}

		fmt.Printf("Timer ends at %s.\n", end.Local().Format("15:04:05"))

		return nil
	},
}

// timerStatusCmd reports the remaining countdown.
var timerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the remaining countdown.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		remaining, err := client.TimerRemaining(cmd.Context())
		if err != nil {
			return err
		}

		if remaining <= 0 {
			fmt.Println("No timer running.")

			return nil
		}

		fmt.Printf("%s remaining.\n", remaining)

		return nil
	},
}

// timerClearCmd stops the countdown.
var timerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Stop the countdown.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.ClearTimer(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Timer cleared.")

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	timerCmd.AddCommand(timerStartCmd, timerStatusCmd, timerClearCmd)
	rootCmd.AddCommand(timerCmd)
}
