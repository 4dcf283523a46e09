package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd removes one or more alarms.
var deleteCmd = &cobra.Command{
	Use:   "delete <id> [id...]",
	Short: "Delete alarms and cancel their triggers.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.Delete(cmd.Context(), args); err != nil {
			return err
		}

		fmt.Printf("Deleted %d alarm(s).\n", len(args))

		return nil
	},
}

// toggleCmd flips an alarm's active state.
var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Toggle an alarm on or off.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		active, err := client.Toggle(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if active {
			fmt.Println("Alarm is now active.")
		} else {
			fmt.Println("Alarm is now inactive.")
		}

		return nil
	},
}

// dismissCmd stops a ringing alarm.
var dismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Stop a ringing alarm.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.Dismiss(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Println("Alarm dismissed.")

		return nil
	},
}

// snoozeMinutes holds the snooze delay flag; zero means the daemon default.
var snoozeMinutes int

// snoozeCmd postpones a ringing alarm.
var snoozeCmd = &cobra.Command{
	Use:   "snooze <id>",
	Short: "Postpone a ringing alarm.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		if err := client.Snooze(cmd.Context(), args[0], snoozeMinutes); err != nil {
			return err
		}

		fmt.Println("Alarm snoozed.")

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	snoozeCmd.Flags().IntVarP(&snoozeMinutes, "minutes", "m", 0, "snooze delay in minutes (0 = daemon default)")

	rootCmd.AddCommand(deleteCmd, toggleCmd, dismissCmd, snoozeCmd)
}
