package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/chime/internal/domain/alarm"
)

var (
	// repeatDays holds the raw repeat flag (e.g. "mon,tue,fri").
	repeatDays string
	// soundName names the tone the alarm plays.
	soundName string
	// editExisting marks the save as an update of a stored alarm.
	editExisting bool

	// saveCmd creates or updates an alarm.
	saveCmd = &cobra.Command{
		Use:   "save <id> <HH:MM>",
		Short: "Create or update an alarm.",
		Long: `Creates an alarm with the given id and wall-clock time, books its next
trigger and prints how long until it fires. With --edit the alarm must
already exist and its trigger is rebooked.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clock, err := time.Parse("15:04", args[1])
			if err != nil {
				return fmt.Errorf("invalid time %q, expected HH:MM: %w", args[1], err)
			}

			days, err := parseRepeatDays(repeatDays)
			if err != nil {
				return err
			}

			client, err := newClient()
			if err != nil {
				return err
			}

			msg, err := client.Save(cmd.Context(), &alarm.Record{
				ID:         args[0],
				Hour:       clock.Hour(),
				Minute:     clock.Minute(),
				RepeatDays: days,
				Sound:      soundName,
			}, editExisting)
			if err != nil {
				return err
			}

			fmt.Println(msg)

			return nil
		},
	}
)

// parseRepeatDays converts a comma-separated day list into weekday tags.
func parseRepeatDays(raw string) ([]alarm.Weekday, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	days := make([]alarm.Weekday, 0, len(parts))

	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}

		// Accept any casing of the short day name.
		name = strings.ToUpper(name[:1]) + strings.ToLower(name[1:])

		day, err := alarm.ParseWeekday(name)
		if err != nil {
			return nil, err
		}

		days = append(days, day)
	}

	return days, nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	saveCmd.Flags().StringVarP(&repeatDays, "repeat", "r", "", "comma-separated repeat days (e.g. mon,tue,fri)")
	saveCmd.Flags().StringVar(&soundName, "sound", "", "tone to play when the alarm fires")
	saveCmd.Flags().BoolVarP(&editExisting, "edit", "e", false, "update an existing alarm")

	rootCmd.AddCommand(saveCmd)
}
