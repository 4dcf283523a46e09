package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/chime/internal/domain/alarm"
)

// listCmd prints every stored alarm.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored alarms.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		records, err := client.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No alarms stored.")

			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTIME\tREPEAT\tSOUND\tACTIVE")

		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%02d:%02d\t%s\t%s\t%t\n",
				rec.ID, rec.Hour, rec.Minute, formatRepeat(rec), rec.Sound, rec.IsActive)
		}

		return w.Flush()
	},
}

// formatRepeat renders the repeat set, or "once" for one-shot alarms.
func formatRepeat(rec *alarm.Record) string {
	if !rec.IsRepeating() {
		return "once"
	}

	names := make([]string, 0, len(rec.RepeatDays))
	for _, d := range rec.RepeatDays {
		names = append(names, d.String())
	}

	return strings.Join(names, ",")
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(listCmd)
}
