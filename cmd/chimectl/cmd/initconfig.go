package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/chime/internal/config"
)

// initStorageDriver selects the storage backend for the generated file.
var initStorageDriver string

// initConfigCmd writes a settings file the daemon and CLI can share.
var initConfigCmd = &cobra.Command{
	Use:   "init-config <server-address>",
	Short: "Write a settings file with defaults.",
	Long: `Generates the YAML settings file shared by chimed and chimectl.

The server address is required (e.g., 127.0.0.1:8080). Every other
setting is filled with its default and can be edited afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg := &config.Config{
			ServerAddress: args[0],
			StorageDriver: initStorageDriver,
		}

		if err := config.Save(cfgPath, cfg); err != nil {
			return err
		}

		fmt.Printf("Settings written to %s.\n", cfgPath)

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initConfigCmd.Flags().
		StringVar(&initStorageDriver, "storage-driver", config.StorageDriverFile, "storage backend: file or sqlite")

	rootCmd.AddCommand(initConfigCmd)
}
