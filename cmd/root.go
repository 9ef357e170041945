package cmd

import (
	"github.com/spf13/cobra"

	"github.com/svanteberg/plugga/internal/storage"
)

var rootCmd = &cobra.Command{
	Use:   "plugga",
	Short: "Mastery and spaced-repetition engine",
	Long: "Plugga is the mastery estimation and spaced-repetition engine behind\n" +
		"the adaptive learning app. Inspects and maintains learner state in a\n" +
		"local SQLite database.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PLUGGA_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to plugga.yaml config file")

	rootCmd.AddCommand(attemptCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(decayCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfgPath string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, storage.EnsureDir(p)
	}
	if cfgPath != "" {
		return cfgPath, storage.EnsureDir(cfgPath)
	}
	return storage.DefaultDBPath()
}
