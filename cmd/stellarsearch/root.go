package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ketjandr/nasa-spaceapps-project/internal/config"
	"github.com/ketjandr/nasa-spaceapps-project/internal/version"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "stellarsearch",
	Short: "Query-understanding search over planetary surface features and live natural events",
	Long: `stellarsearch answers natural language questions like "large craters on
the Moon" or "dust storms on Mars" against a planetary feature catalog,
blending in live natural events from the NASA EONET feed.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"path to a config file (overrides CONFIG_PATH and the ENV-based lookup)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("stellarsearch %s (%s, %s)\n", version.Version, version.Commit, version.Date)
		},
	})
}

// loadConfig resolves configuration the same way for every subcommand: the
// --config flag wins, then CONFIG_PATH, then config/<ENV>.yaml.
func loadConfig() (config.Config, error) {
	if cfgPath != "" {
		if err := os.Setenv("CONFIG_PATH", cfgPath); err != nil {
			return config.Config{}, fmt.Errorf("set CONFIG_PATH: %w", err)
		}
	}
	return config.Load(config.GetEnv())
}
