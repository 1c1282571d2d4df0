package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/printdesk/internal/config"
)

var flagSettings string

var rootCmd = &cobra.Command{
	Use:           "printctl",
	Short:         "3D print pricing calculator",
	Long:          "Price 3D printed parts and estimate Etsy fees from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSettings, "settings", config.SettingsPath(), "Settings file (TOML)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  error: %v\n", err)
		os.Exit(1)
	}
}

func loadSettings() (config.Settings, error) {
	return config.LoadSettings(flagSettings)
}
