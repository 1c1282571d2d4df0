package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Simplici0/printdesk/internal/cli"
	"github.com/Simplici0/printdesk/internal/config"
)

var flagForce bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage the calculator settings file",
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with the default cost model",
	RunE:  runSettingsInit,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the settings in effect",
	RunE:  runSettingsShow,
}

func init() {
	settingsInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	settingsCmd.AddCommand(settingsInitCmd, settingsShowCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsInit(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(flagSettings); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", flagSettings)
	}
	if err := config.SaveSettings(flagSettings, config.DefaultSettings()); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", flagSettings)
	return nil
}

func runSettingsShow(_ *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	status := "loaded"
	if _, err := os.Stat(flagSettings); err != nil {
		status = "using defaults (no settings file)"
	}
	fmt.Printf("  Settings file: %s\n", flagSettings)
	fmt.Printf("  Status: %s\n\n", status)
	fmt.Print(renderSettings(settings))
	return nil
}

func renderSettings(s config.Settings) string {
	c := s.CostModel
	schedules := s.Etsy.SchedulesPath
	if schedules == "" {
		schedules = "built-in"
	}
	return cli.RenderKeyValue([][2]string{
		{"Currency", s.Currency},
		{"VAT", cli.FormatPercent(c.VATPercent)},
		{"Labor rate / hour", cli.FormatMoney(c.LaborRatePerHour, s.Currency)},
		{"Material efficiency", fmt.Sprintf("x%g", c.MaterialEfficiency)},
		{"Printer cost", cli.FormatMoney(c.PrinterCost, s.Currency)},
		{"Annual maintenance", cli.FormatMoney(c.AnnualMaintenance, s.Currency)},
		{"Printer life", fmt.Sprintf("%g years", c.EstimatedLifeYears)},
		{"Uptime", cli.FormatPercent(c.UptimePercent)},
		{"Power draw", fmt.Sprintf("%g W", c.PowerWatts)},
		{"Electricity / kWh", cli.FormatMoney(c.ElectricityPerKWh, s.Currency)},
		{"Buffer factor", fmt.Sprintf("x%g", c.BufferFactor)},
		{"Etsy region", s.Etsy.Region},
		{"Fee schedules", schedules},
	})
}
