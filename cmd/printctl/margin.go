package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Simplici0/printdesk/internal/cli"
	"github.com/Simplici0/printdesk/internal/pricing"
	"github.com/Simplici0/printdesk/internal/validate"
)

var (
	flagMarginCost    float64
	flagMarginPercent float64
	flagMarginVAT     float64
	flagMarginQty     int
)

var marginCmd = &cobra.Command{
	Use:     "margin",
	Short:   "Price a total cost at a custom margin of the selling price",
	Example: "  printctl margin --cost 12.5 --margin 45 --vat 15 --qty 4",
	RunE:    runMargin,
}

func init() {
	f := marginCmd.Flags()
	f.Float64Var(&flagMarginCost, "cost", 0, "Total cost to price")
	f.Float64Var(&flagMarginPercent, "margin", 40, "Margin as a percent of price (5-95)")
	f.Float64Var(&flagMarginVAT, "vat", -1, "VAT percent (defaults to the settings file)")
	f.IntVar(&flagMarginQty, "qty", 1, "Units the cost covers")
	rootCmd.AddCommand(marginCmd)
}

func runMargin(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	if err := validate.Range("margin", flagMarginPercent, pricing.MinCustomMargin, pricing.MaxCustomMargin); err != nil {
		return err
	}
	vat := settings.CostModel.VATPercent
	if cmd.Flags().Changed("vat") {
		vat = flagMarginVAT
	}

	batch := pricing.ComputeCustomPrice(flagMarginCost, flagMarginPercent, vat)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CUSTOM MARGIN  %s", cli.FormatPercent(flagMarginPercent))))
	fmt.Println()
	fmt.Print(renderMargin(batch, flagMarginQty, vat, settings.Currency))
	return nil
}

func renderMargin(batch pricing.CustomPrice, qty int, vat float64, cur string) string {
	unit := batch.PerUnit(qty)
	return cli.RenderTable(cli.Table{
		Headers: []string{"", "Batch", "Per unit"},
		Rows: [][]string{
			{"Price", cli.FormatMoney(batch.Price, cur), cli.FormatMoney(unit.Price, cur)},
			{"Price with VAT " + cli.FormatPercent(vat), cli.FormatMoney(batch.PriceWithVAT, cur), cli.FormatMoney(unit.PriceWithVAT, cur)},
			{"Profit", cli.RenderProfit(batch.Profit, cli.FormatMoney(batch.Profit, cur)), cli.RenderProfit(unit.Profit, cli.FormatMoney(unit.Profit, cur))},
		},
	})
}
