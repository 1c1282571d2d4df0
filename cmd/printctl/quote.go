package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Simplici0/printdesk/internal/cli"
	"github.com/Simplici0/printdesk/internal/pricing"
)

var (
	flagFilaments    []string
	flagPrintHours   float64
	flagPrintMinutes float64
	flagLaborMinutes float64
	flagHardware     []string
	flagPackaging    []string
	flagQuantity     int
	flagBatch        bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Cost breakdown and pricing tiers for a part",
	Example: `  printctl quote --filament 120:24.99 --hours 3 --minutes 30 --labor 15 \
    --hardware 0.05:4 --packaging 0.8 --qty 10 --batch`,
	RunE: runQuote,
}

func init() {
	f := quoteCmd.Flags()
	f.StringArrayVar(&flagFilaments, "filament", nil, "Filament usage as GRAMS:COST_PER_KG (repeatable)")
	f.Float64Var(&flagPrintHours, "hours", 0, "Print time hours")
	f.Float64Var(&flagPrintMinutes, "minutes", 0, "Print time minutes")
	f.Float64Var(&flagLaborMinutes, "labor", 0, "Hands-on labor minutes")
	f.StringArrayVar(&flagHardware, "hardware", nil, "Hardware as UNIT_COST[:QTY] (repeatable)")
	f.StringArrayVar(&flagPackaging, "packaging", nil, "Packaging as UNIT_COST[:QTY] (repeatable)")
	f.IntVar(&flagQuantity, "qty", 1, "Batch quantity (needs --batch)")
	f.BoolVar(&flagBatch, "batch", false, "Price a batch of --qty parts")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(_ *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	input, err := quoteInputFromFlags()
	if err != nil {
		return err
	}

	b := pricing.ComputeCosts(input, settings.CostModel)
	fmt.Println()
	fmt.Println(cli.RenderTitle("PART QUOTE"))
	fmt.Println()
	fmt.Print(renderQuote(b, settings.Currency))
	return nil
}

func quoteInputFromFlags() (pricing.PartQuoteInput, error) {
	input := pricing.PartQuoteInput{
		PrintHours:   flagPrintHours,
		PrintMinutes: flagPrintMinutes,
		LaborMinutes: flagLaborMinutes,
		Quantity:     flagQuantity,
		BatchMode:    flagBatch,
	}

	for _, raw := range flagFilaments {
		f, err := parseFilament(raw)
		if err != nil {
			return pricing.PartQuoteInput{}, err
		}
		input.Filaments = append(input.Filaments, f)
	}

	var err error
	if input.Hardware, err = parseItems("hardware", flagHardware); err != nil {
		return pricing.PartQuoteInput{}, err
	}
	if input.Packaging, err = parseItems("packaging", flagPackaging); err != nil {
		return pricing.PartQuoteInput{}, err
	}
	return input, nil
}

func parseFilament(raw string) (pricing.FilamentUsage, error) {
	grams, cost, ok := strings.Cut(raw, ":")
	if !ok {
		return pricing.FilamentUsage{}, fmt.Errorf("filament %q: want GRAMS:COST_PER_KG", raw)
	}
	g, err := strconv.ParseFloat(strings.TrimSpace(grams), 64)
	if err != nil {
		return pricing.FilamentUsage{}, fmt.Errorf("filament %q: grams: %w", raw, err)
	}
	c, err := strconv.ParseFloat(strings.TrimSpace(cost), 64)
	if err != nil {
		return pricing.FilamentUsage{}, fmt.Errorf("filament %q: cost per kg: %w", raw, err)
	}
	return pricing.FilamentUsage{Grams: g, CostPerKg: c}, nil
}

func parseItems(kind string, raws []string) ([]pricing.LineItem, error) {
	out := make([]pricing.LineItem, 0, len(raws))
	for i, raw := range raws {
		cost, qty, hasQty := strings.Cut(raw, ":")
		c, err := strconv.ParseFloat(strings.TrimSpace(cost), 64)
		if err != nil {
			return nil, fmt.Errorf("%s %q: unit cost: %w", kind, raw, err)
		}
		item := pricing.LineItem{Name: fmt.Sprintf("%s %d", kind, i+1), UnitCost: c, Quantity: 1}
		if hasQty {
			n, err := strconv.Atoi(strings.TrimSpace(qty))
			if err != nil {
				return nil, fmt.Errorf("%s %q: quantity: %w", kind, raw, err)
			}
			item.Quantity = n
		}
		out = append(out, item)
	}
	return out, nil
}

func renderQuote(b pricing.CostBreakdown, currency string) string {
	var out strings.Builder

	out.WriteString(cli.RenderKeyValue([][2]string{
		{"Print time", cli.FormatHours(b.TotalPrintHours)},
		{"Labor", cli.FormatHours(b.LaborHours)},
		{"Filament", cli.FormatGrams(b.TotalMaterialGrams)},
		{"Quantity", strconv.Itoa(b.Quantity)},
	}))
	out.WriteString("\n")

	rows := [][]string{
		{"Material", cli.FormatMoney(b.MaterialCost, currency)},
		{"Labor", cli.FormatMoney(b.LaborCost, currency)},
		{"Machine", cli.FormatMoney(b.MachineCost, currency)},
		{"  incl. electricity", cli.FormatMoney(b.ElectricityCost, currency)},
		{"Hardware", cli.FormatMoney(b.HardwareCost, currency)},
		{"Packaging", cli.FormatMoney(b.PackagingCost, currency)},
		{"---"},
		{"Unit cost", cli.FormatMoney(b.UnitCost, currency)},
		{"Total cost", cli.FormatMoney(b.TotalCost, currency)},
	}
	out.WriteString(cli.RenderTable(cli.Table{
		Title:   "Costs",
		Headers: []string{"Component", "Amount"},
		Rows:    rows,
	}))
	out.WriteString("\n")

	tierRows := make([][]string, 0, len(b.PricingTiers))
	for _, t := range b.PricingTiers {
		tierRows = append(tierRows, []string{
			t.Label,
			cli.FormatPercent(t.MarginPercent),
			cli.FormatMoney(t.Price, currency),
			cli.FormatMoney(t.PriceWithVAT, currency),
			cli.FormatMoney(t.UnitPriceWithVAT, currency),
			cli.RenderProfit(t.Profit, cli.FormatMoney(t.Profit, currency)),
		})
	}
	out.WriteString(cli.RenderTable(cli.Table{
		Title:   tiersTitle(),
		Headers: []string{"Tier", "Markup", "Price", "With VAT", "Unit w/ VAT", "Profit"},
		Rows:    tierRows,
	}))
	return out.String()
}

// tiersTitle names the preset ladder, e.g. "markup on cost 25/40/60/80%".
func tiersTitle() string {
	tiers := pricing.MarginTiers()
	steps := make([]string, len(tiers))
	for i, t := range tiers {
		steps[i] = strconv.FormatFloat(t.MarginPercent, 'f', -1, 64)
	}
	return "Pricing tiers (markup on cost " + strings.Join(steps, "/") + "%)"
}
