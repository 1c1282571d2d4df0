package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Simplici0/printdesk/internal/cli"
	"github.com/Simplici0/printdesk/internal/etsy"
)

var (
	flagListing   etsy.ListingInput
	flagRegion    string
	flagSchedules string
)

var etsyCmd = &cobra.Command{
	Use:     "etsy",
	Short:   "Etsy fees, profit and breakeven for a listing",
	Example: "  printctl etsy --price 25 --shipping 5 --discount 10 --cost 8 --shipping-cost 4.5 --region UK",
	RunE:    runEtsy,
}

func init() {
	f := etsyCmd.Flags()
	f.Float64Var(&flagListing.ProductPrice, "price", 0, "Product price")
	f.Float64Var(&flagListing.ShippingPrice, "shipping", 0, "Shipping price charged to the buyer")
	f.Float64Var(&flagListing.DiscountPercent, "discount", 0, "Discount percent")
	f.Float64Var(&flagListing.ProductCost, "cost", 0, "Product cost")
	f.Float64Var(&flagListing.ShippingCost, "shipping-cost", 0, "Actual shipping cost")
	f.Float64Var(&flagListing.PackagingCost, "packaging-cost", 0, "Packaging cost")
	f.Float64Var(&flagListing.TargetProfit, "target-profit", 0, "Desired profit per sale")
	f.StringVar(&flagRegion, "region", "", "Seller region (defaults to the settings file)")
	f.StringVar(&flagSchedules, "schedules", "", "YAML file of fee schedule overrides")
	rootCmd.AddCommand(etsyCmd)
}

func runEtsy(_ *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	path := flagSchedules
	if path == "" {
		path = settings.Etsy.SchedulesPath
	}
	set, err := etsy.LoadSchedules(path)
	if err != nil {
		return err
	}

	region := flagRegion
	if region == "" {
		region = settings.Etsy.Region
	}
	schedule, ok := etsy.Lookup(set, region)
	if !ok {
		return fmt.Errorf("unknown region %q (have %s)", region, strings.Join(etsy.Regions(set), ", "))
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("ETSY FEES  " + schedule.Region))
	fmt.Println()
	fmt.Print(renderFees(flagListing, schedule, settings.Currency))
	return nil
}

func renderFees(in etsy.ListingInput, schedule etsy.FeeSettings, cur string) string {
	fb := etsy.ComputeMarketplaceFees(in, schedule)
	amount := func(v float64) string { return cli.FormatMoney(v, cur) }

	var out strings.Builder
	out.WriteString(cli.RenderTable(cli.Table{
		Title:   "Revenue",
		Headers: []string{"Item", "Amount"},
		Rows: [][]string{
			{"Price + shipping", amount(fb.TotalRevenue)},
			{"Discount", "-" + amount(fb.DiscountAmount)},
			{"---"},
			{"Revenue", amount(fb.RevenueAfterDiscount)},
		},
	}))
	out.WriteString("\n")

	feeRows := make([][]string, 0, len(fb.FeeAllocation)+4)
	for _, f := range fb.FeeAllocation {
		feeRows = append(feeRows, []string{f.Label, amount(f.Value), cli.FormatPercent(f.Percent)})
	}
	feeRows = append(feeRows,
		[]string{"---"},
		[]string{"Total fees", amount(fb.TotalFees), ""},
		[]string{"Offsite ads", amount(fb.OffsiteAdsFee), ""},
		[]string{"Total with ads", amount(fb.TotalFeesWithAds), ""},
	)
	out.WriteString(cli.RenderTable(cli.Table{
		Title:   "Fees",
		Headers: []string{"Fee", "Amount", "Share"},
		Rows:    feeRows,
	}))
	out.WriteString("\n")

	rows := [][]string{
		{"Costs", amount(fb.TotalCosts)},
		{"Profit", cli.RenderProfit(fb.StandardProfit, amount(fb.StandardProfit))},
		{"Profit with offsite ads", cli.RenderProfit(fb.AdsProfit, amount(fb.AdsProfit))},
		{"Breakeven (at current fees)", amount(fb.Breakeven)},
	}
	if price, ok := etsy.FixedPointBreakeven(in, schedule); ok {
		rows = append(rows, []string{"Breakeven product price", amount(price)})
	}
	if in.TargetProfit > 0 {
		if price, ok := etsy.PriceForTargetProfit(in, schedule); ok {
			rows = append(rows, []string{"Price for target profit " + amount(in.TargetProfit), amount(price)})
		}
	}
	out.WriteString(cli.RenderTable(cli.Table{
		Title:   "Profit",
		Headers: []string{"", "Amount"},
		Rows:    rows,
	}))
	return out.String()
}
