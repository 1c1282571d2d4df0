package quotes

import (
	"fmt"
	"strings"

	"github.com/Simplici0/printdesk/internal/money"
)

// RenderText formats a saved quote as plain text for copying into an email
// or message. It reads only the stored values.
func RenderText(r Record) string {
	amount := func(v float64) string {
		return money.FormatWithCurrency(v, r.Currency)
	}

	var b strings.Builder
	title := r.Title
	if title == "" {
		title = "Untitled quote"
	}
	fmt.Fprintf(&b, "Quote: %s\n", title)
	fmt.Fprintf(&b, "Reference: %s\n", r.PublicID)
	if r.CreatedAt != "" {
		fmt.Fprintf(&b, "Date: %s\n", r.CreatedAt)
	}
	if r.Customer != "" {
		fmt.Fprintf(&b, "Customer: %s\n", r.Customer)
	}
	fmt.Fprintf(&b, "Quantity: %d\n", r.Quantity)

	b.WriteString("\nCosts:\n")
	for _, line := range []struct {
		label string
		value float64
	}{
		{"Material", r.MaterialCost},
		{"Labor", r.LaborCost},
		{"Machine", r.MachineCost},
		{"Hardware", r.HardwareCost},
		{"Packaging", r.PackagingCost},
	} {
		if line.value == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", line.label, amount(line.value))
	}
	fmt.Fprintf(&b, "- Unit cost: %s\n", amount(r.UnitCost))
	fmt.Fprintf(&b, "- Total cost: %s\n", amount(r.TotalCost))

	b.WriteString("\nPricing:\n")
	switch r.PricingMode {
	case ModeTier:
		fmt.Fprintf(&b, "- %s tier (%s%% markup on cost)\n", r.TierLabel, trimNumber(r.MarginPercent))
	case ModeCustom:
		fmt.Fprintf(&b, "- Custom margin (%s%% of price)\n", trimNumber(r.MarginPercent))
	}
	fmt.Fprintf(&b, "- Price: %s\n", amount(r.FinalPrice))
	fmt.Fprintf(&b, "- VAT (%s%%): %s\n", trimNumber(r.VATPercent), amount(money.Round2(r.FinalPriceWithVAT-r.FinalPrice)))
	if r.Quantity > 1 {
		fmt.Fprintf(&b, "- Unit price: %s\n", amount(r.UnitPrice()))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", amount(r.FinalPriceWithVAT))

	if r.Notes != "" {
		fmt.Fprintf(&b, "\nNotes:\n%s\n", r.Notes)
	}
	return b.String()
}

func trimNumber(v float64) string {
	s := money.Format(v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
