package pricing

// MinCustomMargin and MaxCustomMargin bound the interactive margin slider.
// ComputeCustomPrice does not enforce them; callers must.
const (
	MinCustomMargin = 5
	MaxCustomMargin = 95
)

func applyPercent(v, pct float64) float64 {
	return v * (pct / 100)
}

func grossUpVAT(v, vatPct float64) float64 {
	return v * (1 + vatPct/100)
}

// tierProfit is margin-on-cost: profit is a share of cost.
func tierProfit(cost, marginPct float64) float64 {
	return applyPercent(cost, marginPct)
}

// customMarginPrice is margin-on-price: profit/price equals marginPct.
// Undefined at marginPct == 100.
func customMarginPrice(cost, marginPct float64) float64 {
	return cost / (1 - marginPct/100)
}

// CustomPrice is the result of pricing a cost at an arbitrary margin.
type CustomPrice struct {
	Price        float64 `json:"price"`
	PriceWithVAT float64 `json:"price_with_vat"`
	Profit       float64 `json:"profit"`
}

// ComputeCustomPrice prices totalCost so that profit is marginPercent of the
// selling price, then adds VAT.
func ComputeCustomPrice(totalCost, marginPercent, vatPercent float64) CustomPrice {
	price := customMarginPrice(totalCost, marginPercent)
	return CustomPrice{
		Price:        price,
		PriceWithVAT: grossUpVAT(price, vatPercent),
		Profit:       price - totalCost,
	}
}

// PerUnit splits a batch price evenly across qty items.
func (c CustomPrice) PerUnit(qty int) CustomPrice {
	n := float64(count(qty))
	return CustomPrice{
		Price:        c.Price / n,
		PriceWithVAT: c.PriceWithVAT / n,
		Profit:       c.Profit / n,
	}
}

func (c CustomPrice) Finite() bool {
	return finite(c.Price) && finite(c.PriceWithVAT) && finite(c.Profit)
}
