// Package etsy models marketplace fees and seller profit for a single listing.
package etsy

import "math"

// ListingInput holds the prices charged to the buyer and the seller's costs.
type ListingInput struct {
	ProductPrice    float64 `json:"product_price"`
	ShippingPrice   float64 `json:"shipping_price"`
	DiscountPercent float64 `json:"discount_percent"`
	ProductCost     float64 `json:"product_cost"`
	ShippingCost    float64 `json:"shipping_cost"`
	PackagingCost   float64 `json:"packaging_cost"`
	TargetProfit    float64 `json:"target_profit"`
}

// FeeShare is one nonzero fee and its share of the standard fee total.
type FeeShare struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Color   string  `json:"color"`
	Percent float64 `json:"percent"`
}

// FeeBreakdown is the full fee and profit picture of a listing.
//
// Breakeven is TotalCosts + TotalFees using fees at the current price. It is
// an approximation; see FixedPointBreakeven for the solved price.
type FeeBreakdown struct {
	TotalRevenue         float64    `json:"total_revenue"`
	DiscountAmount       float64    `json:"discount_amount"`
	RevenueAfterDiscount float64    `json:"revenue_after_discount"`
	ListingFee           float64    `json:"listing_fee"`
	TransactionFee       float64    `json:"transaction_fee"`
	PaymentFee           float64    `json:"payment_fee"`
	RegulatoryFee        float64    `json:"regulatory_fee"`
	OffsiteAdsFee        float64    `json:"offsite_ads_fee"`
	TotalFees            float64    `json:"total_fees"`
	TotalFeesWithAds     float64    `json:"total_fees_with_ads"`
	TotalCosts           float64    `json:"total_costs"`
	StandardProfit       float64    `json:"standard_profit"`
	AdsProfit            float64    `json:"ads_profit"`
	Breakeven            float64    `json:"breakeven"`
	TargetProfit         float64    `json:"target_profit"`
	FeeAllocation        []FeeShare `json:"fee_allocation"`
}

// ComputeMarketplaceFees derives fees, profit for the organic and offsite-ads
// scenarios, and the approximate breakeven price of a listing.
func ComputeMarketplaceFees(input ListingInput, settings FeeSettings) FeeBreakdown {
	in := input.normalize()
	s := settings.normalize()

	totalRevenue := in.ProductPrice + in.ShippingPrice
	discount := percentOf(totalRevenue, in.DiscountPercent)
	revenue := totalRevenue - discount

	listingFee := s.ListingFee
	transactionFee := percentOf(revenue, s.TransactionFeePercent)
	paymentFee := percentOf(revenue, s.PaymentFeePercent) + s.PaymentFeeFixed
	regulatoryFee := percentOf(revenue, s.RegulatoryFeePercent)
	offsiteAdsFee := percentOf(revenue, s.OffsiteAdsPercent)

	totalFees := listingFee + transactionFee + paymentFee + regulatoryFee
	totalFeesWithAds := totalFees + offsiteAdsFee
	totalCosts := in.ProductCost + in.ShippingCost + in.PackagingCost

	return FeeBreakdown{
		TotalRevenue:         totalRevenue,
		DiscountAmount:       discount,
		RevenueAfterDiscount: revenue,
		ListingFee:           listingFee,
		TransactionFee:       transactionFee,
		PaymentFee:           paymentFee,
		RegulatoryFee:        regulatoryFee,
		OffsiteAdsFee:        offsiteAdsFee,
		TotalFees:            totalFees,
		TotalFeesWithAds:     totalFeesWithAds,
		TotalCosts:           totalCosts,
		StandardProfit:       revenue - totalFees - totalCosts,
		AdsProfit:            revenue - totalFeesWithAds - totalCosts,
		Breakeven:            totalCosts + totalFees,
		TargetProfit:         in.TargetProfit,
		FeeAllocation: feeAllocation(totalFees,
			FeeShare{Label: "Listing Fee", Value: listingFee, Color: "#f59e0b"},
			FeeShare{Label: "Transaction Fee", Value: transactionFee, Color: "#3b82f6"},
			FeeShare{Label: "Payment Fee", Value: paymentFee, Color: "#8b5cf6"},
			FeeShare{Label: "Regulatory Fee", Value: regulatoryFee, Color: "#ec4899"},
		),
	}
}

// FixedPointBreakeven solves for the product price at which the standard
// scenario profit is exactly zero, with percentage fees scaling with that
// price. Shipping price and discount are held as given. ok is false when the
// combined fee rate consumes all revenue.
func FixedPointBreakeven(input ListingInput, settings FeeSettings) (price float64, ok bool) {
	return solvePrice(input, settings, 0)
}

// PriceForTargetProfit solves for the product price that leaves the
// input's TargetProfit in the standard scenario.
func PriceForTargetProfit(input ListingInput, settings FeeSettings) (price float64, ok bool) {
	in := input.normalize()
	return solvePrice(in, settings, in.TargetProfit)
}

// Revenue net of discount must cover fixed fees, costs, and profit after the
// variable rate: R*keep*(1-rate) = fixed + costs + profit.
func solvePrice(input ListingInput, settings FeeSettings, profit float64) (float64, bool) {
	in := input.normalize()
	s := settings.normalize()

	keep := 1 - in.DiscountPercent/100
	rate := (s.TransactionFeePercent + s.PaymentFeePercent + s.RegulatoryFeePercent) / 100
	denom := keep * (1 - rate)
	if denom <= 0 {
		return 0, false
	}

	need := s.ListingFee + s.PaymentFeeFixed + in.ProductCost + in.ShippingCost + in.PackagingCost + profit
	return need/denom - in.ShippingPrice, true
}

func feeAllocation(total float64, fees ...FeeShare) []FeeShare {
	out := make([]FeeShare, 0, len(fees))
	for _, f := range fees {
		if f.Value <= 0 {
			continue
		}
		if total > 0 {
			f.Percent = f.Value / total * 100
		}
		out = append(out, f)
	}
	return out
}

func percentOf(v, pct float64) float64 {
	return v * (pct / 100)
}

func orZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func (in ListingInput) normalize() ListingInput {
	return ListingInput{
		ProductPrice:    orZero(in.ProductPrice),
		ShippingPrice:   orZero(in.ShippingPrice),
		DiscountPercent: orZero(in.DiscountPercent),
		ProductCost:     orZero(in.ProductCost),
		ShippingCost:    orZero(in.ShippingCost),
		PackagingCost:   orZero(in.PackagingCost),
		TargetProfit:    orZero(in.TargetProfit),
	}
}

func (s FeeSettings) normalize() FeeSettings {
	return FeeSettings{
		Region:                s.Region,
		ListingFee:            orZero(s.ListingFee),
		TransactionFeePercent: orZero(s.TransactionFeePercent),
		PaymentFeePercent:     orZero(s.PaymentFeePercent),
		PaymentFeeFixed:       orZero(s.PaymentFeeFixed),
		VATPercent:            orZero(s.VATPercent),
		OffsiteAdsPercent:     orZero(s.OffsiteAdsPercent),
		RegulatoryFeePercent:  orZero(s.RegulatoryFeePercent),
	}
}

// Finite reports whether every amount in f is a finite number.
func (f FeeBreakdown) Finite() bool {
	for _, v := range []float64{
		f.TotalRevenue, f.DiscountAmount, f.RevenueAfterDiscount, f.ListingFee,
		f.TransactionFee, f.PaymentFee, f.RegulatoryFee, f.OffsiteAdsFee,
		f.TotalFees, f.TotalFeesWithAds, f.TotalCosts, f.StandardProfit,
		f.AdsProfit, f.Breakeven, f.TargetProfit,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, share := range f.FeeAllocation {
		if math.IsNaN(share.Value) || math.IsInf(share.Value, 0) || math.IsNaN(share.Percent) || math.IsInf(share.Percent, 0) {
			return false
		}
	}
	return true
}
