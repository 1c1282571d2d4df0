package etsy

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultRegion is the seller location used when none is given.
const DefaultRegion = "US"

// FeeSettings is a marketplace fee-rate schedule for one seller region.
// Percent fields are 0-100 values. VATPercent is informational and does not
// enter the fee math.
type FeeSettings struct {
	Region                string  `json:"region" yaml:"region" db:"region"`
	ListingFee            float64 `json:"listing_fee" yaml:"listing_fee" db:"listing_fee"`
	TransactionFeePercent float64 `json:"transaction_fee_percent" yaml:"transaction_fee_percent" db:"transaction_fee_percent"`
	PaymentFeePercent     float64 `json:"payment_fee_percent" yaml:"payment_fee_percent" db:"payment_fee_percent"`
	PaymentFeeFixed       float64 `json:"payment_fee_fixed" yaml:"payment_fee_fixed" db:"payment_fee_fixed"`
	VATPercent            float64 `json:"vat_percent" yaml:"vat_percent" db:"vat_percent"`
	OffsiteAdsPercent     float64 `json:"offsite_ads_percent" yaml:"offsite_ads_percent" db:"offsite_ads_percent"`
	RegulatoryFeePercent  float64 `json:"regulatory_fee_percent" yaml:"regulatory_fee_percent" db:"regulatory_fee_percent"`
}

var schedules = map[string]FeeSettings{
	"US": {
		Region:                "US",
		ListingFee:            0.28,
		TransactionFeePercent: 6.5,
		PaymentFeePercent:     3,
		PaymentFeeFixed:       0.371338607094133,
		VATPercent:            20,
		OffsiteAdsPercent:     15,
		RegulatoryFeePercent:  0,
	},
	// UK, EU, CA and AU are illustrative placeholders, not published Etsy
	// rates. Override them with a file at FEE_SCHEDULES_PATH.
	"UK": {
		Region:                "UK",
		ListingFee:            0.16,
		TransactionFeePercent: 6.5,
		PaymentFeePercent:     4,
		PaymentFeeFixed:       0.20,
		VATPercent:            20,
		OffsiteAdsPercent:     15,
		RegulatoryFeePercent:  0.32,
	},
	"EU": {
		Region:                "EU",
		ListingFee:            0.19,
		TransactionFeePercent: 6.5,
		PaymentFeePercent:     4,
		PaymentFeeFixed:       0.30,
		VATPercent:            21,
		OffsiteAdsPercent:     15,
		RegulatoryFeePercent:  0.4,
	},
	"CA": {
		Region:                "CA",
		ListingFee:            0.27,
		TransactionFeePercent: 6.5,
		PaymentFeePercent:     3,
		PaymentFeeFixed:       0.25,
		VATPercent:            13,
		OffsiteAdsPercent:     15,
		RegulatoryFeePercent:  1.15,
	},
	"AU": {
		Region:                "AU",
		ListingFee:            0.30,
		TransactionFeePercent: 6.5,
		PaymentFeePercent:     3,
		PaymentFeeFixed:       0.25,
		VATPercent:            10,
		OffsiteAdsPercent:     15,
		RegulatoryFeePercent:  0,
	},
}

// DefaultFeeSettings returns the US fee schedule.
func DefaultFeeSettings() FeeSettings {
	return schedules[DefaultRegion]
}

// Schedules returns a copy of the built-in regional fee schedules.
func Schedules() map[string]FeeSettings {
	out := make(map[string]FeeSettings, len(schedules))
	for k, v := range schedules {
		out[k] = v
	}
	return out
}

// Regions returns the sorted region codes of a schedule set.
func Regions(set map[string]FeeSettings) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the schedule for region, case-insensitively.
func Lookup(set map[string]FeeSettings, region string) (FeeSettings, bool) {
	key := strings.ToUpper(strings.TrimSpace(region))
	if key == "" {
		key = DefaultRegion
	}
	fs, ok := set[key]
	return fs, ok
}

type rawSchedule struct {
	ListingFee            *float64 `yaml:"listing_fee"`
	TransactionFeePercent *float64 `yaml:"transaction_fee_percent"`
	PaymentFeePercent     *float64 `yaml:"payment_fee_percent"`
	PaymentFeeFixed       *float64 `yaml:"payment_fee_fixed"`
	VATPercent            *float64 `yaml:"vat_percent"`
	OffsiteAdsPercent     *float64 `yaml:"offsite_ads_percent"`
	RegulatoryFeePercent  *float64 `yaml:"regulatory_fee_percent"`
}

type rawScheduleFile struct {
	Regions map[string]rawSchedule `yaml:"regions"`
}

// LoadSchedules reads a YAML file of regional overrides and merges it over
// the built-in schedules. Fields left out of a region keep the built-in
// value; unknown regions start from the US schedule. A missing file yields
// the built-ins.
func LoadSchedules(path string) (map[string]FeeSettings, error) {
	set := Schedules()
	if path == "" {
		return set, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return set, nil
		}
		return nil, fmt.Errorf("read fee schedules: %w", err)
	}

	var file rawScheduleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse fee schedules: %w", err)
	}

	for region, raw := range file.Regions {
		key := strings.ToUpper(strings.TrimSpace(region))
		if key == "" {
			continue
		}
		base, ok := set[key]
		if !ok {
			base = DefaultFeeSettings()
		}
		base.Region = key
		set[key] = raw.mergeInto(base)
	}
	return set, nil
}

func (r rawSchedule) mergeInto(base FeeSettings) FeeSettings {
	pick := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	pick(&base.ListingFee, r.ListingFee)
	pick(&base.TransactionFeePercent, r.TransactionFeePercent)
	pick(&base.PaymentFeePercent, r.PaymentFeePercent)
	pick(&base.PaymentFeeFixed, r.PaymentFeeFixed)
	pick(&base.VATPercent, r.VATPercent)
	pick(&base.OffsiteAdsPercent, r.OffsiteAdsPercent)
	pick(&base.RegulatoryFeePercent, r.RegulatoryFeePercent)
	return base
}
