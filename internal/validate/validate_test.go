package validate

import (
	"fmt"
	"math"
	"testing"
)

func TestRules(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"non-negative ok", NonNegative("cost", 0), false},
		{"non-negative fails", NonNegative("cost", -0.01), true},
		{"nan fails", NonNegative("cost", math.NaN()), true},
		{"positive fails at zero", Positive("qty", 0), true},
		{"percent ok", Percent("vat", 100), false},
		{"percent too high", Percent("vat", 100.5), true},
		{"range ok", Range("margin", 5, 5, 95), false},
		{"range high", Range("margin", 96, 5, 95), true},
		{"required blank", Required("name", "  "), true},
		{"required ok", Required("name", "PLA"), false},
		{"too large", TooLarge("quote"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if (tc.err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", tc.err, tc.wantErr)
			}
			if tc.err != nil && !IsValidation(tc.err) {
				t.Fatalf("expected validation error, got %T", tc.err)
			}
		})
	}
}

func TestIsValidationUnwraps(t *testing.T) {
	err := fmt.Errorf("save: %w", Required("title", ""))
	if !IsValidation(err) {
		t.Fatal("expected wrapped validation error to be detected")
	}
	if IsValidation(fmt.Errorf("plain")) {
		t.Fatal("plain error is not a validation error")
	}
	if got := err.Error(); got != "save: title is required" {
		t.Fatalf("message = %q", got)
	}
}

func TestFirst(t *testing.T) {
	if err := First(nil, Percent("a", 200), Required("b", "")); err == nil || err.Error() != "a must be between 0 and 100" {
		t.Fatalf("First = %v", err)
	}
	if err := First(nil, nil); err != nil {
		t.Fatalf("First = %v, want nil", err)
	}
}
