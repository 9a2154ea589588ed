package types

import "testing"

func TestUSD_RoundsToCents(t *testing.T) {
	tests := []struct {
		name    string
		dollars float64
		want    int64
	}{
		{"whole", 2.75, 275},
		{"round up", 0.125, 13},
		{"zero", 0, 0},
		{"fare times distance", 2.5 * 3, 750},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := USD(tt.dollars)
			if got.Amount != tt.want {
				t.Errorf("USD(%v).Amount = %d, want %d", tt.dollars, got.Amount, tt.want)
			}
			if got.Currency != CurrencyUSD {
				t.Errorf("currency = %q", got.Currency)
			}
		})
	}
}

func TestMoney_AddAndDollars(t *testing.T) {
	total := USD(2.75).Add(USD(6.75))
	if total.Dollars() != 9.5 {
		t.Errorf("Dollars() = %v, want 9.5", total.Dollars())
	}
	if !USD(0).IsZero() || total.IsZero() {
		t.Errorf("IsZero mismatch")
	}
}
