package pricing

import (
	"errors"
	"math"
	"testing"

	"routebee/internal/types"
)

func TestService_Estimate(t *testing.T) {
	tests := []struct {
		name        string
		product     Product
		miles       float64
		wantMinutes float64
		wantFare    int64 // cents
	}{
		{"walk 1 mile", ProductWalk, 1, 20, 0},
		{"subway flat fare", ProductSubway, 8, 64, 275},
		{"free transfer leg", ProductSubwayFreeTransfer, 4, 16, 0},
		{"express bus", ProductExpressBus, 10, 100, 675},
		{"ferry boarding time", ProductFerry, 5, 35, 0},
		// 12 min -> 1.00 + 0.24*12 = 3.88
		{"ebike per minute", ProductEBike, 1, 12, 388},
		{"rideshare per mile", ProductRideshare, 4, 40, 1000},
		// 3.00 + 2.80*2 = 8.60
		{"taxi base plus distance", ProductTaxi, 2, 18, 860},
		{"last mile is fixed", ProductLastMileRideshare, 20, 8, 750},
		{"zero distance clamps to a minute", ProductWalk, 0, 1, 0},
		{"negative distance treated as zero", ProductSubway, -3, 1, 275},
	}

	s := NewService(DefaultRates())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Estimate(tt.product, tt.miles)
			if err != nil {
				t.Fatalf("Estimate() error = %v", err)
			}
			if math.Abs(got.Minutes-tt.wantMinutes) > 1e-9 {
				t.Errorf("Minutes = %v, want %v", got.Minutes, tt.wantMinutes)
			}
			if got.Fare.Amount != tt.wantFare {
				t.Errorf("Fare = %d, want %d", got.Fare.Amount, tt.wantFare)
			}
		})
	}
}

func TestService_EstimateMonotonic(t *testing.T) {
	s := NewService(DefaultRates())
	for _, r := range DefaultRates() {
		prev, _ := s.Estimate(r.Product, 0)
		for miles := 0.25; miles <= 25; miles += 0.25 {
			q, err := s.Estimate(r.Product, miles)
			if err != nil {
				t.Fatal(err)
			}
			if q.Minutes < prev.Minutes || q.Fare.Amount < prev.Fare.Amount {
				t.Fatalf("%s not monotonic at %.2f mi: %+v after %+v", r.Product, miles, q, prev)
			}
			if q.Minutes <= 0 {
				t.Fatalf("%s produced non-positive minutes", r.Product)
			}
			prev = q
		}
	}
}

func TestService_UnknownProduct(t *testing.T) {
	_, err := NewService(DefaultRates()).Estimate(Product("hovercraft"), 1)
	if !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("err = %v, want ErrUnknownProduct", err)
	}
}

func TestBreakdown(t *testing.T) {
	tests := []struct {
		name     string
		fare     types.Money
		carFare  types.Money
		traffic  float64
		wantFees int64
	}{
		{"no car legs", types.USD(2.75), types.Money{}, 1.5, 0},
		{"light traffic", types.USD(20), types.USD(20), 1.1, 0},
		{"at threshold", types.USD(20), types.USD(20), 1.2, 0},
		{"congested car legs", types.USD(22.75), types.USD(20), 1.35, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Breakdown(tt.fare, tt.carFare, tt.traffic)
			if b.AdditionalFees.Amount != tt.wantFees {
				t.Errorf("fees = %d, want %d", b.AdditionalFees.Amount, tt.wantFees)
			}
			if b.Total.Amount != tt.fare.Amount+tt.wantFees {
				t.Errorf("total = %d", b.Total.Amount)
			}
		})
	}
}
