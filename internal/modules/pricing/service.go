// README: Pricing service computes per-product duration and fare estimates.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"routebee/internal/types"
)

var ErrUnknownProduct = errors.New("unknown pricing product")

const (
	// MinMinutes keeps every priced leg strictly positive.
	MinMinutes = 1.0

	congestionFeeRate      = 0.15
	congestionFeeThreshold = 1.2
)

type Service struct {
	rates map[Product]Rate
}

func NewService(rates []Rate) *Service {
	m := make(map[Product]Rate, len(rates))
	for _, r := range rates {
		m[r.Product] = r
	}
	return &Service{rates: m}
}

func DefaultRates() []Rate {
	usd := types.USD
	return []Rate{
		{Product: ProductWalk, MinutesPerMile: 20},
		{Product: ProductSubway, MinutesPerMile: 8, BaseFare: usd(2.75)},
		{Product: ProductSubwayTransferLeg, MinutesPerMile: 4, BaseFare: usd(2.75)},
		{Product: ProductSubwayFreeTransfer, MinutesPerMile: 4},
		{Product: ProductBus, MinutesPerMile: 12, BaseFare: usd(2.75)},
		{Product: ProductExpressBus, MinutesPerMile: 10, BaseFare: usd(6.75)},
		{Product: ProductFerry, MinutesPerMile: 5, FixedMinutes: 10},
		{Product: ProductEBike, MinutesPerMile: 12, BaseFare: usd(1.00), PerMinute: usd(0.24)},
		{Product: ProductBike, MinutesPerMile: 15, BaseFare: usd(3.50)},
		{Product: ProductRideshare, MinutesPerMile: 10, PerMile: usd(2.50)},
		{Product: ProductTaxi, MinutesPerMile: 9, BaseFare: usd(3.00), PerMile: usd(2.80)},
		{Product: ProductShared, MinutesPerMile: 13, PerMile: usd(1.50)},
		{Product: ProductLastMileRideshare, FixedMinutes: 8, BaseFare: usd(7.50)},
		{Product: ProductAccessibleRideshare, MinutesPerMile: 9, BaseFare: usd(3.00), PerMile: usd(2.80)},
		{Product: ProductEconomyBus, MinutesPerMile: 14, BaseFare: usd(2.75)},
		{Product: ProductPremiumCar, MinutesPerMile: 7, BaseFare: usd(5.00), PerMile: usd(3.50)},
	}
}

// Estimate prices one leg of the given length in miles.
func (s *Service) Estimate(product Product, miles float64) (Quote, error) {
	r, ok := s.rates[product]
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnknownProduct, product)
	}
	miles = math.Max(0, miles)
	minutes := math.Max(MinMinutes, r.FixedMinutes+r.MinutesPerMile*miles)
	dollars := r.BaseFare.Dollars() + r.PerMile.Dollars()*miles + r.PerMinute.Dollars()*minutes
	return Quote{Minutes: minutes, Fare: types.USD(dollars)}, nil
}

// Breakdown splits a candidate's cost. Car legs pay a congestion fee when
// the average traffic factor exceeds the threshold.
func Breakdown(fare, carFare types.Money, avgTraffic float64) CostBreakdown {
	var fees types.Money
	if !carFare.IsZero() && avgTraffic > congestionFeeThreshold {
		fees = types.USD(carFare.Dollars() * congestionFeeRate)
	}
	return CostBreakdown{
		Fare:           fare,
		AdditionalFees: fees,
		Total:          fare.Add(fees),
	}
}
