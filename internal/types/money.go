// README: Common money value object used across modules (integer cents, USD).
package types

import "math"

const CurrencyUSD = "USD"

type Money struct {
	Amount   int64 // cents
	Currency string
}

// USD rounds a dollar amount to the nearest cent.
func USD(dollars float64) Money {
	return Money{Amount: int64(math.Round(dollars * 100)), Currency: CurrencyUSD}
}

func (m Money) Add(o Money) Money {
	return Money{Amount: m.Amount + o.Amount, Currency: CurrencyUSD}
}

func (m Money) Dollars() float64 {
	return float64(m.Amount) / 100
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}
