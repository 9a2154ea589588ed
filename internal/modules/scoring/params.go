// README: Scoring parameters and priority weight profiles.
package scoring

import (
	"errors"
	"fmt"

	"routebee/internal/modules/itinerary"
)

var ErrInvalidParams = errors.New("invalid scoring params")

// Params holds the tunable ceilings and penalties.
type Params struct {
	TimeCeilingMin    float64
	CostCeiling       float64
	WheelchairPenalty float64
	BagPenalty        float64
	ComfortFloor      float64
	TransferPenalty   float64
}

func DefaultParams() Params {
	return Params{
		TimeCeilingMin:    120,
		CostCeiling:       30,
		WheelchairPenalty: 0.5,
		BagPenalty:        0.1,
		ComfortFloor:      0.1,
		TransferPenalty:   0.15,
	}
}

func (p Params) Validate() error {
	switch {
	case p.TimeCeilingMin <= 0:
		return fmt.Errorf("%w: time ceiling %.2f", ErrInvalidParams, p.TimeCeilingMin)
	case p.CostCeiling <= 0:
		return fmt.Errorf("%w: cost ceiling %.2f", ErrInvalidParams, p.CostCeiling)
	case p.WheelchairPenalty < 0 || p.WheelchairPenalty > 1:
		return fmt.Errorf("%w: wheelchair penalty %.2f", ErrInvalidParams, p.WheelchairPenalty)
	case p.BagPenalty < 0 || p.TransferPenalty < 0 || p.ComfortFloor < 0:
		return fmt.Errorf("%w: negative penalty", ErrInvalidParams)
	}
	return nil
}

type Weights struct {
	Time     float64 `json:"time"`
	Cost     float64 `json:"cost"`
	Comfort  float64 `json:"comfort"`
	Transfer float64 `json:"transfer"`
}

func (w Weights) Sum() float64 {
	return w.Time + w.Cost + w.Comfort + w.Transfer
}

var priorityWeights = map[itinerary.Priority]Weights{
	itinerary.PrioritySpeed:    {Time: 0.60, Cost: 0.20, Comfort: 0.10, Transfer: 0.10},
	itinerary.PriorityCost:     {Time: 0.20, Cost: 0.60, Comfort: 0.10, Transfer: 0.10},
	itinerary.PriorityComfort:  {Time: 0.20, Cost: 0.20, Comfort: 0.45, Transfer: 0.15},
	itinerary.PriorityBalanced: {Time: 0.40, Cost: 0.35, Comfort: 0.15, Transfer: 0.10},
}

const (
	noiseShift  = 0.10
	safetyShift = 0.05
)

// WeightsFor picks the priority profile, then applies the noise and safety
// shifts. The result is not renormalized.
func WeightsFor(pref itinerary.Preference) Weights {
	w, ok := priorityWeights[pref.Priority]
	if !ok {
		w = priorityWeights[itinerary.PriorityBalanced]
	}

	if pref.Noise == itinerary.SensitivityHigh {
		others := w.Time + w.Cost + w.Transfer
		if others > 0 {
			w.Time -= noiseShift * w.Time / others
			w.Cost -= noiseShift * w.Cost / others
			w.Transfer -= noiseShift * w.Transfer / others
		}
		w.Comfort += noiseShift
	}

	if pref.Safety == itinerary.SensitivityHigh {
		w.Transfer += safetyShift
		w.Comfort += safetyShift
		w.Time = max(0, w.Time-safetyShift)
		w.Cost = max(0, w.Cost-safetyShift)
	}
	return w
}
