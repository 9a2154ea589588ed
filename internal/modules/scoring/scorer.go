// README: Multi-criteria scorer; adjusts durations, computes sub-scores, weighted score, CO2 and presentation hints.
package scoring

import (
	"math"
	"slices"

	"routebee/internal/modules/itinerary"
	"routebee/internal/modules/pricing"
	"routebee/internal/modules/transit"
	"routebee/internal/types"
)

var tierValue = map[itinerary.Comfort]float64{
	itinerary.ComfortHigh:   0.9,
	itinerary.ComfortMedium: 0.6,
	itinerary.ComfortLow:    0.3,
}

// emissionGramsPerKm by mode; unknown modes use defaultEmission.
var emissionGramsPerKm = map[itinerary.Mode]float64{
	itinerary.ModeWalk:      0,
	itinerary.ModeBike:      0,
	itinerary.ModeEBike:     5,
	itinerary.ModeSubway:    30,
	itinerary.ModeBus:       70,
	itinerary.ModeFerry:     120,
	itinerary.ModeShared:    90,
	itinerary.ModeTaxi:      150,
	itinerary.ModeRideshare: 150,
}

const defaultEmission = 100.0

// SubScores are each in [0,1], higher is better.
type SubScores struct {
	Time     float64 `json:"time"`
	Cost     float64 `json:"cost"`
	Comfort  float64 `json:"comfort"`
	Transfer float64 `json:"transfer"`
}

// Scored is an immutable scored candidate. Candidate.Segments is a copy
// carrying AdjustedDuration.
type Scored struct {
	itinerary.Candidate

	AdjustedDuration float64
	Breakdown        pricing.CostBreakdown
	Sub              SubScores
	Weights          Weights
	Raw              float64
	Score            int
	CO2Grams         int
	SegmentScores    []int
	Color            string
}

func (s Scored) TotalCost() types.Money {
	return s.Breakdown.Total
}

type Scorer struct {
	params Params
}

func NewScorer(p Params) (*Scorer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{params: p}, nil
}

func (s *Scorer) Params() Params {
	return s.params
}

// Score is pure: the same inputs always give the same result.
func (s *Scorer) Score(c itinerary.Candidate, pref itinerary.Preference, tc transit.Context) Scored {
	pref = pref.WithDefaults()
	traffic := math.Max(1, tc.AvgTraffic())
	topology := clamp(tc.AvgTopology(), 0, 1)

	segs := slices.Clone(c.Segments)
	segScores := make([]int, len(segs))
	var adjusted float64
	for i := range segs {
		segs[i].AdjustedDuration = segs[i].Duration * multiplier(segs[i].Mode, traffic, topology)
		adjusted += segs[i].AdjustedDuration
		segScores[i] = segmentScore(segs[i].Mode, traffic, topology)
	}
	c.Segments = segs

	breakdown := pricing.Breakdown(c.Cost(), c.CarCost(), tc.AvgTraffic())
	sub := SubScores{
		Time:     math.Max(0, 1-adjusted/s.params.TimeCeilingMin),
		Cost:     math.Max(0, 1-breakdown.Total.Dollars()/s.params.CostCeiling),
		Comfort:  s.comfort(c, pref, topology),
		Transfer: math.Max(0, 1-float64(c.Transfers())*s.params.TransferPenalty),
	}
	w := WeightsFor(pref)
	raw := sub.Time*w.Time + sub.Cost*w.Cost + sub.Comfort*w.Comfort + sub.Transfer*w.Transfer
	if pref.Wheelchair && !c.Accessible() {
		raw *= 1 - s.params.WheelchairPenalty
	}
	score := DisplayScore(raw)

	return Scored{
		Candidate:        c,
		AdjustedDuration: adjusted,
		Breakdown:        breakdown,
		Sub:              sub,
		Weights:          w,
		Raw:              raw,
		Score:            score,
		CO2Grams:         CO2Grams(c),
		SegmentScores:    segScores,
		Color:            ScoreColor(score),
	}
}

// ScoreAll scores every candidate in order.
func (s *Scorer) ScoreAll(cands []itinerary.Candidate, pref itinerary.Preference, tc transit.Context) []Scored {
	out := make([]Scored, len(cands))
	for i, c := range cands {
		out[i] = s.Score(c, pref, tc)
	}
	return out
}

func (s *Scorer) comfort(c itinerary.Candidate, pref itinerary.Preference, topology float64) float64 {
	v := tierValue[c.Comfort]
	if pref.Bags > 0 {
		v = math.Max(s.params.ComfortFloor, v-float64(pref.Bags)*s.params.BagPenalty)
	}
	if c.HasActiveSegment() {
		v = math.Max(s.params.ComfortFloor, v-topology)
	}
	return v
}

// multiplier slows road modes by traffic and active modes by terrain.
func multiplier(m itinerary.Mode, traffic, topology float64) float64 {
	switch {
	case m.RoadBased():
		return traffic
	case m.Active():
		return 1 + topology
	}
	return 1
}

func segmentScore(m itinerary.Mode, traffic, topology float64) int {
	hills := int(math.Floor(topology * 10))
	switch {
	case m == itinerary.ModeWalk:
		return max(3, 7-hills)
	case m == itinerary.ModeBike || m == itinerary.ModeEBike:
		return max(2, 6-hills)
	case m.RoadBased():
		return max(2, 9-int(math.Floor((traffic-1)*10)))
	}
	return 7
}

// DisplayScore maps a raw score to the 0-10 integer scale.
func DisplayScore(raw float64) int {
	return int(clamp(math.Round(raw*10), 0, 10))
}

// ScoreColor grades a display score from red to green.
func ScoreColor(score int) string {
	switch {
	case score <= 3:
		return "#ef4444"
	case score <= 5:
		return "#f59e0b"
	case score <= 7:
		return "#facc15"
	case score <= 9:
		return "#65a30d"
	}
	return "#16a34a"
}

// CO2Grams sums per-mode emission factors over straight-line segment km.
func CO2Grams(c itinerary.Candidate) int {
	var g float64
	for _, seg := range c.Segments {
		f, ok := emissionGramsPerKm[seg.Mode]
		if !ok {
			f = defaultEmission
		}
		g += f * seg.DistanceKm()
	}
	return int(math.Round(g))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
