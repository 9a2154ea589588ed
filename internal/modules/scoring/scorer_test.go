package scoring

import (
	"errors"
	"math"
	"testing"

	"routebee/internal/modules/itinerary"
	"routebee/internal/modules/transit"
	"routebee/internal/types"
)

var (
	a = itinerary.Stop{Name: "A", Point: types.Point{Lat: 40.7580, Lng: -73.9855}}
	b = itinerary.Stop{Name: "B", Point: types.Point{Lat: 40.7654, Lng: -73.8318}}
	c = itinerary.Stop{Name: "C", Point: types.Point{Lat: 40.7829, Lng: -73.9654}}
)

func approx(x, y float64) bool { return math.Abs(x-y) < 1e-9 }

func ctx(traffic, topology float64) transit.Context {
	return transit.Context{
		Origin:      transit.AreaFacts{Traffic: traffic, Topology: topology},
		Destination: transit.AreaFacts{Traffic: traffic, Topology: topology},
	}
}

// must unwraps constructor results in fixtures; a construction error is a
// broken fixture, not a test outcome.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func newScorer(t *testing.T) *Scorer {
	t.Helper()
	s, err := NewScorer(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func walkCandidate(t *testing.T, minutes float64) itinerary.Candidate {
	return itinerary.Candidate{
		ID: "walk", Kind: itinerary.KindWalk, Comfort: itinerary.ComfortMedium,
		Segments: []itinerary.Segment{must(itinerary.NewWalk(a, c, minutes))},
	}
}

func taxiCandidate(t *testing.T, minutes float64, dollars float64) itinerary.Candidate {
	return itinerary.Candidate{
		ID: "taxi", Kind: itinerary.KindTaxi, Comfort: itinerary.ComfortHigh,
		Segments: []itinerary.Segment{must(itinerary.NewRide(itinerary.ModeTaxi, a, b, minutes, types.USD(dollars), "Taxi", false))},
	}
}

func TestWeightsFor(t *testing.T) {
	cases := []struct {
		name string
		pref itinerary.Preference
		want Weights
	}{
		{"balanced", itinerary.Preference{Priority: itinerary.PriorityBalanced}, Weights{0.40, 0.35, 0.15, 0.10}},
		{"speed", itinerary.Preference{Priority: itinerary.PrioritySpeed}, Weights{0.60, 0.20, 0.10, 0.10}},
		{"cost", itinerary.Preference{Priority: itinerary.PriorityCost}, Weights{0.20, 0.60, 0.10, 0.10}},
		{"comfort", itinerary.Preference{Priority: itinerary.PriorityComfort}, Weights{0.20, 0.20, 0.45, 0.15}},
		{"unknown falls back to balanced", itinerary.Preference{Priority: "teleport"}, Weights{0.40, 0.35, 0.15, 0.10}},
		{"noise shifts proportionally", itinerary.Preference{Priority: itinerary.PrioritySpeed, Noise: itinerary.SensitivityHigh},
			Weights{0.60 - 0.10*0.60/0.90, 0.20 - 0.10*0.20/0.90, 0.20, 0.10 - 0.10*0.10/0.90}},
		{"safety", itinerary.Preference{Priority: itinerary.PriorityBalanced, Safety: itinerary.SensitivityHigh},
			Weights{0.35, 0.30, 0.20, 0.15}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeightsFor(tc.pref)
			if !approx(got.Time, tc.want.Time) || !approx(got.Cost, tc.want.Cost) ||
				!approx(got.Comfort, tc.want.Comfort) || !approx(got.Transfer, tc.want.Transfer) {
				t.Fatalf("WeightsFor = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestWeightsFor_NoiseKeepsSum(t *testing.T) {
	base := WeightsFor(itinerary.Preference{Priority: itinerary.PriorityComfort})
	noisy := WeightsFor(itinerary.Preference{Priority: itinerary.PriorityComfort, Noise: itinerary.SensitivityHigh})
	if !approx(base.Sum(), noisy.Sum()) {
		t.Fatalf("noise shift changed the sum: %v -> %v", base.Sum(), noisy.Sum())
	}
}

func TestParams_Validate(t *testing.T) {
	bad := []Params{
		{TimeCeilingMin: 0, CostCeiling: 30},
		{TimeCeilingMin: 120, CostCeiling: -1},
		{TimeCeilingMin: 120, CostCeiling: 30, WheelchairPenalty: 1.5},
		{TimeCeilingMin: 120, CostCeiling: 30, BagPenalty: -0.1},
	}
	for _, p := range bad {
		if _, err := NewScorer(p); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("NewScorer(%+v) err = %v", p, err)
		}
	}
	if err := DefaultParams().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestScore_AdjustedDurations(t *testing.T) {
	s := newScorer(t)
	sub := must(itinerary.NewTransit(itinerary.ModeSubway, a, b, 20, types.USD(2.75), itinerary.TransitInfo{Line: "7"}, true, transit.CrowdLow))
	cand := itinerary.Candidate{
		Comfort: itinerary.ComfortMedium,
		Segments: []itinerary.Segment{
			must(itinerary.NewWalk(c, a, 10)),
			sub,
			must(itinerary.NewRide(itinerary.ModeTaxi, b, c, 10, types.USD(10), "Taxi", false)),
		},
	}
	got := s.Score(cand, itinerary.Preference{}, ctx(1.5, 0.2))

	want := []float64{12, 20, 15}
	for i, seg := range got.Segments {
		if !approx(seg.AdjustedDuration, want[i]) {
			t.Errorf("segment %d adjusted = %v, want %v", i, seg.AdjustedDuration, want[i])
		}
	}
	if !approx(got.AdjustedDuration, 47) {
		t.Errorf("total adjusted = %v", got.AdjustedDuration)
	}
	if cand.Segments[0].AdjustedDuration != 0 {
		t.Error("scoring must not mutate the input candidate")
	}
	if got.SegmentScores[0] != 5 || got.SegmentScores[1] != 7 || got.SegmentScores[2] != 4 {
		t.Errorf("segment scores = %v", got.SegmentScores)
	}
}

func TestScore_CongestionFee(t *testing.T) {
	s := newScorer(t)
	calm := s.Score(taxiCandidate(t, 20, 20), itinerary.Preference{}, ctx(1.1, 0))
	busy := s.Score(taxiCandidate(t, 20, 20), itinerary.Preference{}, ctx(1.5, 0))
	if !calm.Breakdown.AdditionalFees.IsZero() {
		t.Errorf("no fee expected under light traffic, got %d", calm.Breakdown.AdditionalFees.Amount)
	}
	if busy.Breakdown.AdditionalFees.Amount != 300 || busy.TotalCost().Amount != 2300 {
		t.Errorf("breakdown = %+v", busy.Breakdown)
	}
	if busy.Sub.Cost >= calm.Sub.Cost {
		t.Error("fees should lower the cost sub-score")
	}
}

func TestScore_BagsLowerComfort(t *testing.T) {
	s := newScorer(t)
	pref := itinerary.Preference{Priority: itinerary.PriorityComfort}
	none := s.Score(walkCandidate(t, 20), pref, ctx(1.2, 0.1))
	pref.Bags = 3
	bags := s.Score(walkCandidate(t, 20), pref, ctx(1.2, 0.1))
	if bags.Sub.Comfort >= none.Sub.Comfort {
		t.Fatalf("comfort with bags %.2f >= without %.2f", bags.Sub.Comfort, none.Sub.Comfort)
	}
	if !approx(none.Sub.Comfort, 0.5) || !approx(bags.Sub.Comfort, 0.2) {
		t.Fatalf("comfort values: none=%v bags=%v", none.Sub.Comfort, bags.Sub.Comfort)
	}

	pref.Bags = 20
	floor := s.Score(walkCandidate(t, 20), pref, ctx(1.2, 0.5))
	if !approx(floor.Sub.Comfort, DefaultParams().ComfortFloor) {
		t.Fatalf("comfort floor = %v", floor.Sub.Comfort)
	}
}

func TestScore_WheelchairPenalty(t *testing.T) {
	s := newScorer(t)
	cand := taxiCandidate(t, 20, 20)
	plain := s.Score(cand, itinerary.Preference{}, ctx(1.0, 0))
	penalized := s.Score(cand, itinerary.Preference{Wheelchair: true}, ctx(1.0, 0))
	if !approx(penalized.Raw, plain.Raw*0.5) {
		t.Fatalf("raw %v, want %v", penalized.Raw, plain.Raw*0.5)
	}

	acc := walkCandidate(t, 10)
	if !approx(s.Score(acc, itinerary.Preference{Wheelchair: true}, ctx(1, 0)).Raw, s.Score(acc, itinerary.Preference{}, ctx(1, 0)).Raw) {
		t.Fatal("accessible candidates are not penalized")
	}
}

func TestScore_SpeedPrefersFaster(t *testing.T) {
	s := newScorer(t)
	pref := itinerary.Preference{Priority: itinerary.PrioritySpeed}
	fast := s.Score(taxiCandidate(t, 15, 20), pref, ctx(1.2, 0))
	slow := s.Score(taxiCandidate(t, 45, 20), pref, ctx(1.2, 0))
	if fast.Raw <= slow.Raw {
		t.Fatalf("fast %.3f <= slow %.3f", fast.Raw, slow.Raw)
	}
}

func TestScore_DisplayRange(t *testing.T) {
	s := newScorer(t)
	for _, minutes := range []float64{1, 30, 500} {
		got := s.Score(taxiCandidate(t, minutes, minutes), itinerary.Preference{}, ctx(1.5, 0.5))
		if got.Score < 0 || got.Score > 10 {
			t.Fatalf("score %d out of range", got.Score)
		}
		if got.Color != ScoreColor(got.Score) {
			t.Fatalf("color %s does not match score %d", got.Color, got.Score)
		}
	}
}

func TestDisplayScore(t *testing.T) {
	cases := map[float64]int{-0.3: 0, 0: 0, 0.44: 4, 0.46: 5, 0.99: 10, 1.7: 10}
	for raw, want := range cases {
		if got := DisplayScore(raw); got != want {
			t.Errorf("DisplayScore(%v) = %d, want %d", raw, got, want)
		}
	}
}

func TestScoreColor(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, "#ef4444"}, {3, "#ef4444"}, {4, "#f59e0b"}, {5, "#f59e0b"},
		{7, "#facc15"}, {8, "#65a30d"}, {9, "#65a30d"}, {10, "#16a34a"},
	}
	for _, tc := range cases {
		if got := ScoreColor(tc.score); got != tc.want {
			t.Errorf("ScoreColor(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestCO2Grams(t *testing.T) {
	walkBike := itinerary.Candidate{Segments: []itinerary.Segment{
		must(itinerary.NewWalk(a, c, 10)),
		must(itinerary.NewCycle(itinerary.ModeBike, c, b, 30, types.USD(3.5), "Citi Bike")),
	}}
	if got := CO2Grams(walkBike); got != 0 {
		t.Fatalf("walk/bike CO2 = %d, want 0", got)
	}

	taxi := taxiCandidate(t, 20, 20)
	km := taxi.Segments[0].DistanceKm()
	if got, want := CO2Grams(taxi), int(math.Round(150*km)); got != want {
		t.Fatalf("taxi CO2 = %d, want %d", got, want)
	}

	odd := itinerary.Candidate{Segments: []itinerary.Segment{{Mode: "hovercraft", From: a, To: b, Duration: 5}}}
	if got, want := CO2Grams(odd), int(math.Round(100*km)); got != want {
		t.Fatalf("unknown mode CO2 = %d, want %d", got, want)
	}
}
