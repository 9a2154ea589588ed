package itinerary

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"routebee/internal/geo"
	"routebee/internal/modules/location"
	"routebee/internal/modules/pricing"
	"routebee/internal/modules/transit"
	"routebee/internal/types"
)

type statusProvider struct {
	*transit.StaticProvider
	overrides []transit.LineStatus
}

func (p statusProvider) LineStatus(ctx context.Context) ([]transit.LineStatus, error) {
	base, err := p.StaticProvider.LineStatus(ctx)
	if err != nil {
		return nil, err
	}
	return append(base, p.overrides...), nil
}

func newTrip(t *testing.T, from, to string, pref Preference, overrides ...transit.LineStatus) Trip {
	t.Helper()
	rng := rand.New(rand.NewPCG(1, 2))
	res := location.NewResolver()
	o := res.Resolve(from, rng)
	d := res.Resolve(to, rng)

	cat := transit.DefaultCatalog()
	provider := statusProvider{StaticProvider: transit.NewStaticProvider(cat), overrides: overrides}
	svc := transit.NewService(provider, cat, time.Second, nil, nil)
	return Trip{
		Origin:      o,
		Destination: d,
		Miles:       geo.HaversineMiles(o.Point, d.Point),
		Context:     svc.Context(context.Background(), o.Area, d.Area),
		Preference:  pref.WithDefaults(),
	}
}

func newGenerator() *Generator {
	return NewGenerator(pricing.NewService(pricing.DefaultRates()))
}

func byKind(cands []Candidate, k Kind) (Candidate, bool) {
	for _, c := range cands {
		if c.Kind == k {
			return c, true
		}
	}
	return Candidate{}, false
}

func TestGenerate_CandidatesAreWellFormed(t *testing.T) {
	pairs := [][2]string{
		{"Flushing", "Times Square"},
		{"Times Square", "Central Park"},
		{"Staten Island", "Manhattan"},
		{"Queens", "Bronx"},
		{"Brooklyn", "Bronx"},
		{"JFK Airport", "LaGuardia Airport"},
		{"Coney Island", "Yankee Stadium"},
		{"Times Square", "Times Square"},
		{"123 Nowhere Lane", "456 Elsewhere Road"},
	}
	g := newGenerator()
	for _, p := range pairs {
		t.Run(p[0]+" to "+p[1], func(t *testing.T) {
			trip := newTrip(t, p[0], p[1], Preference{})
			res, err := g.Generate(trip)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if len(res.Candidates) < MinCandidates {
				t.Fatalf("got %d candidates, want at least %d", len(res.Candidates), MinCandidates)
			}
			ids := map[string]bool{}
			for _, c := range res.Candidates {
				if !c.Contiguous() {
					t.Errorf("%s is not contiguous", c.Name)
				}
				if c.Segments[0].From.Name != trip.Origin.Name {
					t.Errorf("%s starts at %q", c.Name, c.Segments[0].From.Name)
				}
				if last := c.Segments[len(c.Segments)-1]; last.To.Name != trip.Destination.Name {
					t.Errorf("%s ends at %q", c.Name, last.To.Name)
				}
				for _, s := range c.Segments {
					if s.Duration <= 0 || s.Cost.Amount < 0 {
						t.Errorf("%s has invalid segment %+v", c.Name, s)
					}
				}
				if c.ID == "" || ids[c.ID] {
					t.Errorf("%s has empty or duplicate id %q", c.Name, c.ID)
				}
				ids[c.ID] = true
			}
		})
	}
}

func TestGenerate_DirectSubwayAndLongTripMixes(t *testing.T) {
	res, err := newGenerator().Generate(newTrip(t, "Flushing", "Times Square", Preference{Priority: PrioritySpeed}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.SubwayAvailable || res.TransferRequired {
		t.Fatalf("flags: available=%v transfer=%v", res.SubwayAvailable, res.TransferRequired)
	}
	sub, ok := byKind(res.Candidates, KindSubway)
	if !ok {
		t.Fatal("expected a direct subway candidate")
	}
	if sub.Name != "7 Train" {
		t.Errorf("subway name = %q", sub.Name)
	}
	for _, k := range []Kind{KindSubwayLastMile, KindBikeSubway, KindExpressBus, KindFerry, KindEBike} {
		if _, ok := byKind(res.Candidates, k); !ok {
			t.Errorf("missing %s candidate", k)
		}
	}
	if _, ok := byKind(res.Candidates, KindBike); ok {
		t.Error("classic bike is limited to short trips")
	}
}

func TestGenerate_StatenIslandUsesExpressAndFerry(t *testing.T) {
	res, err := newGenerator().Generate(newTrip(t, "Staten Island", "Manhattan", Preference{}))
	if err != nil {
		t.Fatal(err)
	}
	if !res.TransferRequired {
		t.Error("SIR does not reach Manhattan; a transfer is required")
	}
	exp, ok := byKind(res.Candidates, KindExpressBus)
	if !ok || exp.Name != "SIM1 Express Bus" {
		t.Fatalf("express candidate = %+v, %v", exp.Name, ok)
	}
	ferry, ok := byKind(res.Candidates, KindFerry)
	if !ok {
		t.Fatal("expected a ferry candidate")
	}
	if !ferry.HasMode(ModeFerry) {
		t.Error("ferry candidate without a ferry leg")
	}
	if _, ok := byKind(res.Candidates, KindBus); ok {
		t.Error("plain local bus should not be offered across boroughs with express or ferry service")
	}
	if _, ok := byKind(res.Candidates, KindEBike); ok {
		t.Error("e-bike is limited to trips under 10 miles")
	}
}

func TestGenerate_BusToSubwayWhenBoroughsShareNothing(t *testing.T) {
	res, err := newGenerator().Generate(newTrip(t, "Queens", "Bronx", Preference{}))
	if err != nil {
		t.Fatal(err)
	}
	c, ok := byKind(res.Candidates, KindBusSubway)
	if !ok {
		t.Fatal("expected bus + subway candidate")
	}
	if !c.HasMode(ModeBus) || !c.HasMode(ModeSubway) {
		t.Errorf("unexpected modes: %s", c.Signature())
	}
}

func TestGenerate_SameBoroughLocalBus(t *testing.T) {
	res, err := newGenerator().Generate(newTrip(t, "Times Square", "Central Park", Preference{}))
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []Kind{KindWalk, KindSubway, KindBus, KindEBike, KindBike, KindTaxi, KindRideshare, KindShared} {
		if _, ok := byKind(res.Candidates, k); !ok {
			t.Errorf("missing %s candidate", k)
		}
	}
	if _, ok := byKind(res.Candidates, KindSubwayLastMile); ok {
		t.Error("mixed candidates are for long trips only")
	}
}

func TestGenerate_SuspendedLineIsSkipped(t *testing.T) {
	trip := newTrip(t, "Flushing", "Times Square", Preference{},
		transit.LineStatus{Line: "7", Status: transit.StatusSuspended, Crowd: transit.CrowdLow})
	res, err := newGenerator().Generate(trip)
	if err != nil {
		t.Fatal(err)
	}
	if res.SubwayAvailable {
		t.Error("no operating line serves Flushing")
	}
	for _, c := range res.Candidates {
		for _, s := range c.Segments {
			if s.Line() == "7" {
				t.Fatalf("%s rides the suspended 7", c.Name)
			}
		}
	}
}

func TestGenerate_DelayIsAddedToSubwayLeg(t *testing.T) {
	g := newGenerator()
	base, err := g.Generate(newTrip(t, "Flushing", "Times Square", Preference{}))
	if err != nil {
		t.Fatal(err)
	}
	delayed, err := g.Generate(newTrip(t, "Flushing", "Times Square", Preference{},
		transit.LineStatus{Line: "7", Status: transit.StatusDelayed, DelayMin: 12, Crowd: transit.CrowdHigh}))
	if err != nil {
		t.Fatal(err)
	}
	a, _ := byKind(base.Candidates, KindSubway)
	b, _ := byKind(delayed.Candidates, KindSubway)
	if diff := b.Duration() - a.Duration(); diff < 11.99 || diff > 12.01 {
		t.Fatalf("delay added %.2f minutes, want 12", diff)
	}
	if b.Comfort != ComfortLow {
		t.Errorf("crowded line comfort = %s", b.Comfort)
	}
}

func TestGenerate_DeterministicIDs(t *testing.T) {
	g := newGenerator()
	a, err := g.Generate(newTrip(t, "Flushing", "Times Square", Preference{}))
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.Generate(newTrip(t, "Flushing", "Times Square", Preference{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Candidates) != len(b.Candidates) {
		t.Fatal("candidate count differs between runs")
	}
	for i := range a.Candidates {
		if a.Candidates[i].ID != b.Candidates[i].ID {
			t.Fatalf("id %d differs: %s vs %s", i, a.Candidates[i].ID, b.Candidates[i].ID)
		}
	}
}

func TestGenerate_ZeroContextFallsBackToCatalog(t *testing.T) {
	trip := newTrip(t, "Flushing", "Times Square", Preference{})
	trip.Context = transit.Context{}
	res, err := newGenerator().Generate(trip)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Candidates) < MinCandidates {
		t.Fatalf("got %d candidates", len(res.Candidates))
	}
}

func TestGenerate_PricingErrorPropagates(t *testing.T) {
	g := NewGenerator(pricing.NewService(nil))
	_, err := g.Generate(newTrip(t, "Flushing", "Times Square", Preference{}))
	if !errors.Is(err, pricing.ErrUnknownProduct) {
		t.Fatalf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestBackstop(t *testing.T) {
	g := newGenerator()
	trip := newTrip(t, "Times Square", "Central Park", Preference{})

	t.Run("empty input gets three", func(t *testing.T) {
		out, err := g.Backstop(trip, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != MinCandidates {
			t.Fatalf("got %d candidates", len(out))
		}
		want := []Kind{KindEconomy, KindPremium, KindWalk}
		for i, k := range want {
			if out[i].Kind != k {
				t.Errorf("candidate %d kind = %s, want %s", i, out[i].Kind, k)
			}
		}
	})

	t.Run("existing kinds are not repeated", func(t *testing.T) {
		res, err := g.Generate(trip)
		if err != nil {
			t.Fatal(err)
		}
		walk, _ := byKind(res.Candidates, KindWalk)
		taxi, _ := byKind(res.Candidates, KindTaxi)
		out, err := g.Backstop(trip, []Candidate{walk, taxi})
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != MinCandidates || out[2].Kind != KindEconomy {
			t.Fatalf("unexpected backstop output: %d, last=%s", len(out), out[len(out)-1].Kind)
		}
	})

	t.Run("full input untouched", func(t *testing.T) {
		res, err := g.Generate(trip)
		if err != nil {
			t.Fatal(err)
		}
		out, err := g.Backstop(trip, res.Candidates)
		if err != nil {
			t.Fatal(err)
		}
		if len(out) != len(res.Candidates) {
			t.Fatalf("backstop changed a full list: %d -> %d", len(res.Candidates), len(out))
		}
	})
}

func TestEnsureAccessible(t *testing.T) {
	g := newGenerator()
	trip := newTrip(t, "Flushing", "Times Square", Preference{Wheelchair: true})
	taxi, err := startAt(Stop{Name: trip.Origin.Name, Point: trip.Origin.Point}).
		ride(ModeTaxi, Stop{Name: trip.Destination.Name, Point: trip.Destination.Point}, 40, pricingFare(t, g), "Taxi", false).
		done(KindTaxi, "Taxi", ComfortHigh)
	if err != nil {
		t.Fatal(err)
	}

	out, err := g.EnsureAccessible(trip, []Candidate{taxi})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d candidates, want 2", len(out))
	}
	acc := out[1]
	if acc.Kind != KindAccessible || !acc.Accessible() || !acc.Contiguous() || acc.ID == "" {
		t.Fatalf("bad accessible candidate: %+v", acc)
	}

	trip.Preference.Wheelchair = false
	out, err = g.EnsureAccessible(trip, []Candidate{taxi})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatal("no accessible candidate should be added without the wheelchair flag")
	}
}

func pricingFare(t *testing.T, g *Generator) types.Money {
	t.Helper()
	q, err := g.pricing.Estimate(pricing.ProductTaxi, 8)
	if err != nil {
		t.Fatal(err)
	}
	return q.Fare
}
