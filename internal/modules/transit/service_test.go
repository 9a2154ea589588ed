package transit

import (
	"context"
	"errors"
	"math"
	"slices"
	"sync"
	"testing"
	"time"

	"routebee/internal/modules/location"
)

type recorder struct {
	mu      sync.Mutex
	reasons []string
}

func (r *recorder) TransitFallback(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reasons = append(r.reasons, reason)
}

type failingProvider struct{ err error }

func (f failingProvider) LineStatus(context.Context) ([]LineStatus, error) { return nil, f.err }
func (f failingProvider) BusRoutes(context.Context, location.Area) ([]string, error) {
	return nil, f.err
}

// blockingProvider ignores its context and never answers in time.
type blockingProvider struct{ release chan struct{} }

func (b blockingProvider) LineStatus(context.Context) ([]LineStatus, error) {
	<-b.release
	return nil, nil
}
func (b blockingProvider) BusRoutes(context.Context, location.Area) ([]string, error) {
	return nil, nil
}

type panickingProvider struct{}

func (panickingProvider) LineStatus(context.Context) ([]LineStatus, error) { panic("boom") }
func (panickingProvider) BusRoutes(context.Context, location.Area) ([]string, error) {
	return nil, nil
}

type emptyBusProvider struct{ *StaticProvider }

func (emptyBusProvider) BusRoutes(context.Context, location.Area) ([]string, error) {
	return nil, nil
}

func TestContext_FromStaticProvider(t *testing.T) {
	cat := DefaultCatalog()
	rec := &recorder{}
	svc := NewService(NewStaticProvider(cat), cat, time.Second, nil, rec)

	tc := svc.Context(context.Background(), location.Flushing, location.TimesSquare)
	if tc.Degraded {
		t.Fatal("static provider should not degrade")
	}
	if !slices.Equal(tc.Origin.SubwayLines, []string{"7"}) {
		t.Errorf("Flushing lines = %v", tc.Origin.SubwayLines)
	}
	if tc.Origin.Traffic != 1.2 || tc.Destination.Traffic != 1.6 {
		t.Errorf("traffic = %v/%v", tc.Origin.Traffic, tc.Destination.Traffic)
	}
	if got := tc.AvgTraffic(); math.Abs(got-1.4) > 1e-9 {
		t.Errorf("AvgTraffic = %v, want 1.4", got)
	}
	if st := tc.Status("E"); st.Status != StatusDelayed || st.DelayMin != 10 || st.Crowd != CrowdHigh {
		t.Errorf("E status = %+v", st)
	}
	if !tc.CrossBorough() {
		t.Error("Flushing -> Times Square is cross-borough")
	}
	if len(rec.reasons) != 0 {
		t.Errorf("unexpected fallbacks: %v", rec.reasons)
	}
}

func TestContext_ProviderErrorFallsBack(t *testing.T) {
	cat := DefaultCatalog()
	rec := &recorder{}
	svc := NewService(failingProvider{err: errors.New("db down")}, cat, time.Second, nil, rec)

	tc := svc.Context(context.Background(), location.Brooklyn, location.Manhattan)
	if !tc.Degraded {
		t.Fatal("expected degraded context")
	}
	if st := tc.Status("E"); st.Status != StatusNormal {
		t.Errorf("default status for E = %+v, want normal", st)
	}
	if tc.Origin.Traffic != 1.3 || tc.Destination.Topology != 0.2 {
		t.Errorf("catalog facts lost: %+v %+v", tc.Origin, tc.Destination)
	}
	if len(tc.Origin.BusRoutes) == 0 {
		t.Error("catalog bus routes should be used on fallback")
	}
	if !slices.Equal(rec.reasons, []string{"error"}) {
		t.Errorf("reasons = %v, want [error]", rec.reasons)
	}
}

func TestContext_TimeoutIsBounded(t *testing.T) {
	cat := DefaultCatalog()
	rec := &recorder{}
	release := make(chan struct{})
	defer close(release)
	svc := NewService(blockingProvider{release: release}, cat, 20*time.Millisecond, nil, rec)

	start := time.Now()
	tc := svc.Context(context.Background(), location.Queens, location.Bronx)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Context blocked for %v", elapsed)
	}
	if !tc.Degraded {
		t.Error("expected degraded context after timeout")
	}
	if !slices.Equal(rec.reasons, []string{"timeout"}) {
		t.Errorf("reasons = %v, want [timeout]", rec.reasons)
	}
}

func TestContext_ProviderPanicIsRecovered(t *testing.T) {
	cat := DefaultCatalog()
	svc := NewService(panickingProvider{}, cat, time.Second, nil, nil)
	if tc := svc.Context(context.Background(), location.Queens, location.Bronx); !tc.Degraded {
		t.Error("expected degraded context after provider panic")
	}
}

func TestContext_EmptyBusRoutesKeepCatalog(t *testing.T) {
	cat := DefaultCatalog()
	rec := &recorder{}
	svc := NewService(emptyBusProvider{NewStaticProvider(cat)}, cat, time.Second, nil, rec)

	tc := svc.Context(context.Background(), location.Bayside, location.Bronx)
	if !slices.Equal(tc.Origin.BusRoutes, cat.BusRoutes(location.Bayside)) {
		t.Errorf("origin bus routes = %v", tc.Origin.BusRoutes)
	}
	if len(rec.reasons) != 2 {
		t.Errorf("reasons = %v, want two empty_bus_routes", rec.reasons)
	}
}

func TestCatalog_Fallbacks(t *testing.T) {
	cat := DefaultCatalog()
	if lines := cat.SubwayLines(location.Bayside); !slices.Contains(lines, "7") {
		t.Errorf("Bayside should inherit Queens lines, got %v", lines)
	}
	if lines := cat.SubwayLines(location.LaGuardia); len(lines) != 0 {
		t.Errorf("LaGuardia has no subway, got %v", lines)
	}
	if got := cat.Traffic(location.YankeeStadium); got != 1.25 {
		t.Errorf("Yankee Stadium traffic = %v, want Bronx 1.25", got)
	}
	if got := cat.Traffic(location.Area("Hoboken")); got != DefaultTraffic {
		t.Errorf("unknown traffic = %v", got)
	}
	if got := cat.Topology(location.Area("Hoboken")); got != DefaultTopology {
		t.Errorf("unknown topology = %v", got)
	}
	if exp := cat.ExpressBuses(location.Manhattan, location.StatenIsland); len(exp) == 0 || exp[0] != "SIM1" {
		t.Errorf("express buses = %v", exp)
	}
	if _, ok := cat.Ferry(location.Flushing, location.TimesSquare); !ok {
		t.Error("Queens-Manhattan ferry should be found through parent boroughs")
	}
	if _, ok := cat.Ferry(location.Bronx, location.Brooklyn); ok {
		t.Error("no Bronx-Brooklyn ferry expected")
	}
	if _, ok := cat.Shape("7"); !ok {
		t.Error("7 shape missing")
	}
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	cat := DefaultCatalog()
	lines := cat.SubwayLines(location.Flushing)
	lines[0] = "X"
	if cat.SubwayLines(location.Flushing)[0] != "7" {
		t.Error("catalog mutated through returned slice")
	}
}
