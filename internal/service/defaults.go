package service

import (
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"routebee/internal/modules/itinerary"
	"routebee/internal/modules/location"
	"routebee/internal/modules/pathsynth"
	"routebee/internal/modules/pricing"
	"routebee/internal/modules/ranking"
	"routebee/internal/modules/scoring"
	"routebee/internal/modules/transit"
	"routebee/internal/observability"
)

// Options configure NewDefaultPlanner. Zero values select the curated
// catalog, static transit data, default scoring params and local time.
type Options struct {
	Provider       transit.Provider
	TransitTimeout time.Duration
	Params         *scoring.Params
	MaxResults     int
	Location       *time.Location
	Now            func() time.Time
	Seed           uint64
	Tracer         trace.Tracer
	Log            *zap.Logger
	Metrics        *observability.Collector
}

// NewDefaultPlanner wires the built-in catalog, rate card and street grid
// into a RoutePlanner.
func NewDefaultPlanner(opts Options) (*RoutePlanner, error) {
	cat := transit.DefaultCatalog()
	provider := opts.Provider
	if provider == nil {
		provider = transit.NewStaticProvider(cat)
	}
	timeout := opts.TransitTimeout
	if timeout <= 0 {
		timeout = 800 * time.Millisecond
	}
	params := scoring.DefaultParams()
	if opts.Params != nil {
		params = *opts.Params
	}
	scorer, err := scoring.NewScorer(params)
	if err != nil {
		return nil, err
	}

	return NewRoutePlanner(Deps{
		Resolver:  location.NewResolver(),
		Transit:   transit.NewService(provider, cat, timeout, opts.Log, opts.Metrics),
		Generator: itinerary.NewGenerator(pricing.NewService(pricing.DefaultRates())),
		Paths:     pathsynth.NewRegistry(cat, pathsynth.DefaultStreets()),
		Scorer:    scorer,
		Ranker: ranking.NewRanker(ranking.Options{
			MaxResults: opts.MaxResults,
			Now:        opts.Now,
			Location:   opts.Location,
		}),
		Tracer:  opts.Tracer,
		Log:     opts.Log,
		Metrics: opts.Metrics,
		NewRand: SeededRand(opts.Seed),
	}), nil
}
