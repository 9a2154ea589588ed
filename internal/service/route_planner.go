// README: RoutePlanner orchestrates resolve -> transit -> generate -> synthesize -> score -> rank for one request.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"routebee/internal/geo"
	"routebee/internal/logging"
	"routebee/internal/modules/itinerary"
	"routebee/internal/modules/location"
	"routebee/internal/modules/pathsynth"
	"routebee/internal/modules/ranking"
	"routebee/internal/modules/scoring"
	"routebee/internal/modules/transit"
	"routebee/internal/observability"
)

var (
	// ErrBadRequest maps to 400.
	ErrBadRequest = errors.New("bad request")
	// ErrNoCandidates maps to 404.
	ErrNoCandidates = errors.New("no routes match the request")
)

// TransitSource is satisfied by *transit.Service.
type TransitSource interface {
	Context(ctx context.Context, origin, dest location.Area) transit.Context
}

type CandidateObserver interface {
	ObserveCandidates(n int)
}

type Request struct {
	From       string
	To         string
	Preference itinerary.Preference
}

// Deps are the planner's collaborators. Tracer, Log, Metrics and NewRand
// are optional.
type Deps struct {
	Resolver  *location.Resolver
	Transit   TransitSource
	Generator *itinerary.Generator
	Paths     *pathsynth.Registry
	Scorer    *scoring.Scorer
	Ranker    *ranking.Ranker
	Tracer    trace.Tracer
	Log       *zap.Logger
	Metrics   CandidateObserver
	NewRand   func() *rand.Rand
}

type RoutePlanner struct {
	resolver  *location.Resolver
	transit   TransitSource
	generator *itinerary.Generator
	paths     *pathsynth.Registry
	scorer    *scoring.Scorer
	ranker    *ranking.Ranker
	tracer    trace.Tracer
	log       *zap.Logger
	metrics   CandidateObserver
	newRand   func() *rand.Rand
}

func NewRoutePlanner(d Deps) *RoutePlanner {
	p := &RoutePlanner{
		resolver:  d.Resolver,
		transit:   d.Transit,
		generator: d.Generator,
		paths:     d.Paths,
		scorer:    d.Scorer,
		ranker:    d.Ranker,
		tracer:    d.Tracer,
		log:       d.Log,
		metrics:   d.Metrics,
		newRand:   d.NewRand,
	}
	if p.tracer == nil {
		p.tracer = observability.Tracer()
	}
	if p.log == nil {
		p.log = logging.Nop()
	}
	if p.newRand == nil {
		p.newRand = SeededRand(0)
	}
	return p
}

// SeededRand returns a per-request source factory. A zero seed draws a fresh
// seed for every request; any other seed makes every request identical.
func SeededRand(seed uint64) func() *rand.Rand {
	if seed == 0 {
		return func() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) }
	}
	return func() *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

func validate(req Request) error {
	if strings.TrimSpace(req.From) == "" || strings.TrimSpace(req.To) == "" {
		return fmt.Errorf("%w: from and to are required", ErrBadRequest)
	}
	pref := req.Preference
	switch pref.Priority {
	case "", itinerary.PrioritySpeed, itinerary.PriorityCost, itinerary.PriorityComfort, itinerary.PriorityBalanced:
	default:
		return fmt.Errorf("%w: unknown priority %q", ErrBadRequest, pref.Priority)
	}
	for name, s := range map[string]itinerary.Sensitivity{"noise": pref.Noise, "safety": pref.Safety} {
		switch s {
		case "", itinerary.SensitivityLow, itinerary.SensitivityModerate, itinerary.SensitivityHigh:
		default:
			return fmt.Errorf("%w: unknown %s level %q", ErrBadRequest, name, s)
		}
	}
	if pref.Bags < 0 {
		return fmt.Errorf("%w: bags must be non-negative", ErrBadRequest)
	}
	return nil
}

// Plan runs the whole pipeline. Only ErrBadRequest and ErrNoCandidates are
// expected failures; anything else is internal.
func (p *RoutePlanner) Plan(ctx context.Context, req Request) (Plan, error) {
	ctx, span := p.tracer.Start(ctx, "planner.Plan")
	defer span.End()

	plan, err := p.plan(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Plan{}, err
	}
	span.SetAttributes(attribute.Int("routes", len(plan.Routes)))
	return plan, nil
}

func (p *RoutePlanner) plan(ctx context.Context, req Request) (Plan, error) {
	if err := validate(req); err != nil {
		return Plan{}, err
	}
	log := logging.FromContext(ctx, p.log)
	pref := req.Preference.WithDefaults()
	rng := p.newRand()

	_, span := p.tracer.Start(ctx, "planner.resolve")
	origin := p.resolver.Resolve(req.From, rng)
	dest := p.resolver.Resolve(req.To, rng)
	span.SetAttributes(
		attribute.String("origin.area", string(origin.Area)),
		attribute.String("destination.area", string(dest.Area)),
	)
	span.End()
	for _, l := range []location.Location{origin, dest} {
		if l.Source == location.SourceFallback {
			log.Warn("location not recognised; using sampled coordinate",
				zap.String("name", l.Name), zap.String("area", string(l.Area)))
		}
	}

	tctx, span := p.tracer.Start(ctx, "planner.transit")
	tc := p.transit.Context(tctx, origin.Area, dest.Area)
	span.SetAttributes(attribute.Bool("degraded", tc.Degraded))
	span.End()

	trip := itinerary.Trip{
		Origin:      origin,
		Destination: dest,
		Miles:       geo.HaversineMiles(origin.Point, dest.Point),
		Context:     tc,
		Preference:  pref,
	}

	_, span = p.tracer.Start(ctx, "planner.generate")
	gen, err := p.generator.Generate(trip)
	span.SetAttributes(attribute.Int("candidates", len(gen.Candidates)))
	span.End()
	if err != nil {
		return Plan{}, fmt.Errorf("generate candidates: %w", err)
	}
	if p.metrics != nil {
		p.metrics.ObserveCandidates(len(gen.Candidates))
	}

	env := pathsynth.Env{Boroughs: []location.Area{origin.Area, dest.Area}, Rng: rng}
	_, span = p.tracer.Start(ctx, "planner.synthesize")
	paths := make(map[string][]pathsynth.Path, len(gen.Candidates))
	for _, c := range gen.Candidates {
		paths[c.ID] = p.paths.SynthesizeAll(c, env)
	}
	span.End()

	_, span = p.tracer.Start(ctx, "planner.score")
	scored := p.scorer.ScoreAll(gen.Candidates, pref, tc)
	span.End()

	_, span = p.tracer.Start(ctx, "planner.rank")
	routes, err := p.ranker.Rank(ranking.Input{
		Scored:     scored,
		Preference: pref,
		AvgTraffic: tc.AvgTraffic(),
		Accessible: func() (scoring.Scored, error) {
			c, err := p.generator.AccessibleCandidate(trip)
			if err != nil {
				return scoring.Scored{}, err
			}
			return p.scorer.Score(c, pref, tc), nil
		},
	})
	span.End()
	if errors.Is(err, ranking.ErrEmpty) {
		return Plan{}, fmt.Errorf("%w: no itinerary satisfies the requested constraints", ErrNoCandidates)
	}
	if err != nil {
		return Plan{}, fmt.Errorf("rank candidates: %w", err)
	}

	views := make([]RouteView, len(routes))
	for i, r := range routes {
		ps, ok := paths[r.ID]
		if !ok {
			ps = p.paths.SynthesizeAll(r.Candidate, env)
		}
		views[i] = newRouteView(r, ps, tc.AvgTopology())
	}

	log.Debug("planned routes",
		zap.String("from", origin.Name), zap.String("to", dest.Name),
		zap.Float64("miles", trip.Miles), zap.Int("routes", len(views)), zap.Bool("degraded", tc.Degraded))

	return Plan{
		Routes:           views,
		Distance:         round2(trip.Miles),
		From:             origin,
		To:               dest,
		FromCoords:       origin.Point,
		ToCoords:         dest.Point,
		Traffic:          Factors{Origin: tc.Origin.Traffic, Destination: tc.Destination.Traffic, Average: tc.AvgTraffic()},
		Topology:         Factors{Origin: tc.Origin.Topology, Destination: tc.Destination.Topology, Average: tc.AvgTopology()},
		SubwayAvailable:  gen.SubwayAvailable,
		TransferRequired: gen.TransferRequired,
		Degraded:         tc.Degraded,
	}, nil
}
