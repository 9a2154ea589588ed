// README: Transit service builds the per-request context, bounding the provider call with a timeout and falling back to defaults.
package transit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"routebee/internal/logging"
	"routebee/internal/modules/location"
)

// FallbackRecorder is notified whenever defaults replace provider data.
type FallbackRecorder interface {
	TransitFallback(reason string)
}

type Service struct {
	provider Provider
	catalog  *Catalog
	timeout  time.Duration
	log      *zap.Logger
	metrics  FallbackRecorder
}

func NewService(provider Provider, catalog *Catalog, timeout time.Duration, log *zap.Logger, metrics FallbackRecorder) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, catalog: catalog, timeout: timeout, log: log, metrics: metrics}
}

type fetched struct {
	statuses  []LineStatus
	originBus []string
	destBus   []string
}

// Context never fails: provider errors, timeouts and empty answers are
// replaced by catalog defaults and reported through the logger and metrics.
func (s *Service) Context(ctx context.Context, origin, dest location.Area) Context {
	tc := Context{
		Origin:      s.facts(origin),
		Destination: s.facts(dest),
		catalog:     s.catalog,
	}

	f, err := s.fetch(ctx, origin, dest)
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		logging.FromContext(ctx, s.log).Warn("transit provider degraded; using defaults",
			zap.String("reason", reason), zap.Error(err))
		s.recordFallback(reason)
		tc.Degraded = true
		tc.lines = s.defaultStatuses()
		return tc
	}

	tc.lines = make(map[string]LineStatus, len(f.statuses))
	for _, st := range f.statuses {
		tc.lines[st.Line] = st
	}
	if len(f.originBus) > 0 {
		tc.Origin.BusRoutes = f.originBus
	} else if len(tc.Origin.BusRoutes) > 0 {
		s.recordFallback("empty_bus_routes")
	}
	if len(f.destBus) > 0 {
		tc.Destination.BusRoutes = f.destBus
	} else if len(tc.Destination.BusRoutes) > 0 {
		s.recordFallback("empty_bus_routes")
	}
	return tc
}

// fetch runs the provider calls under the timeout. The provider may ignore
// ctx, so the wait itself is bounded too.
func (s *Service) fetch(ctx context.Context, origin, dest location.Area) (fetched, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		f   fetched
		err error
	}
	done := make(chan result, 1)
	go func() {
		var r result
		defer func() {
			if p := recover(); p != nil {
				r = result{err: fmt.Errorf("%w: provider panic: %v", ErrUnavailable, p)}
			}
			done <- r
		}()
		statuses, err := s.provider.LineStatus(ctx)
		if err != nil {
			r.err = fmt.Errorf("%w: line status: %w", ErrUnavailable, err)
			return
		}
		ob, err := s.provider.BusRoutes(ctx, origin)
		if err != nil {
			r.err = fmt.Errorf("%w: bus routes %s: %w", ErrUnavailable, origin, err)
			return
		}
		db, err := s.provider.BusRoutes(ctx, dest)
		if err != nil {
			r.err = fmt.Errorf("%w: bus routes %s: %w", ErrUnavailable, dest, err)
			return
		}
		r.f = fetched{statuses: statuses, originBus: ob, destBus: db}
	}()

	select {
	case r := <-done:
		return r.f, r.err
	case <-ctx.Done():
		return fetched{}, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
	}
}

func (s *Service) facts(a location.Area) AreaFacts {
	return AreaFacts{
		Area:        a,
		SubwayLines: s.catalog.SubwayLines(a),
		BusRoutes:   s.catalog.BusRoutes(a),
		Traffic:     s.catalog.Traffic(a),
		Topology:    s.catalog.Topology(a),
	}
}

func (s *Service) defaultStatuses() map[string]LineStatus {
	out := map[string]LineStatus{}
	for _, l := range s.catalog.AllSubwayLines() {
		out[l] = LineStatus{Line: l, Status: StatusNormal, Crowd: CrowdMedium}
	}
	return out
}

func (s *Service) recordFallback(reason string) {
	if s.metrics != nil {
		s.metrics.TransitFallback(reason)
	}
}
