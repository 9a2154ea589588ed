package pathsynth

import (
	"math"
	"slices"

	"routebee/internal/geo"
	"routebee/internal/modules/itinerary"
	"routebee/internal/types"
)

const (
	// MinFallbackPoints is the fewest points a fallback curve emits.
	MinFallbackPoints = 20
	// StreetSnapKm bounds how far a point may be projected onto a street.
	StreetSnapKm = 0.5

	connectorSteps = 3
	maxCurvePoints = 64
)

// densify returns steps+1 evenly spaced points from a to b inclusive.
func densify(a, b types.Point, steps int) []types.Point {
	out := make([]types.Point, steps+1)
	for i := 0; i <= steps; i++ {
		out[i] = geo.Lerp(a, b, float64(i)/float64(steps))
	}
	return out
}

// curveStrategy bends a quadratic Bezier off the straight line by factor
// times the segment length. Longer segments get more samples.
type curveStrategy struct {
	factor    float64
	minPoints int
}

func (s curveStrategy) Path(seg itinerary.Segment, _ Env) []types.Point {
	a, b := seg.From.Point, seg.To.Point
	n := min(max(s.minPoints, int(geo.HaversineKm(a, b)*5)+2), maxCurvePoints)
	return geo.QuadraticBezier(a, geo.OffsetControl(a, b, s.factor), b, n)
}

// lineStrategy follows the curated shape of the segment's line between the
// vertices nearest its ends, with short connectors to the true ends.
type lineStrategy struct {
	shapes   ShapeSource
	fallback Strategy
}

func (s lineStrategy) Path(seg itinerary.Segment, env Env) []types.Point {
	shape, ok := s.shapes.Shape(seg.Line())
	if !ok || len(shape) < 2 {
		return s.fallback.Path(seg, env)
	}
	i := geo.NearestIndex(shape, seg.From.Point)
	j := geo.NearestIndex(shape, seg.To.Point)
	part := slices.Clone(shape[min(i, j) : max(i, j)+1])
	if i > j {
		slices.Reverse(part)
	}

	out := densify(seg.From.Point, part[0], connectorSteps)
	out = append(out, part[1:]...)
	out = append(out, densify(part[len(part)-1], seg.To.Point, connectorSteps)[1:]...)
	return out
}

// streetStrategy snaps both ends onto the nearest reference street of the
// trip's boroughs and walks the grid between them. smooth > 0 runs a
// Catmull-Rom pass with that many samples per span.
type streetStrategy struct {
	streets Streets
	snapKm  float64
	smooth  int
}

func (s streetStrategy) Path(seg itinerary.Segment, env Env) []types.Point {
	from, to := seg.From.Point, seg.To.Point
	streets := s.streets.For(env.Boroughs)
	ps, streetA, okA := project(from, streets, s.snapKm)
	pe, streetB, okB := project(to, streets, s.snapKm)

	pts := []types.Point{from}
	if okA {
		pts = append(pts, ps)
	}
	switch {
	case okA && okB && streetA != streetB:
		// turn the corner between the two streets
		pts = append(pts, types.Point{Lat: pe.Lat, Lng: ps.Lng}, pe)
	case okB:
		pts = append(pts, pe)
	}
	pts = append(pts, to)

	if len(pts) == 2 {
		pts = densify(from, to, 6)
	}
	if s.smooth > 0 {
		pts = geo.CatmullRom(pts, s.smooth)
	}
	return pts
}

// project finds the closest point on any street. ok is false when nothing
// lies within limitKm.
func project(p types.Point, streets []Street, limitKm float64) (types.Point, string, bool) {
	best, bestKm, name := p, math.Inf(1), ""
	for _, st := range streets {
		for i := 1; i < len(st.Points); i++ {
			q, km := geo.ProjectOnSegment(p, st.Points[i-1], st.Points[i])
			if km < bestKm {
				best, bestKm, name = q, km, st.Name
			}
		}
	}
	if bestKm > limitKm {
		return p, "", false
	}
	return best, name, true
}

// cycleStrategy alternates a direct step with a grid-following step, the
// way riders cut across blocks.
type cycleStrategy struct {
	steps    int
	noiseDeg float64
}

func (s cycleStrategy) Path(seg itinerary.Segment, env Env) []types.Point {
	from, to := seg.From.Point, seg.To.Point
	out := []types.Point{from}
	prev := from
	for k := 1; k < s.steps; k++ {
		base := geo.Lerp(from, to, float64(k)/float64(s.steps))
		if env.Rng != nil && s.noiseDeg > 0 {
			base.Lat += (env.Rng.Float64()*2 - 1) * s.noiseDeg
			base.Lng += (env.Rng.Float64()*2 - 1) * s.noiseDeg
		}
		if k%2 == 0 {
			out = append(out, types.Point{Lat: base.Lat, Lng: prev.Lng})
		}
		out = append(out, base)
		prev = base
	}
	return append(out, to)
}
