// README: Path synthesizer registry; one strategy and one style per mode, with a Bezier fallback.
package pathsynth

import (
	"math/rand/v2"

	"googlemaps.github.io/maps"

	"routebee/internal/modules/itinerary"
	"routebee/internal/modules/location"
	"routebee/internal/types"
)

// Env carries the per-request inputs a strategy may read.
type Env struct {
	// Boroughs whose reference streets are eligible for projection.
	Boroughs []location.Area
	// Rng drives path-offset noise; nil disables it.
	Rng *rand.Rand
}

// Strategy turns one segment into an ordered polyline. The registry pins
// the endpoints, so strategies may return approximate ends.
type Strategy interface {
	Path(seg itinerary.Segment, env Env) []types.Point
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(seg itinerary.Segment, env Env) []types.Point

func (f StrategyFunc) Path(seg itinerary.Segment, env Env) []types.Point {
	return f(seg, env)
}

// ShapeSource supplies reference polylines for named lines.
// *transit.Catalog satisfies it.
type ShapeSource interface {
	Shape(line string) ([]types.Point, bool)
}

type Path struct {
	Points   []types.Point `json:"points"`
	Style    Style         `json:"style"`
	Polyline string        `json:"polyline"`
}

type entry struct {
	strategy Strategy
	style    Style
}

type Registry struct {
	entries    map[itinerary.Mode]entry
	fallback   entry
	lineColors map[string]string
}

// NewRegistry wires the default strategy for every known mode.
func NewRegistry(shapes ShapeSource, streets Streets) *Registry {
	fallback := curveStrategy{factor: 0.2, minPoints: MinFallbackPoints}
	walk := streetStrategy{streets: streets, snapKm: StreetSnapKm}
	drive := streetStrategy{streets: streets, snapKm: StreetSnapKm, smooth: 4}
	line := lineStrategy{shapes: shapes, fallback: curveStrategy{factor: 0.1, minPoints: 12}}
	cycle := cycleStrategy{steps: 8, noiseDeg: 0.0002}

	r := &Registry{
		entries:    map[itinerary.Mode]entry{},
		fallback:   entry{strategy: fallback, style: defaultStyle},
		lineColors: subwayLineColors(),
	}
	r.Register(itinerary.ModeWalk, walk, modeStyles[itinerary.ModeWalk])
	r.Register(itinerary.ModeSubway, line, modeStyles[itinerary.ModeSubway])
	r.Register(itinerary.ModeBus, line, modeStyles[itinerary.ModeBus])
	r.Register(itinerary.ModeBike, cycle, modeStyles[itinerary.ModeBike])
	r.Register(itinerary.ModeEBike, cycle, modeStyles[itinerary.ModeEBike])
	r.Register(itinerary.ModeTaxi, drive, modeStyles[itinerary.ModeTaxi])
	r.Register(itinerary.ModeRideshare, drive, modeStyles[itinerary.ModeRideshare])
	r.Register(itinerary.ModeShared, drive, modeStyles[itinerary.ModeShared])
	r.Register(itinerary.ModeFerry, curveStrategy{factor: 0.15, minPoints: MinFallbackPoints}, modeStyles[itinerary.ModeFerry])
	return r
}

// Register replaces the strategy and style for a mode.
func (r *Registry) Register(mode itinerary.Mode, s Strategy, style Style) {
	r.entries[mode] = entry{strategy: s, style: style}
}

func (r *Registry) lookup(mode itinerary.Mode) entry {
	if e, ok := r.entries[mode]; ok {
		return e
	}
	return r.fallback
}

// Style returns the rendering style for a segment; subway legs take their
// line's color when one is known.
func (r *Registry) Style(seg itinerary.Segment) Style {
	st := r.lookup(seg.Mode).style
	if seg.Mode == itinerary.ModeSubway {
		if c, ok := r.lineColors[seg.Line()]; ok {
			st.Color = c
		}
	}
	return st
}

// Synthesize always returns at least two points, starting exactly at the
// segment's From point and ending exactly at its To point.
func (r *Registry) Synthesize(seg itinerary.Segment, env Env) Path {
	pts := pin(r.lookup(seg.Mode).strategy.Path(seg, env), seg.From.Point, seg.To.Point)
	return Path{
		Points:   pts,
		Style:    r.Style(seg),
		Polyline: Encode(pts),
	}
}

// SynthesizeAll returns one path per segment, in order.
func (r *Registry) SynthesizeAll(c itinerary.Candidate, env Env) []Path {
	out := make([]Path, len(c.Segments))
	for i, seg := range c.Segments {
		out[i] = r.Synthesize(seg, env)
	}
	return out
}

// Encode renders points as a Google encoded polyline.
func Encode(pts []types.Point) string {
	ll := make([]maps.LatLng, len(pts))
	for i, p := range pts {
		ll[i] = maps.LatLng{Lat: p.Lat, Lng: p.Lng}
	}
	return maps.Encode(ll)
}

// pin drops consecutive duplicates and forces the exact endpoints.
func pin(pts []types.Point, from, to types.Point) []types.Point {
	out := make([]types.Point, 0, len(pts)+2)
	out = append(out, from)
	for _, p := range pts {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	if len(out) < 2 {
		return []types.Point{from, to}
	}
	out[len(out)-1] = to
	if len(out) > 2 && out[len(out)-2] == to {
		out = out[:len(out)-1]
	}
	return out
}
