// README: Location resolver maps free-text place names to a coordinate and area; never fails.
package location

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"routebee/internal/geo"
	"routebee/internal/types"
)

type Resolver struct {
	entries []entry
}

func NewResolver() *Resolver {
	return &Resolver{entries: curated}
}

// Resolve runs the matching steps in order: exact name, longest contained
// name, neighborhood token, borough keyword with a street number, and
// finally a sampled coordinate. Borough-level matches on inputs that carry a
// street number are jittered so distinct addresses do not collapse onto one
// point. rng is only consulted by the jitter and fallback steps.
func (r *Resolver) Resolve(name string, rng *rand.Rand) Location {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	numbered := hasDigit(lower)

	if e, ok := r.exact(lower); ok {
		return Location{Name: name, Point: e.point, Area: e.area, Source: SourceExact}
	}
	if e, ok := r.longestContained(lower); ok {
		if e.kind == kindBorough && numbered {
			return r.address(name, e.area, rng)
		}
		return Location{Name: name, Point: e.point, Area: e.area, Source: SourceSubstring}
	}
	for _, n := range neighborhoods {
		if containsWord(lower, n.token) {
			if numbered {
				return r.address(name, n.borough, rng)
			}
			return Location{Name: name, Point: r.boroughPoint(n.borough), Area: n.borough, Source: SourceNeighborhood}
		}
	}
	if numbered {
		for _, k := range boroughKeywords {
			if containsWord(lower, k.token) {
				return r.address(name, k.borough, rng)
			}
		}
	}
	return r.fallback(name, rng)
}

func (r *Resolver) exact(lower string) (entry, bool) {
	for _, e := range r.entries {
		if strings.ToLower(e.name) == lower {
			return e, true
		}
	}
	return entry{}, false
}

// longestContained matches table names on word boundaries so short aliases
// such as "lga" or "nyu" do not fire inside unrelated words.
func (r *Resolver) longestContained(lower string) (entry, bool) {
	var best entry
	found := false
	for _, e := range r.entries {
		n := strings.ToLower(e.name)
		if containsWord(lower, n) && (!found || len(n) > len(best.name)) {
			best, found = e, true
		}
	}
	return best, found
}

func (r *Resolver) boroughPoint(b Area) types.Point {
	for _, e := range r.entries {
		if e.kind == kindBorough && e.area == b {
			return e.point
		}
	}
	return r.entries[0].point
}

func (r *Resolver) address(name string, b Area, rng *rand.Rand) Location {
	base := r.boroughPoint(b)
	return Location{
		Name: name,
		Point: types.Point{
			Lat: base.Lat + (rng.Float64()*2-1)*addressJitterDeg,
			Lng: base.Lng + (rng.Float64()*2-1)*addressJitterDeg,
		},
		Area:   b,
		Source: SourceAddress,
	}
}

func (r *Resolver) fallback(name string, rng *rand.Rand) Location {
	b := metroBox
	if rng.Float64() < coreWeight {
		b = coreBox
	}
	p := types.Point{
		Lat: b.minLat + rng.Float64()*(b.maxLat-b.minLat),
		Lng: b.minLng + rng.Float64()*(b.maxLng-b.minLng),
	}
	return Location{Name: name, Point: p, Area: r.nearestBorough(p), Source: SourceFallback}
}

func (r *Resolver) nearestBorough(p types.Point) Area {
	var boroughs []entry
	for _, e := range r.entries {
		if e.kind == kindBorough {
			boroughs = append(boroughs, e)
		}
	}
	geo.SortByDistance(boroughs, func(e entry) float64 { return geo.HaversineKm(e.point, p) })
	return boroughs[0].area
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// containsWord reports whether token occurs in s delimited by non-letters.
func containsWord(s, token string) bool {
	for from := 0; from < len(s); {
		i := strings.Index(s[from:], token)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(token)
		if !letterAt(s, start-1) && !letterAt(s, end) {
			return true
		}
		from = start + 1
	}
	return false
}

func letterAt(s string, i int) bool {
	return i >= 0 && i < len(s) && unicode.IsLetter(rune(s[i]))
}
