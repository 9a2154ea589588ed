// README: Immutable curated transit data: lines, routes, ferries, traffic, topology, line shapes.
package transit

import (
	"slices"

	"routebee/internal/modules/location"
	"routebee/internal/types"
)

const (
	DefaultTraffic  = 1.25
	DefaultTopology = 0.2
)

// Catalog is read-only after construction; accessors return copies.
type Catalog struct {
	subwayLines  map[location.Area][]string
	busRoutes    map[location.Area][]string
	expressBuses map[[2]location.Area][]string
	ferries      map[[2]location.Area]FerryRoute
	traffic      map[location.Area]float64
	topology     map[location.Area]float64
	accessible   map[string]bool
	shapes       map[string][]types.Point
}

func pairKey(a, b location.Area) [2]location.Area {
	a, b = a.Borough(), b.Borough()
	if a > b {
		a, b = b, a
	}
	return [2]location.Area{a, b}
}

// SubwayLines returns the lines serving an area, falling back to its
// borough when the area has no entry of its own.
func (c *Catalog) SubwayLines(a location.Area) []string {
	if lines, ok := c.subwayLines[a]; ok {
		return slices.Clone(lines)
	}
	return slices.Clone(c.subwayLines[a.Borough()])
}

func (c *Catalog) BusRoutes(a location.Area) []string {
	if routes, ok := c.busRoutes[a]; ok {
		return slices.Clone(routes)
	}
	return slices.Clone(c.busRoutes[a.Borough()])
}

func (c *Catalog) ExpressBuses(a, b location.Area) []string {
	return slices.Clone(c.expressBuses[pairKey(a, b)])
}

func (c *Catalog) Ferry(a, b location.Area) (FerryRoute, bool) {
	f, ok := c.ferries[pairKey(a, b)]
	return f, ok
}

func (c *Catalog) Traffic(a location.Area) float64 {
	if v, ok := c.traffic[a]; ok {
		return v
	}
	if v, ok := c.traffic[a.Borough()]; ok {
		return v
	}
	return DefaultTraffic
}

func (c *Catalog) Topology(a location.Area) float64 {
	if v, ok := c.topology[a]; ok {
		return v
	}
	if v, ok := c.topology[a.Borough()]; ok {
		return v
	}
	return DefaultTopology
}

func (c *Catalog) Accessible(line string) bool {
	return c.accessible[line]
}

// Shape returns the reference polyline for a subway line or bus route.
func (c *Catalog) Shape(line string) ([]types.Point, bool) {
	s, ok := c.shapes[line]
	if !ok {
		return nil, false
	}
	return slices.Clone(s), true
}

// AllSubwayLines lists every line mentioned by any area, sorted.
func (c *Catalog) AllSubwayLines() []string {
	seen := map[string]bool{}
	var out []string
	for _, lines := range c.subwayLines {
		for _, l := range lines {
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	slices.Sort(out)
	return out
}

func p(lat, lng float64) types.Point { return types.Point{Lat: lat, Lng: lng} }

// DefaultCatalog returns the curated New York City data set.
func DefaultCatalog() *Catalog {
	return &Catalog{
		subwayLines: map[location.Area][]string{
			location.Manhattan:     {"1", "2", "3", "4", "5", "6", "A", "C", "E", "B", "D", "F", "M", "N", "Q", "R", "W", "L"},
			location.Brooklyn:      {"A", "C", "G", "J", "Z", "L", "M", "N", "Q", "R", "2", "3", "4", "5"},
			location.Queens:        {"E", "F", "M", "R", "N", "W", "G", "7"},
			location.Bronx:         {"1", "2", "4", "5", "6", "B", "D"},
			location.StatenIsland:  {"SIR"},
			location.Flushing:      {"7"},
			location.MainSt:        {"7"},
			location.TimesSquare:   {"1", "2", "3", "N", "Q", "R", "W", "7", "S"},
			location.CentralPark:   {"A", "B", "C", "D", "1"},
			location.YankeeStadium: {"4", "B", "D"},
			location.JFKAirport:    {"A", "E"},
			location.LaGuardia:     {},
			location.ProspectPark:  {"B", "Q", "S"},
		},
		busRoutes: map[location.Area][]string{
			location.Manhattan:    {"M1", "M2", "M3", "M4", "M5", "M15", "M31", "M42", "M60"},
			location.Brooklyn:     {"B41", "B42", "B44", "B46", "B67", "B68", "B69"},
			location.Queens:       {"Q58", "Q59", "Q60", "Q65", "Q66", "Q44", "Q46"},
			location.Bronx:        {"BX1", "BX2", "BX9", "BX10", "BX12", "BX22"},
			location.StatenIsland: {"S40", "S44", "S46", "S48", "S51", "S53"},
			location.Flushing:     {"Q65", "Q66", "Q17", "Q27", "Q44", "Q58"},
			location.Bayside:      {"Q27", "Q31", "Q76", "Q13"},
			location.TimesSquare:  {"M42", "M104", "Q104"},
			location.JFKAirport:   {"Q3", "Q10", "B15"},
			location.LaGuardia:    {"Q70", "M60"},
		},
		expressBuses: map[[2]location.Area][]string{
			pairKey(location.Queens, location.Manhattan):       {"QM1", "QM5", "QM7", "QM8"},
			pairKey(location.Brooklyn, location.Manhattan):     {"BM1", "BM2", "BM3", "BM4"},
			pairKey(location.Bronx, location.Manhattan):        {"BxM1", "BxM2", "BxM3", "BxM4"},
			pairKey(location.StatenIsland, location.Manhattan): {"SIM1", "SIM3", "SIM4", "SIM5"},
		},
		ferries: map[[2]location.Area]FerryRoute{
			pairKey(location.StatenIsland, location.Manhattan): {
				ID: "SIF", Name: "Staten Island Ferry", Fare: 0,
				Terminals: map[location.Area]Terminal{
					location.StatenIsland: {Name: "St. George Terminal", Point: p(40.6437, -74.0736)},
					location.Manhattan:    {Name: "Whitehall Terminal", Point: p(40.7013, -74.0132)},
				},
			},
			pairKey(location.Brooklyn, location.Manhattan): {
				ID: "ER", Name: "NYC Ferry East River", Fare: 4.00,
				Terminals: map[location.Area]Terminal{
					location.Brooklyn:  {Name: "DUMBO/Fulton Ferry", Point: p(40.7037, -73.9896)},
					location.Manhattan: {Name: "Wall St/Pier 11", Point: p(40.7033, -74.0068)},
				},
			},
			pairKey(location.Queens, location.Manhattan): {
				ID: "AST", Name: "NYC Ferry Astoria", Fare: 4.00,
				Terminals: map[location.Area]Terminal{
					location.Queens:    {Name: "Astoria Ferry Landing", Point: p(40.7715, -73.9365)},
					location.Manhattan: {Name: "East 34th St Landing", Point: p(40.7432, -73.9716)},
				},
			},
		},
		traffic: map[location.Area]float64{
			location.Manhattan:    1.5,
			location.Brooklyn:     1.3,
			location.Queens:       1.2,
			location.Bronx:        1.25,
			location.StatenIsland: 1.1,
			location.Flushing:     1.2,
			location.Bayside:      1.1,
			location.TimesSquare:  1.6,
			location.CentralPark:  1.3,
		},
		topology: map[location.Area]float64{
			location.Manhattan:    0.2,
			location.Brooklyn:     0.1,
			location.Queens:       0.1,
			location.Bronx:        0.4,
			location.StatenIsland: 0.5,
			location.Flushing:     0.1,
			location.Bayside:      0.2,
			location.TimesSquare:  0.1,
			location.CentralPark:  0.3,
		},
		accessible: map[string]bool{
			"1": true, "2": true, "3": true, "7": true, "A": true, "E": true, "L": true, "SIR": true,
		},
		shapes: map[string][]types.Point{
			"1": {
				p(40.70, -73.99), p(40.707, -73.988), p(40.711, -73.987), p(40.715, -73.984),
				p(40.72, -73.98), p(40.732, -73.977), p(40.741, -73.975), p(40.75, -73.973),
				p(40.761, -73.971), p(40.771, -73.968), p(40.781, -73.966), p(40.793, -73.962),
				p(40.799, -73.959), p(40.807, -73.955), p(40.815, -73.952), p(40.824, -73.949),
				p(40.831, -73.947), p(40.838, -73.945), p(40.845, -73.943), p(40.853, -73.941),
				p(40.862, -73.939),
			},
			"7": {
				p(40.75, -73.976), p(40.751, -73.967), p(40.752, -73.959), p(40.753, -73.944),
				p(40.754, -73.932), p(40.755, -73.921), p(40.756, -73.913), p(40.757, -73.902),
				p(40.758, -73.891), p(40.759, -73.879), p(40.76, -73.869), p(40.761, -73.858),
				p(40.762, -73.845), p(40.763, -73.831),
			},
			"A": {
				p(40.71, -73.994), p(40.713, -73.989), p(40.719, -73.987), p(40.726, -73.982),
				p(40.733, -73.977), p(40.746, -73.972), p(40.755, -73.969), p(40.762, -73.967),
				p(40.775, -73.962), p(40.786, -73.958), p(40.797, -73.955), p(40.805, -73.952),
				p(40.811, -73.947), p(40.817, -73.944), p(40.824, -73.942), p(40.831, -73.939),
				p(40.838, -73.937), p(40.847, -73.934), p(40.856, -73.932),
			},
			"M15": {
				p(40.701, -73.975), p(40.711, -73.973), p(40.721, -73.971), p(40.731, -73.969),
				p(40.741, -73.967), p(40.751, -73.965), p(40.761, -73.963), p(40.771, -73.961),
				p(40.781, -73.959), p(40.791, -73.957),
			},
			"Q58": {
				p(40.708, -73.919), p(40.712, -73.908), p(40.716, -73.896), p(40.72, -73.884),
				p(40.724, -73.872), p(40.728, -73.861), p(40.732, -73.849), p(40.736, -73.837),
				p(40.74, -73.825),
			},
			"B41": {
				p(40.692, -73.989), p(40.682, -73.978), p(40.672, -73.967), p(40.662, -73.956),
				p(40.652, -73.945), p(40.642, -73.934), p(40.632, -73.923), p(40.622, -73.912),
			},
		},
	}
}
