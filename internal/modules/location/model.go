// README: Location value objects: resolved coordinate plus coarse area tag.
package location

import "routebee/internal/types"

// Area is a borough or a named sub-area with its own transit facts.
type Area string

const (
	Manhattan    Area = "Manhattan"
	Brooklyn     Area = "Brooklyn"
	Queens       Area = "Queens"
	Bronx        Area = "Bronx"
	StatenIsland Area = "Staten Island"

	TimesSquare   Area = "Times Square"
	CentralPark   Area = "Central Park"
	ProspectPark  Area = "Prospect Park"
	Flushing      Area = "Flushing"
	Bayside       Area = "Bayside"
	MainSt        Area = "Main St"
	YankeeStadium Area = "Yankee Stadium"
	JFKAirport    Area = "JFK Airport"
	LaGuardia     Area = "LaGuardia Airport"
)

var parentBorough = map[Area]Area{
	TimesSquare:   Manhattan,
	CentralPark:   Manhattan,
	ProspectPark:  Brooklyn,
	Flushing:      Queens,
	Bayside:       Queens,
	MainSt:        Queens,
	YankeeStadium: Bronx,
	JFKAirport:    Queens,
	LaGuardia:     Queens,
}

// Borough returns the borough an area belongs to. Boroughs and unknown
// areas return themselves.
func (a Area) Borough() Area {
	if b, ok := parentBorough[a]; ok {
		return b
	}
	return a
}

// Boroughs lists the five boroughs in a stable order.
func Boroughs() []Area {
	return []Area{Manhattan, Brooklyn, Queens, Bronx, StatenIsland}
}

// Source records which resolution step produced a location.
type Source string

const (
	SourceExact        Source = "exact"
	SourceSubstring    Source = "substring"
	SourceNeighborhood Source = "neighborhood"
	SourceAddress      Source = "address"
	SourceFallback     Source = "fallback"
)

// Location is a resolved request input. It is never mutated after Resolve.
type Location struct {
	Name   string
	Point  types.Point
	Area   Area
	Source Source
}

type entryKind int

const (
	kindBorough entryKind = iota
	kindLandmark
	kindHospital
)

type entry struct {
	name  string
	point types.Point
	area  Area
	kind  entryKind
}
