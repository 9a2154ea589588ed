// README: Transit context value objects: line status, per-area facts, request snapshot.
package transit

import (
	"errors"

	"routebee/internal/modules/location"
	"routebee/internal/types"
)

var ErrUnavailable = errors.New("transit context unavailable")

type Crowd string

const (
	CrowdLow    Crowd = "low"
	CrowdMedium Crowd = "medium"
	CrowdHigh   Crowd = "high"
)

type Status string

const (
	StatusNormal    Status = "normal"
	StatusDelayed   Status = "delayed"
	StatusSuspended Status = "suspended"
)

type LineStatus struct {
	Line     string `json:"line"`
	Status   Status `json:"status"`
	DelayMin int    `json:"delayMin"`
	Crowd    Crowd  `json:"crowd"`
}

// Operating reports whether trains run on the line at all.
func (s LineStatus) Operating() bool {
	return s.Status != StatusSuspended
}

type Terminal struct {
	Name  string
	Point types.Point
}

// FerryRoute connects two boroughs; Terminals is keyed by borough.
type FerryRoute struct {
	ID        string
	Name      string
	Fare      float64
	Terminals map[location.Area]Terminal
}

// AreaFacts are the per-area inputs the generator and scorer read.
type AreaFacts struct {
	Area        location.Area `json:"area"`
	SubwayLines []string      `json:"subwayLines"`
	BusRoutes   []string      `json:"busRoutes"`
	Traffic     float64       `json:"traffic"`
	Topology    float64       `json:"topology"`
}

// Context is the read-only transit snapshot for one request.
type Context struct {
	Origin      AreaFacts
	Destination AreaFacts
	// Degraded is set when provider data was replaced by defaults.
	Degraded bool

	lines   map[string]LineStatus
	catalog *Catalog
}

func (c Context) AvgTraffic() float64 {
	return (c.Origin.Traffic + c.Destination.Traffic) / 2
}

func (c Context) AvgTopology() float64 {
	return (c.Origin.Topology + c.Destination.Topology) / 2
}

// Status returns the line's status, treating unknown lines as normal.
func (c Context) Status(line string) LineStatus {
	if s, ok := c.lines[line]; ok {
		return s
	}
	return LineStatus{Line: line, Status: StatusNormal, Crowd: CrowdMedium}
}

func (c Context) CrossBorough() bool {
	return c.Origin.Area.Borough() != c.Destination.Area.Borough()
}

// Catalog exposes the static data the snapshot was built from.
func (c Context) Catalog() *Catalog {
	return c.catalog
}
