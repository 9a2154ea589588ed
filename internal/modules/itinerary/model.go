// README: Itinerary value objects: modes, segments, candidates, and the rider preference profile.
package itinerary

import (
	"errors"
	"fmt"
	"strings"

	"routebee/internal/geo"
	"routebee/internal/modules/transit"
	"routebee/internal/types"
)

var ErrInvalidSegment = errors.New("invalid segment")

type Mode string

const (
	ModeWalk      Mode = "walk"
	ModeSubway    Mode = "subway"
	ModeBus       Mode = "bus"
	ModeBike      Mode = "bike"
	ModeEBike     Mode = "ebike"
	ModeTaxi      Mode = "taxi"
	ModeRideshare Mode = "uber"
	ModeShared    Mode = "shared"
	ModeFerry     Mode = "ferry"
)

// RoadBased modes are slowed by traffic.
func (m Mode) RoadBased() bool {
	return m == ModeBus || m.Car()
}

func (m Mode) Car() bool {
	return m == ModeTaxi || m == ModeRideshare || m == ModeShared
}

// Active modes are slowed by terrain.
func (m Mode) Active() bool {
	return m == ModeWalk || m == ModeBike || m == ModeEBike
}

func (m Mode) FixedRoute() bool {
	return m == ModeSubway || m == ModeBus || m == ModeFerry
}

type Comfort string

const (
	ComfortHigh   Comfort = "high"
	ComfortMedium Comfort = "medium"
	ComfortLow    Comfort = "low"
)

// Stop links consecutive segments; a candidate is contiguous when each
// segment starts at the Stop the previous one ended at.
type Stop struct {
	Name  string      `json:"name"`
	Point types.Point `json:"point"`
}

// TransitInfo is carried only by fixed-route segments.
type TransitInfo struct {
	Line     string
	Label    string
	Express  bool
	Status   transit.Status
	DelayMin int
}

type Segment struct {
	Mode       Mode
	From       Stop
	To         Stop
	Duration   float64 // minutes, before traffic and terrain
	Cost       types.Money
	Accessible bool
	Crowd      transit.Crowd
	Label      string
	Transit    *TransitInfo

	// AdjustedDuration is filled in by the scorer.
	AdjustedDuration float64
}

// DistanceKm is the straight-line length of the segment.
func (s Segment) DistanceKm() float64 {
	return geo.HaversineKm(s.From.Point, s.To.Point)
}

func (s Segment) Line() string {
	if s.Transit == nil {
		return ""
	}
	return s.Transit.Line
}

func validate(s Segment) (Segment, error) {
	switch {
	case s.Duration <= 0:
		return Segment{}, fmt.Errorf("%w: %s duration %.2f", ErrInvalidSegment, s.Mode, s.Duration)
	case s.Cost.Amount < 0:
		return Segment{}, fmt.Errorf("%w: %s negative cost", ErrInvalidSegment, s.Mode)
	case s.From.Name == "" || s.To.Name == "":
		return Segment{}, fmt.Errorf("%w: %s missing stop name", ErrInvalidSegment, s.Mode)
	}
	return s, nil
}

// AccessibleWalkMinutes is the longest walk treated as wheelchair accessible.
const AccessibleWalkMinutes = 15.0

func NewWalk(from, to Stop, minutes float64) (Segment, error) {
	return validate(Segment{
		Mode:       ModeWalk,
		From:       from,
		To:         to,
		Duration:   minutes,
		Accessible: minutes <= AccessibleWalkMinutes,
		Crowd:      transit.CrowdLow,
		Label:      "Walk",
	})
}

// NewTransit builds a subway, bus or ferry leg. info.Line is required.
func NewTransit(mode Mode, from, to Stop, minutes float64, fare types.Money, info TransitInfo, accessible bool, crowd transit.Crowd) (Segment, error) {
	if !mode.FixedRoute() {
		return Segment{}, fmt.Errorf("%w: %s is not a fixed-route mode", ErrInvalidSegment, mode)
	}
	if info.Line == "" {
		return Segment{}, fmt.Errorf("%w: %s leg without a line", ErrInvalidSegment, mode)
	}
	if info.Label == "" {
		info.Label = info.Line
	}
	return validate(Segment{
		Mode:       mode,
		From:       from,
		To:         to,
		Duration:   minutes,
		Cost:       fare,
		Accessible: accessible,
		Crowd:      crowd,
		Label:      info.Label,
		Transit:    &info,
	})
}

// NewRide builds a taxi, rideshare or shared-ride leg.
func NewRide(mode Mode, from, to Stop, minutes float64, fare types.Money, label string, accessible bool) (Segment, error) {
	if !mode.Car() {
		return Segment{}, fmt.Errorf("%w: %s is not a car mode", ErrInvalidSegment, mode)
	}
	crowd := transit.CrowdLow
	if mode == ModeShared {
		crowd = transit.CrowdMedium
	}
	return validate(Segment{
		Mode:       mode,
		From:       from,
		To:         to,
		Duration:   minutes,
		Cost:       fare,
		Accessible: accessible,
		Crowd:      crowd,
		Label:      label,
	})
}

func NewCycle(mode Mode, from, to Stop, minutes float64, fare types.Money, label string) (Segment, error) {
	if mode != ModeBike && mode != ModeEBike {
		return Segment{}, fmt.Errorf("%w: %s is not a cycle mode", ErrInvalidSegment, mode)
	}
	return validate(Segment{
		Mode:     mode,
		From:     from,
		To:       to,
		Duration: minutes,
		Cost:     fare,
		Crowd:    transit.CrowdLow,
		Label:    label,
	})
}

// Kind names the strategy that produced a candidate.
type Kind string

const (
	KindWalk           Kind = "walk"
	KindSubway         Kind = "subway"
	KindSubwayTransfer Kind = "subway_transfer"
	KindBus            Kind = "bus"
	KindExpressBus     Kind = "express_bus"
	KindFerry          Kind = "ferry"
	KindBusSubway      Kind = "bus_subway"
	KindRideshare      Kind = "rideshare"
	KindTaxi           Kind = "taxi"
	KindShared         Kind = "shared"
	KindEBike          Kind = "ebike"
	KindBike           Kind = "bike"
	KindSubwayLastMile Kind = "subway_last_mile"
	KindBikeSubway     Kind = "bike_subway"
	KindBusLastMile    Kind = "bus_last_mile"
	KindEconomy        Kind = "economy"
	KindPremium        Kind = "premium"
	KindAccessible     Kind = "accessible"
)

// Candidate is an unscored itinerary skeleton.
type Candidate struct {
	ID       string
	Name     string
	Kind     Kind
	Segments []Segment
	Comfort  Comfort
}

// Duration is the raw sum of segment durations.
func (c Candidate) Duration() float64 {
	var total float64
	for _, s := range c.Segments {
		total += s.Duration
	}
	return total
}

func (c Candidate) Cost() types.Money {
	total := types.USD(0)
	for _, s := range c.Segments {
		total = total.Add(s.Cost)
	}
	return total
}

// CarCost sums the fares of taxi, rideshare and shared legs.
func (c Candidate) CarCost() types.Money {
	total := types.USD(0)
	for _, s := range c.Segments {
		if s.Mode.Car() {
			total = total.Add(s.Cost)
		}
	}
	return total
}

func (c Candidate) Transfers() int {
	if len(c.Segments) == 0 {
		return 0
	}
	return len(c.Segments) - 1
}

// Accessible holds only when every segment is accessible.
func (c Candidate) Accessible() bool {
	if len(c.Segments) == 0 {
		return false
	}
	for _, s := range c.Segments {
		if !s.Accessible {
			return false
		}
	}
	return true
}

func (c Candidate) HasMode(m Mode) bool {
	for _, s := range c.Segments {
		if s.Mode == m {
			return true
		}
	}
	return false
}

func (c Candidate) HasActiveSegment() bool {
	for _, s := range c.Segments {
		if s.Mode.Active() {
			return true
		}
	}
	return false
}

// Signature identifies candidates that would look identical to a rider.
func (c Candidate) Signature() string {
	parts := make([]string, len(c.Segments))
	for i, s := range c.Segments {
		parts[i] = string(s.Mode)
		if l := s.Line(); l != "" {
			parts[i] += ":" + l
		}
	}
	return strings.Join(parts, ">")
}

// Contiguous reports whether each segment starts where the previous ended.
func (c Candidate) Contiguous() bool {
	for i := 1; i < len(c.Segments); i++ {
		if c.Segments[i-1].To != c.Segments[i].From {
			return false
		}
	}
	return len(c.Segments) > 0
}

type Priority string

const (
	PrioritySpeed    Priority = "speed"
	PriorityCost     Priority = "cost"
	PriorityComfort  Priority = "comfort"
	PriorityBalanced Priority = "balanced"
)

type Sensitivity string

const (
	SensitivityLow      Sensitivity = "low"
	SensitivityModerate Sensitivity = "moderate"
	SensitivityHigh     Sensitivity = "high"
)

// Preference is the rider profile for one request.
type Preference struct {
	Priority   Priority
	Noise      Sensitivity
	Safety     Sensitivity
	Bags       int
	Wheelchair bool
}

// WithDefaults fills unset fields with balanced/moderate.
func (p Preference) WithDefaults() Preference {
	if p.Priority == "" {
		p.Priority = PriorityBalanced
	}
	if p.Noise == "" {
		p.Noise = SensitivityModerate
	}
	if p.Safety == "" {
		p.Safety = SensitivityModerate
	}
	if p.Bags < 0 {
		p.Bags = 0
	}
	return p
}
