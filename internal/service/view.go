package service

import (
	"math"

	"routebee/internal/modules/location"
	"routebee/internal/modules/pathsynth"
	"routebee/internal/modules/ranking"
	"routebee/internal/types"
)

// Plan is the JSON body of a successful route search.
type Plan struct {
	Routes           []RouteView       `json:"routes"`
	Distance         float64           `json:"distance"`
	From             location.Location `json:"-"`
	To               location.Location `json:"-"`
	FromCoords       types.Point       `json:"fromCoords"`
	ToCoords         types.Point       `json:"toCoords"`
	Traffic          Factors           `json:"traffic"`
	Topology         Factors           `json:"topology"`
	SubwayAvailable  bool              `json:"subwayAvailable"`
	TransferRequired bool              `json:"transferRequired"`
	Degraded         bool              `json:"degraded"`
}

type Factors struct {
	Origin      float64 `json:"origin"`
	Destination float64 `json:"destination"`
	Average     float64 `json:"average"`
}

type RouteView struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Kind              string          `json:"kind"`
	Rank              int             `json:"rank"`
	Duration          int             `json:"duration"`
	Cost              float64         `json:"cost"`
	Comfort           string          `json:"comfort"`
	NumTransfers      int             `json:"numTransfers"`
	Accessible        bool            `json:"isWheelchairAccessible"`
	CO2               int             `json:"co2"`
	ETA               string          `json:"eta"`
	Score             int             `json:"score"`
	Scores            ScoresView      `json:"scores"`
	RouteColor        string          `json:"routeColor"`
	CostBreakdown     BreakdownView   `json:"costBreakdown"`
	Traffic           ranking.Traffic `json:"traffic"`
	HasTopologyImpact bool            `json:"hasTopologyImpact"`
	Segments          []SegmentView   `json:"segments"`
}

// ScoresView reports every sub-score on the 0-10 display scale.
type ScoresView struct {
	Overall   int `json:"overall"`
	Time      int `json:"time"`
	Cost      int `json:"cost"`
	Comfort   int `json:"comfort"`
	Transfers int `json:"transfers"`
}

type BreakdownView struct {
	Fare           float64 `json:"fare"`
	AdditionalFees float64 `json:"additionalFees"`
	TotalCost      float64 `json:"totalCost"`
}

type SegmentView struct {
	Mode             string         `json:"mode"`
	Line             string         `json:"line,omitempty"`
	Label            string         `json:"label"`
	From             string         `json:"from"`
	To               string         `json:"to"`
	FromCoords       types.Point    `json:"fromCoords"`
	ToCoords         types.Point    `json:"toCoords"`
	Duration         float64        `json:"duration"`
	AdjustedDuration float64        `json:"adjustedDuration"`
	Cost             float64        `json:"cost"`
	Accessible       bool           `json:"accessible"`
	CrowdLevel       string         `json:"crowdLevel"`
	SegmentScore     int            `json:"segmentScore"`
	Status           string         `json:"status,omitempty"`
	DelayMin         int            `json:"delayMin,omitempty"`
	Path             pathsynth.Path `json:"path"`
}

func newRouteView(r ranking.Route, paths []pathsynth.Path, topology float64) RouteView {
	segs := make([]SegmentView, len(r.Segments))
	for i, s := range r.Segments {
		v := SegmentView{
			Mode:             string(s.Mode),
			Line:             s.Line(),
			Label:            s.Label,
			From:             s.From.Name,
			To:               s.To.Name,
			FromCoords:       s.From.Point,
			ToCoords:         s.To.Point,
			Duration:         round2(s.Duration),
			AdjustedDuration: round2(s.AdjustedDuration),
			Cost:             s.Cost.Dollars(),
			Accessible:       s.Accessible,
			CrowdLevel:       string(s.Crowd),
		}
		if i < len(r.SegmentScores) {
			v.SegmentScore = r.SegmentScores[i]
		}
		if i < len(paths) {
			v.Path = paths[i]
		}
		if s.Transit != nil {
			v.Status = string(s.Transit.Status)
			v.DelayMin = s.Transit.DelayMin
		}
		segs[i] = v
	}

	return RouteView{
		ID:           r.ID,
		Name:         r.DisplayName,
		Kind:         string(r.Kind),
		Rank:         r.Rank,
		Duration:     int(math.Round(r.AdjustedDuration)),
		Cost:         r.TotalCost().Dollars(),
		Comfort:      string(r.Comfort),
		NumTransfers: r.Transfers(),
		Accessible:   r.Accessible(),
		CO2:          r.CO2Grams,
		ETA:          r.ETA,
		Score:        r.Score,
		Scores: ScoresView{
			Overall:   r.Score,
			Time:      tenths(r.Sub.Time),
			Cost:      tenths(r.Sub.Cost),
			Comfort:   tenths(r.Sub.Comfort),
			Transfers: tenths(r.Sub.Transfer),
		},
		RouteColor: r.Color,
		CostBreakdown: BreakdownView{
			Fare:           r.Breakdown.Fare.Dollars(),
			AdditionalFees: r.Breakdown.AdditionalFees.Dollars(),
			TotalCost:      r.Breakdown.Total.Dollars(),
		},
		Traffic:           r.Traffic,
		HasTopologyImpact: r.HasActiveSegment() && topology > 0,
		Segments:          segs,
	}
}

func tenths(v float64) int {
	return int(math.Round(v * 10))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
