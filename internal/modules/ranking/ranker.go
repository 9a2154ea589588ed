// README: Ranking and assembly; dedupes, filters, sorts, caps and labels scored candidates.
package ranking

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"routebee/internal/modules/itinerary"
	"routebee/internal/modules/scoring"
)

// ErrEmpty means no candidate survived filtering and no accessible
// replacement could be built.
var ErrEmpty = errors.New("no candidates survived filtering")

const DefaultMaxResults = 6

var topLabels = map[itinerary.Priority]string{
	itinerary.PrioritySpeed:    "(Fastest Route)",
	itinerary.PriorityCost:     "(Cheapest Route)",
	itinerary.PriorityComfort:  "(Most Comfortable)",
	itinerary.PriorityBalanced: "(Best Overall)",
}

type Traffic struct {
	Level  string  `json:"level"`
	Impact float64 `json:"impact"`
}

// Route is a ranked candidate with its presentation fields.
type Route struct {
	scoring.Scored

	Rank        int
	DisplayName string
	ETA         string
	Traffic     Traffic
}

type Options struct {
	MaxResults int
	// Now defaults to time.Now.
	Now      func() time.Time
	Location *time.Location
}

type Ranker struct {
	max int
	now func() time.Time
	loc *time.Location
}

func NewRanker(opts Options) *Ranker {
	r := &Ranker{max: opts.MaxResults, now: opts.Now, loc: opts.Location}
	if r.max <= 0 {
		r.max = DefaultMaxResults
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.loc == nil {
		r.loc = time.Local
	}
	return r
}

type Input struct {
	Scored     []scoring.Scored
	Preference itinerary.Preference
	AvgTraffic float64
	// Accessible builds a replacement when the wheelchair filter removes
	// everything. May be nil.
	Accessible func() (scoring.Scored, error)
}

func (r *Ranker) Rank(in Input) ([]Route, error) {
	pref := in.Preference.WithDefaults()
	cands := Dedupe(in.Scored)

	if pref.Wheelchair {
		cands = slices.DeleteFunc(cands, func(s scoring.Scored) bool { return !s.Accessible() })
		if len(cands) == 0 && in.Accessible != nil {
			acc, err := in.Accessible()
			if err != nil {
				return nil, fmt.Errorf("build accessible candidate: %w", err)
			}
			cands = append(cands, acc)
		}
	}
	if len(cands) == 0 {
		return nil, ErrEmpty
	}

	Sort(cands, pref.Priority)
	if len(cands) > r.max {
		cands = cands[:r.max]
	}

	now := r.now().In(r.loc)
	out := make([]Route, len(cands))
	for i, s := range cands {
		out[i] = Route{
			Scored:      s,
			Rank:        i + 1,
			DisplayName: s.Name,
			ETA:         ETA(now, s.AdjustedDuration),
			Traffic:     routeTraffic(s, in.AvgTraffic),
		}
	}
	out[0].DisplayName = out[0].Name + " " + topLabels[pref.Priority]
	return out, nil
}

// Dedupe keeps the higher-scoring candidate of each mode/line signature,
// preserving first-seen order.
func Dedupe(in []scoring.Scored) []scoring.Scored {
	index := map[string]int{}
	out := make([]scoring.Scored, 0, len(in))
	for _, s := range in {
		sig := s.Signature()
		if i, ok := index[sig]; ok {
			if s.Raw > out[i].Raw {
				out[i] = s
			}
			continue
		}
		index[sig] = len(out)
		out = append(out, s)
	}
	return out
}

// Sort orders by the priority's dimension, then the unrounded score, then ID.
// The 0-10 display score is too coarse to order by.
func Sort(cands []scoring.Scored, p itinerary.Priority) {
	primary := func(a, b scoring.Scored) int {
		switch p {
		case itinerary.PrioritySpeed:
			return cmp.Compare(a.AdjustedDuration, b.AdjustedDuration)
		case itinerary.PriorityCost:
			return cmp.Compare(a.TotalCost().Amount, b.TotalCost().Amount)
		case itinerary.PriorityComfort:
			return cmp.Compare(b.Sub.Comfort, a.Sub.Comfort)
		}
		return 0
	}
	slices.SortStableFunc(cands, func(a, b scoring.Scored) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Raw, a.Raw); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// ETA formats the arrival wall-clock time as HH:MM.
func ETA(now time.Time, minutes float64) string {
	return now.Add(time.Duration(math.Round(minutes)) * time.Minute).Format("15:04")
}

func TrafficLevel(factor float64) string {
	switch {
	case factor > 1.3:
		return "high"
	case factor > 1.1:
		return "medium"
	}
	return "low"
}

func routeTraffic(s scoring.Scored, avg float64) Traffic {
	impact := 1.0
	for _, seg := range s.Segments {
		if seg.Mode.RoadBased() {
			impact = avg
			break
		}
	}
	return Traffic{Level: TrafficLevel(impact), Impact: impact}
}
