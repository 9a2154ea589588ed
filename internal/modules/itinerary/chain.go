package itinerary

import (
	"fmt"

	"routebee/internal/modules/transit"
	"routebee/internal/types"
)

// chain appends segments that each start where the previous one ended. The
// first construction error sticks and is returned by done.
type chain struct {
	at   Stop
	segs []Segment
	err  error
}

func startAt(s Stop) *chain {
	return &chain{at: s}
}

func (c *chain) push(seg Segment, err error) *chain {
	if c.err != nil {
		return c
	}
	if err != nil {
		c.err = err
		return c
	}
	c.segs = append(c.segs, seg)
	c.at = seg.To
	return c
}

func (c *chain) walk(to Stop, minutes float64) *chain {
	return c.push(NewWalk(c.at, to, minutes))
}

func (c *chain) transit(mode Mode, to Stop, minutes float64, fare types.Money, info TransitInfo, accessible bool, crowd transit.Crowd) *chain {
	return c.push(NewTransit(mode, c.at, to, minutes, fare, info, accessible, crowd))
}

func (c *chain) ride(mode Mode, to Stop, minutes float64, fare types.Money, label string, accessible bool) *chain {
	return c.push(NewRide(mode, c.at, to, minutes, fare, label, accessible))
}

func (c *chain) cycle(mode Mode, to Stop, minutes float64, fare types.Money, label string) *chain {
	return c.push(NewCycle(mode, c.at, to, minutes, fare, label))
}

func (c *chain) done(kind Kind, name string, comfort Comfort) (Candidate, error) {
	if c.err != nil {
		return Candidate{}, fmt.Errorf("build %s candidate: %w", kind, c.err)
	}
	return Candidate{Kind: kind, Name: name, Segments: c.segs, Comfort: comfort}, nil
}
