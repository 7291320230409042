package tracker

import (
	"sort"
	"time"
)

// Direction is the predicted direction of an insight.
type Direction int

const (
	Flat Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "flat"
	}
}

// Insight is a ranked directional trading signal for one symbol.
// Insights are produced upstream and immutable once received.
type Insight struct {
	Symbol    string
	Direction Direction
	Magnitude float64  // rank strength, descending sort key
	Weight    *float64 // optional proportional-sizing hint
	Expiry    time.Time
}

// Expired reports whether the insight's expiry has passed at the given time.
// A zero expiry never expires.
func (i Insight) Expired(now time.Time) bool {
	return !i.Expiry.IsZero() && i.Expiry.Before(now)
}

// Toplist returns the first n insights by descending magnitude, dropping
// insights already expired at now. The list is sorted here even when the
// upstream signal layer already ranked it. The input is not modified.
func Toplist(insights []Insight, n int, now time.Time) []Insight {
	list := make([]Insight, 0, len(insights))
	for _, in := range insights {
		if in.Expired(now) {
			continue
		}
		list = append(list, in)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Magnitude > list[j].Magnitude
	})
	if n >= 0 && len(list) > n {
		list = list[:n]
	}
	return list
}

// weightsSum sums the sizing weights present in a toplist.
func weightsSum(list []Insight) float64 {
	var sum float64
	for _, in := range list {
		if in.Weight != nil {
			sum += *in.Weight
		}
	}
	return sum
}
