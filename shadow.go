package tracker

import (
	"fmt"
	"time"
)

// EquityPoint is one sample of an equity curve.
type EquityPoint struct {
	Time   time.Time
	Equity Money
}

// Shadow independently replays the insight stream against a small fixed
// notional to produce a benchmark equity curve. It runs the same close, open
// and rebalance logic as the real ledger, with three deliberate differences:
// open-of-bar pricing, a one-step-delayed insight queue (it trades on
// yesterday's ranked list), and no fee model. Its fills are immediate: the
// shadow is a directional benchmark, not a realistic P&L estimate.
type Shadow struct {
	book    *Book
	initial Money
	band    float64
	queue   [][]Insight
	curve   []EquityPoint
	logf    func(string, ...any)
}

func newShadow(notional Money, slots int, band float64, logf func(string, ...any)) *Shadow {
	return &Shadow{
		book:    NewBook(notional, slots),
		initial: notional,
		band:    band,
		logf:    logf,
	}
}

// Step consumes the current toplist and quotes. The toplist is queued and
// the previous step's list, if any, is traded at this step's open prices.
func (s *Shadow) Step(now time.Time, toplist []Insight, quotes map[string]Quote) error {
	s.queue = append(s.queue, toplist)
	if len(s.queue) > 1 {
		list := s.queue[0]
		s.queue = s.queue[1:]
		d := &decider{
			book:    s.book,
			fees:    NoFees,
			base:    s.initial, // fixed notional base, never reinvested
			band:    s.band,
			price:   openPrice,
			now:     now,
			toplist: list,
			quotes:  quotes,
			logf:    func(string, ...any) {}, // the shadow trades silently
		}
		orders, _ := d.run()
		for _, o := range orders {
			switch o.Side {
			case SideBuy:
				if _, held := s.book.Position(o.Symbol); held {
					if err := s.book.AddToPosition(o.Symbol, o.Quantity, o.Price, now); err != nil {
						return fmt.Errorf("shadow: %w", err)
					}
				} else {
					if err := s.book.OpenPosition(o.Symbol, now, o.Price, o.Quantity); err != nil {
						return fmt.Errorf("shadow: %w", err)
					}
				}
				s.book.Debit(o.Price.Mul(o.Quantity))
			case SideSell:
				if err := s.book.ReducePosition(o.Symbol, o.Quantity, o.Price, now); err != nil {
					return fmt.Errorf("shadow: %w", err)
				}
				s.book.Credit(o.Price.Mul(o.Quantity))
			}
		}
		s.book.ResetReserved()
		if err := s.book.Check(now); err != nil {
			return fmt.Errorf("shadow: %w", err)
		}
	}
	s.curve = append(s.curve, EquityPoint{Time: now, Equity: s.book.Equity(openLookup(quotes))})
	return nil
}

// Book exposes the shadow's own ledger, for inspection only.
func (s *Shadow) Book() *Book { return s.book }

// Curve returns the equity curve sampled once per step.
func (s *Shadow) Curve() []EquityPoint { return s.curve }

// TrailingAverage returns the mean equity of the last n curve points, and
// false when fewer than n samples exist. Risk gating layers typically scale
// real sizing to zero when the current shadow equity sits below this average.
func (s *Shadow) TrailingAverage(n int) (Money, bool) {
	if n <= 0 || len(s.curve) < n {
		return Money{}, false
	}
	var sum Money
	for _, p := range s.curve[len(s.curve)-n:] {
		sum = sum.Add(p.Equity)
	}
	return sum.Scale(1 / float64(n)), true
}

// openLookup adapts a quote map to a price lookup at open-of-bar prices.
func openLookup(quotes map[string]Quote) func(string) (Money, bool) {
	return func(symbol string) (Money, bool) {
		q, ok := quotes[symbol]
		if !ok || !q.Open.IsPositive() {
			return Money{}, false
		}
		return q.Open, true
	}
}

// closeLookup adapts a quote map to a price lookup at reference prices.
func closeLookup(quotes map[string]Quote) func(string) (Money, bool) {
	return func(symbol string) (Money, bool) {
		q, ok := quotes[symbol]
		if !ok || !q.Price.IsPositive() {
			return Money{}, false
		}
		return q.Price, true
	}
}
