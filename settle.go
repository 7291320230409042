package tracker

import (
	"time"
)

// settle applies the previous step's pending orders against the current
// step's quotes. Per order the outcome is filled, partially applied to the
// position, or skipped; skipped orders leave the ledger untouched and their
// reservation is released with all others when the step begins.
//
// An order is processed only when the instrument's session is open at the
// current bar. Fill prices reflect worst-case execution within the bar:
// max(reference, bar low) for sells, min(reference, bar high) for buys.
// Orders whose reference price falls outside the bar range are discarded.
func settle(book *Book, orders []PendingOrder, quotes map[string]Quote, currency string, now time.Time, logf func(string, ...any)) error {
	for _, o := range orders {
		q, ok := quotes[o.Symbol]
		if !ok {
			// stale bar data, dropped silently
			continue
		}
		if !q.SessionOpen {
			continue
		}
		fee := o.fee(currency)

		switch o.Side {
		case SideSell:
			if q.High.IsPositive() && q.High.LessThan(o.Price) {
				// price never reached within the bar
				continue
			}
			fill := o.Price
			if q.Low.GreaterThan(fill) {
				fill = q.Low
			}
			if err := book.ReducePosition(o.Symbol, o.Quantity, fill, now); err != nil {
				return err
			}
			book.Credit(fill.Mul(o.Quantity).Sub(fee))
			logf("%s: sold %s %s at %s (order %s)", now.Format(time.RFC3339), o.Quantity, o.Symbol, fill, o.ID)

		case SideBuy:
			if q.Low.IsPositive() && q.Low.GreaterThan(o.Price) {
				continue
			}
			fill := o.Price
			if q.High.IsPositive() && q.High.LessThan(fill) {
				fill = q.High
			}
			if _, held := book.Position(o.Symbol); held {
				if err := book.AddToPosition(o.Symbol, o.Quantity, fill, now); err != nil {
					return err
				}
			} else {
				if err := book.OpenPosition(o.Symbol, now, fill, o.Quantity); err != nil {
					return err
				}
			}
			book.Debit(fill.Mul(o.Quantity).Add(fee))
			logf("%s: bought %s %s at %s (order %s)", now.Format(time.RFC3339), o.Quantity, o.Symbol, fill, o.ID)
		}
	}
	return nil
}
