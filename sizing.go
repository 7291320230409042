package tracker

import (
	"time"
)

// decider runs the close, rebalance and open passes of a single step against
// a book. The real ledger and the shadow ledger both use it, with different
// reference prices and fee models.
type decider struct {
	book           *Book
	fees           FeeQuoter
	base           Money   // sizing base: current equity or initial capital
	band           float64 // rebalance tolerance band; 0 disables rebalancing
	feeFloorOnTrim bool
	price          func(Quote) Money
	now            time.Time
	toplist        []Insight
	quotes         map[string]Quote
	wsum           float64
	logf           func(format string, args ...any)

	orders  []PendingOrder
	targets *targetSet
}

// run produces the step's pending orders and targets. It mutates the book's
// reservations only; positions and cash are touched at settlement.
func (d *decider) run() ([]PendingOrder, *targetSet) {
	d.targets = newTargetSet()
	d.wsum = weightsSum(d.toplist)

	inTop := make(map[string]bool, len(d.toplist))
	for _, in := range d.toplist {
		inTop[in.Symbol] = true
	}

	d.closePass(inTop)
	d.rebalancePass()
	d.openPass()
	return d.orders, d.targets
}

// closePass queues a full close for every held symbol absent from the
// toplist. When the estimated fee is positive and free cash cannot cover it,
// the close is deferred to a later step rather than forcing a negative
// balance.
func (d *decider) closePass(inTop map[string]bool) {
	for t := range d.book.Positions() {
		if inTop[t.Symbol] {
			continue
		}
		q, ok := d.quotes[t.Symbol]
		if !ok {
			// stale bar data, retried next step
			continue
		}
		price := d.price(q)
		if !price.IsPositive() {
			continue
		}
		fee := d.fees.QuoteFee(t.Symbol, t.Quantity, price)
		if fee.IsPositive() {
			if d.book.FreeCash().LessThan(fee) {
				d.logf("%s: close of %s deferred, fee %s exceeds free cash %s",
					d.now.Format(time.RFC3339), t.Symbol, fee, d.book.FreeCash())
				continue
			}
			d.book.Reserve(fee)
		}
		d.orders = append(d.orders, newPendingOrder(t.Symbol, SideSell, t.Quantity, price, fee))
		d.targets.set(t.Symbol, Q(0))
	}
}

// openPass sizes new positions for toplist symbols not already held, while
// free slots remain. Symbols already held are the rebalance pass's business:
// the two paths are mutually exclusive within a step.
func (d *decider) openPass() {
	if d.wsum <= 0 {
		// no usable weights this step, no new positions
		return
	}
	free := d.book.FreeSlots()
	for _, in := range d.toplist {
		if free <= 0 {
			return
		}
		if _, held := d.book.Position(in.Symbol); held {
			continue
		}
		if in.Weight == nil {
			continue
		}
		q, ok := d.quotes[in.Symbol]
		if !ok {
			continue
		}
		price := d.price(q)
		if !price.IsPositive() {
			continue
		}

		notional := d.modelNotional(*in.Weight)
		if fc := d.book.FreeCash(); notional.GreaterThan(fc) {
			notional = fc
		}
		if !notional.IsPositive() {
			continue
		}

		// First floor ignores fees; the quoted fee on that trial order then
		// shrinks the notional so the reservation can never exceed free cash.
		trial := notional.DivPrice(price).Floor()
		if !trial.IsPositive() {
			continue
		}
		fee := d.fees.QuoteFee(in.Symbol, trial, price)
		quantity := notional.Sub(fee).DivPrice(price).Floor()
		if !quantity.IsPositive() {
			continue
		}
		orderNotional := price.Mul(quantity)
		if orderNotional.LessThan(fee.Scale(2)) {
			// fee-dominated micro-order, fixed policy threshold
			d.logf("%s: open of %s rejected, notional %s below twice the fee %s",
				d.now.Format(time.RFC3339), in.Symbol, orderNotional, fee)
			continue
		}

		d.book.Reserve(orderNotional.Add(fee))
		free--
		d.orders = append(d.orders, newPendingOrder(in.Symbol, SideBuy, quantity, price, fee))
		d.targets.set(in.Symbol, quantity)
	}
}

// modelNotional is the target position value implied by a weight, the
// weights sum and the sizing base. The divisor never drops below the slot
// count: a short conviction list allocates one slot's share per insight
// instead of going all-in. Callers guard against a zero weights sum.
func (d *decider) modelNotional(weight float64) Money {
	div := d.wsum
	if s := float64(d.book.Slots()); div < s {
		div = s
	}
	return d.base.Scale(weight / div)
}
