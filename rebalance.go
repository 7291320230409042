package tracker

import "time"

// Action is the rebalance decision for one held symbol.
type Action int

const (
	// Hold leaves the position as is.
	Hold Action = iota
	// TopUp buys back up to the model quantity.
	TopUp
	// TrimDown sells the excess over the model quantity.
	TrimDown
)

func (a Action) String() string {
	switch a {
	case TopUp:
		return "rebalance up"
	case TrimDown:
		return "rebalance down"
	default:
		return "hold"
	}
}

// Evaluate compares a held quantity against the model quantity using a
// symmetric tolerance band. A band of 0.1 tolerates deviations strictly
// inside ±10% of the model size; a band of 0 disables rebalancing entirely.
func Evaluate(held, model Quantity, band float64) Action {
	if band <= 0 {
		return Hold
	}
	if held.LessThanOrEqual(model.Scale(1 - band)) {
		return TopUp
	}
	if held.GreaterThanOrEqual(model.Scale(1 + band)) {
		return TrimDown
	}
	return Hold
}

// rebalancePass compares each held symbol still in the toplist against its
// model size. Rebalancing up requires the free cash to cover the model
// quantity and is otherwise skipped this step; rebalancing down always
// queues, selling raises cash.
func (d *decider) rebalancePass() {
	for _, in := range d.toplist {
		t, held := d.book.Position(in.Symbol)
		if !held {
			continue
		}
		if d.wsum <= 0 || in.Weight == nil {
			d.targets.clear(in.Symbol)
			continue
		}
		q, ok := d.quotes[in.Symbol]
		if !ok {
			d.targets.clear(in.Symbol)
			continue
		}
		price := d.price(q)
		if !price.IsPositive() {
			d.targets.clear(in.Symbol)
			continue
		}
		model := d.modelNotional(*in.Weight).DivPrice(price).Floor()

		switch Evaluate(t.Quantity, model, d.band) {
		case TopUp:
			if d.book.FreeCash().DivPrice(price).Floor().LessThan(model) {
				// infeasible this step, retried on the next one
				d.targets.clear(in.Symbol)
				continue
			}
			delta := model.Sub(t.Quantity)
			if !delta.IsPositive() {
				d.targets.clear(in.Symbol)
				continue
			}
			fee := d.fees.QuoteFee(in.Symbol, delta, price)
			d.book.Reserve(price.Mul(delta).Add(fee))
			d.orders = append(d.orders, newPendingOrder(in.Symbol, SideBuy, delta, price, fee))
			d.targets.set(in.Symbol, model)
			d.logf("%s: rebalance up %s from %s to %s", d.now.Format(time.RFC3339), in.Symbol, t.Quantity, model)

		case TrimDown:
			delta := t.Quantity.Sub(model)
			if !delta.IsPositive() {
				d.targets.clear(in.Symbol)
				continue
			}
			fee := d.fees.QuoteFee(in.Symbol, delta, price)
			if d.feeFloorOnTrim && price.Mul(delta).LessThan(fee.Scale(2)) {
				d.targets.clear(in.Symbol)
				continue
			}
			d.orders = append(d.orders, newPendingOrder(in.Symbol, SideSell, delta, price, fee))
			d.targets.set(in.Symbol, model)
			d.logf("%s: rebalance down %s from %s to %s", d.now.Format(time.RFC3339), in.Symbol, t.Quantity, model)

		default:
			d.targets.clear(in.Symbol)
		}
	}
}
