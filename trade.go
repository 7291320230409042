package tracker

import (
	"time"
)

// Trade is a position record. A Trade is open while ExitTime is zero, and
// closed once an exit time and price are set. Positive quantity is long.
//
// Trades are value types: every mutation is an explicit transition returning
// a new record, so the rebalance and settlement paths can never alias the
// same record within a step.
type Trade struct {
	Symbol     string
	EntryTime  time.Time
	EntryPrice Money
	Quantity   Quantity
	ExitTime   time.Time
	ExitPrice  Money
}

// OpenTrade records a newly opened position.
func OpenTrade(symbol string, at time.Time, price Money, quantity Quantity) Trade {
	return Trade{Symbol: symbol, EntryTime: at, EntryPrice: price, Quantity: quantity}
}

// IsOpen reports whether the position is still held.
func (t Trade) IsOpen() bool { return t.ExitTime.IsZero() }

// Cost returns the total entry cost of the position.
func (t Trade) Cost() Money { return t.EntryPrice.Mul(t.Quantity) }

// Averaged adds quantity bought at price to the position, moving the entry
// price to the new weighted-average cost. The entry time is kept.
func (t Trade) Averaged(quantity Quantity, price Money, at time.Time) Trade {
	total := t.Quantity.Add(quantity)
	cost := t.EntryPrice.Mul(t.Quantity).Add(price.Mul(quantity))
	t.EntryPrice = cost.Div(total)
	t.Quantity = total
	return t
}

// Sliced closes a part of the position at price. It returns the realized
// slice as a synthetic closed trade, and the remaining open position.
// The slice quantity must be positive and strictly less than the held quantity.
func (t Trade) Sliced(quantity Quantity, price Money, at time.Time) (realized, remaining Trade) {
	realized = Trade{
		Symbol:     t.Symbol,
		EntryTime:  t.EntryTime,
		EntryPrice: t.EntryPrice,
		Quantity:   quantity,
		ExitTime:   at,
		ExitPrice:  price,
	}
	t.Quantity = t.Quantity.Sub(quantity)
	return realized, t
}

// Closed closes the whole position at price.
func (t Trade) Closed(price Money, at time.Time) Trade {
	t.ExitTime = at
	t.ExitPrice = price
	return t
}

// RealizedPL returns the realized profit and loss of a closed trade,
// and zero for an open one. Fees are accounted in cash, not here.
func (t Trade) RealizedPL() Money {
	if t.IsOpen() {
		return Money{}
	}
	return t.ExitPrice.Sub(t.EntryPrice).Mul(t.Quantity)
}
