package tracker

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"time"
)

// ErrInvariant marks a fatal ledger invariant violation. It always indicates
// a sizing-logic defect, never a valid market outcome, and must abort the run.
var ErrInvariant = errors.New("ledger invariant violated")

// ErrShortSell marks an attempt to sell a symbol with no (or insufficient)
// recorded holding. Short selling is not supported.
var ErrShortSell = fmt.Errorf("%w: short selling is not supported", ErrInvariant)

// cashEpsilon tolerates rounding noise in the non-negative cash check.
const cashEpsilon = 1e-4

// Book is the in-memory position ledger: open positions keyed by symbol,
// closed trades, available cash, step-scoped reservations and the slot
// capacity. A symbol appears in the open positions at most once.
//
// A Book is exclusively owned by a single engine instance and is not safe
// for concurrent use.
type Book struct {
	cash     Money
	reserved Money
	slots    int
	open     map[string]Trade
	order    []string // open symbols in insertion order
	closed   []Trade
}

// NewBook creates a ledger with the given initial cash and slot capacity.
func NewBook(cash Money, slots int) *Book {
	return &Book{
		cash:  cash,
		slots: slots,
		open:  make(map[string]Trade),
	}
}

func (b *Book) Cash() Money     { return b.cash }
func (b *Book) Reserved() Money { return b.reserved }
func (b *Book) Slots() int      { return b.slots }

// FreeCash returns the cash not earmarked for orders queued this step.
func (b *Book) FreeCash() Money { return b.cash.Sub(b.reserved) }

// FreeSlots returns the number of position seats still available.
func (b *Book) FreeSlots() int { return b.slots - len(b.open) }

// OpenCount returns the number of open positions.
func (b *Book) OpenCount() int { return len(b.open) }

// Position returns the open position for a symbol, if any.
func (b *Book) Position(symbol string) (Trade, bool) {
	t, ok := b.open[symbol]
	return t, ok
}

// Positions iterates over open positions in insertion order. Emission order
// is an observable property, so it is preserved separately from the map.
func (b *Book) Positions() iter.Seq[Trade] {
	return func(yield func(Trade) bool) {
		for _, symbol := range b.order {
			if !yield(b.open[symbol]) {
				return
			}
		}
	}
}

// ClosedTrades returns the realized trade history.
func (b *Book) ClosedTrades() []Trade { return b.closed }

// Credit adds cash to the ledger.
func (b *Book) Credit(m Money) { b.cash = b.cash.Add(m) }

// Debit removes cash from the ledger.
func (b *Book) Debit(m Money) { b.cash = b.cash.Sub(m) }

// Reserve earmarks free cash for an order queued this step.
func (b *Book) Reserve(m Money) { b.reserved = b.reserved.Add(m) }

// ResetReserved releases all reservations. Reservations are step-scoped:
// this runs at the start of every step, before new sizing.
func (b *Book) ResetReserved() { b.reserved = Money{} }

// OpenPosition records a new position. The symbol must not already be held.
func (b *Book) OpenPosition(symbol string, at time.Time, price Money, quantity Quantity) error {
	if _, ok := b.open[symbol]; ok {
		return fmt.Errorf("%w: symbol %s already held", ErrInvariant, symbol)
	}
	b.open[symbol] = OpenTrade(symbol, at, price, quantity)
	b.order = append(b.order, symbol)
	return nil
}

// AddToPosition averages quantity bought at price into an existing position.
func (b *Book) AddToPosition(symbol string, quantity Quantity, price Money, at time.Time) error {
	t, ok := b.open[symbol]
	if !ok {
		return fmt.Errorf("%w: no position for %s to add to", ErrInvariant, symbol)
	}
	b.open[symbol] = t.Averaged(quantity, price, at)
	return nil
}

// ReducePosition sells quantity of an existing position at price. A full
// reduction moves the trade to the closed list; a partial one records a
// synthetic closed trade for the realized slice and keeps the remainder open.
// Selling more than held (or a symbol not held) is a short sell.
func (b *Book) ReducePosition(symbol string, quantity Quantity, price Money, at time.Time) error {
	t, ok := b.open[symbol]
	if !ok {
		return fmt.Errorf("%w: no holding for %s on %s", ErrShortSell, symbol, at.Format(time.RFC3339))
	}
	if quantity.GreaterThan(t.Quantity) {
		return fmt.Errorf("%w: %s holds %s, cannot sell %s on %s",
			ErrShortSell, symbol, t.Quantity, quantity, at.Format(time.RFC3339))
	}
	if quantity.Equal(t.Quantity) {
		b.closed = append(b.closed, t.Closed(price, at))
		delete(b.open, symbol)
		b.order = slices.DeleteFunc(b.order, func(s string) bool { return s == symbol })
		return nil
	}
	realized, remaining := t.Sliced(quantity, price, at)
	b.closed = append(b.closed, realized)
	b.open[symbol] = remaining
	return nil
}

// RealizedPL recomputes the total realized profit and loss from the
// closed-trade list.
func (b *Book) RealizedPL() Money {
	var total Money
	for _, t := range b.closed {
		total = total.Add(t.RealizedPL())
	}
	return total
}

// MarketValue sums the value of open positions using the given price lookup.
// Positions without a price contribute their entry cost.
func (b *Book) MarketValue(price func(symbol string) (Money, bool)) Money {
	var total Money
	for t := range b.Positions() {
		p, ok := price(t.Symbol)
		if !ok {
			p = t.EntryPrice
		}
		total = total.Add(p.Mul(t.Quantity))
	}
	return total
}

// Equity returns cash plus the market value of open positions.
func (b *Book) Equity(price func(symbol string) (Money, bool)) Money {
	return b.cash.Add(b.MarketValue(price))
}

// Check enforces the ledger invariants. A violation aborts the run.
func (b *Book) Check(now time.Time) error {
	if len(b.open) > b.slots {
		return fmt.Errorf("%w: %d open positions exceed %d slots on %s",
			ErrInvariant, len(b.open), b.slots, now.Format(time.RFC3339))
	}
	free := b.cash.Sub(b.reserved)
	if free.LessThan(M(-cashEpsilon, free.Currency())) {
		return fmt.Errorf("%w: free cash %s is negative on %s (cash %s, reserved %s)",
			ErrInvariant, free, now.Format(time.RFC3339), b.cash, b.reserved)
	}
	return nil
}
