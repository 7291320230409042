package tracker

import (
	"github.com/google/uuid"
)

// Side is the direction of a pending order.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	if s == SideSell {
		return "sell"
	}
	return "buy"
}

// PendingOrder is an order queued during sizing and consumed at the start of
// the next step, once the host's fill simulator has had a chance to act.
// The quoted fee travels as an opaque string tag because the host order type
// has no dedicated fee field.
type PendingOrder struct {
	ID       string
	Symbol   string
	Side     Side
	Quantity Quantity // always positive; Side carries the direction
	Price    Money    // reference (limit) price at sizing time
	FeeTag   string
}

// newPendingOrder tags the order with the quoted fee and a fresh id.
func newPendingOrder(symbol string, side Side, quantity Quantity, price, fee Money) PendingOrder {
	return PendingOrder{
		ID:       uuid.NewString(),
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		Price:    price,
		FeeTag:   fee.value.String(),
	}
}

// fee decodes the fee tag back into the run currency, zero when absent
// or unreadable.
func (o PendingOrder) fee(currency string) Money {
	if o.FeeTag == "" {
		return Money{}
	}
	var m Money
	if err := m.UnmarshalJSON([]byte(o.FeeTag)); err != nil {
		return Money{}
	}
	m.cur = currency
	return m
}
