package tracker

// FeeQuoter quotes the cost of an order. Implementations must be synchronous
// and side-effect-free; the engine may call them several times per step for
// the same order.
type FeeQuoter interface {
	QuoteFee(symbol string, quantity Quantity, price Money) Money
}

// QuoteFeeFunc adapts a plain function to the FeeQuoter interface.
type QuoteFeeFunc func(symbol string, quantity Quantity, price Money) Money

func (f QuoteFeeFunc) QuoteFee(symbol string, quantity Quantity, price Money) Money {
	return f(symbol, quantity, price)
}

// CeilCents wraps a quoter so that every fee is rounded up to a whole cent.
// Sizing reserves the rounded fee, so a buy can never under-reserve cash.
func CeilCents(q FeeQuoter) FeeQuoter {
	return QuoteFeeFunc(func(symbol string, quantity Quantity, price Money) Money {
		return q.QuoteFee(symbol, quantity, price).CeilCents()
	})
}

// FlatRate is a fee schedule with a fixed amount per order plus a
// proportional cost on the order notional.
type FlatRate struct {
	Fixed Money
	Rate  float64 // e.g. 0.0025 for 25 basis points
}

func (f FlatRate) QuoteFee(symbol string, quantity Quantity, price Money) Money {
	return f.Fixed.Add(price.Mul(quantity).Scale(f.Rate))
}

// NoFees quotes a zero fee for every order. The shadow simulator uses it:
// the shadow exists as a directional benchmark, not a realistic P&L estimate.
var NoFees FeeQuoter = QuoteFeeFunc(func(string, Quantity, Money) Money { return Money{} })
