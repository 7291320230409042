package tracker

// Quote is the per-symbol market record the host supplies every step.
type Quote struct {
	Symbol      string
	Price       Money // current reference price
	Open        Money
	High        Money
	Low         Money
	Close       Money
	Held        Quantity // holdings reported by the host's execution layer
	SessionOpen bool     // true when the symbol's exchange session is open at the bar end
}

// prices used by the engine and the shadow simulator.

// closePrice is the real ledger's reference price for a quote.
func closePrice(q Quote) Money { return q.Price }

// openPrice is the shadow ledger's reference price for a quote.
func openPrice(q Quote) Money { return q.Open }
