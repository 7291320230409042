package tracker

import (
	"fmt"
	"slices"
	"time"
)

// Config carries the engine parameters for one run.
type Config struct {
	Currency  string  // run currency, defaults to USD
	Cash      float64 // initial capital
	Slots     int     // maximum number of concurrent positions
	Rebalance float64 // tolerance band fraction (0.1 = 10%); 0 disables rebalancing
	Reinvest  bool    // size against current equity instead of initial capital
	// FeeFloorOnTrim also applies the twice-the-fee order floor to
	// rebalance-down orders. Off by default: historically the floor only
	// applied to new opens.
	FeeFloorOnTrim bool
	ShadowNotional float64 // shadow ledger base, defaults to 100
}

func (c Config) withDefaults() Config {
	if c.Currency == "" {
		c.Currency = "USD"
	}
	if c.ShadowNotional == 0 {
		c.ShadowNotional = 100
	}
	return c
}

// Option configures optional engine dependencies.
type Option func(*Tracker)

// WithLogf sets the diagnostic log sink. The sink is advisory only and is
// never read back by the engine.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(t *Tracker) { t.logf = logf }
}

// WithClock sets the time source used when a step carries a zero time.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) { t.clock = clock }
}

// Tracker is the portfolio construction engine. One instance drives exactly
// one run; concurrent runs each get their own instance with no shared state.
type Tracker struct {
	cfg     Config
	fees    FeeQuoter
	logf    func(format string, args ...any)
	clock   func() time.Time
	book    *Book
	pending []PendingOrder
	shadow  *Shadow
	initial Money
	done    bool
}

// New creates an engine. The fee quoter is wrapped so quotes are rounded up
// to whole cents before sizing reserves them; passing nil disables fees.
func New(cfg Config, fees FeeQuoter, opts ...Option) (*Tracker, error) {
	cfg = cfg.withDefaults()
	if cfg.Slots <= 0 {
		return nil, fmt.Errorf("slot capacity must be positive, got %d", cfg.Slots)
	}
	if cfg.Cash <= 0 {
		return nil, fmt.Errorf("initial cash must be positive, got %v", cfg.Cash)
	}
	if fees == nil {
		fees = NoFees
	}
	t := &Tracker{
		cfg:     cfg,
		fees:    CeilCents(fees),
		logf:    func(string, ...any) {},
		clock:   time.Now,
		initial: M(cfg.Cash, cfg.Currency),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.book = NewBook(t.initial, cfg.Slots)
	t.shadow = newShadow(M(cfg.ShadowNotional, cfg.Currency), cfg.Slots, cfg.Rebalance, t.logf)
	return t, nil
}

// Book exposes the position ledger, for inspection only.
func (t *Tracker) Book() *Book { return t.book }

// Shadow exposes the shadow portfolio simulator.
func (t *Tracker) Shadow() *Shadow { return t.shadow }

// Done reports whether the end-of-run liquidation has happened. Once done,
// further steps are no-ops.
func (t *Tracker) Done() bool { return t.done }

// InitialCash returns the run's starting capital.
func (t *Tracker) InitialCash() Money { return t.initial }

// Equity returns cash plus the market value of open positions at the given
// quotes' reference prices.
func (t *Tracker) Equity(quotes map[string]Quote) Money {
	return t.book.Equity(closeLookup(quotes))
}

// Step processes one bar of market data: it settles the previous step's
// pending orders, releases their reservations, then runs the close,
// rebalance and open passes over the ranked insights and returns the
// resulting target list. A nil insight slice is the end-of-run signal: all
// holdings are liquidated at closing prices and nil targets acknowledge it.
//
// A returned error wrapping ErrInvariant is fatal and must abort the run.
func (t *Tracker) Step(now time.Time, insights []Insight, quotes map[string]Quote) ([]Target, error) {
	if t.done {
		return nil, nil
	}
	if now.IsZero() {
		now = t.clock()
	}

	// Pending orders and reservations live exactly one step.
	if err := settle(t.book, t.pending, quotes, t.cfg.Currency, now, t.logf); err != nil {
		return nil, err
	}
	t.pending = nil
	t.book.ResetReserved()

	if insights == nil {
		return nil, t.liquidate(now, quotes)
	}

	toplist := Toplist(insights, t.cfg.Slots, now)
	d := &decider{
		book:           t.book,
		fees:           t.fees,
		base:           t.sizingBase(quotes),
		band:           t.cfg.Rebalance,
		feeFloorOnTrim: t.cfg.FeeFloorOnTrim,
		price:          closePrice,
		now:            now,
		toplist:        toplist,
		quotes:         quotes,
		logf:           t.logf,
	}
	orders, targets := d.run()
	t.pending = orders

	if err := t.shadow.Step(now, toplist, quotes); err != nil {
		return nil, err
	}
	if err := t.book.Check(now); err != nil {
		return nil, err
	}
	return targets.list(), nil
}

// sizingBase is the capital base model sizes derive from.
func (t *Tracker) sizingBase(quotes map[string]Quote) Money {
	if t.cfg.Reinvest {
		return t.book.Equity(closeLookup(quotes))
	}
	return t.initial
}

// liquidate closes every remaining holding at its closing price. After
// liquidation the ledger is frozen.
func (t *Tracker) liquidate(now time.Time, quotes map[string]Quote) error {
	for _, symbol := range slices.Clone(t.book.order) {
		tr := t.book.open[symbol]
		price := tr.EntryPrice
		if q, ok := quotes[symbol]; ok && q.Close.IsPositive() {
			price = q.Close
		}
		fee := t.fees.QuoteFee(symbol, tr.Quantity, price)
		if err := t.book.ReducePosition(symbol, tr.Quantity, price, now); err != nil {
			return err
		}
		t.book.Credit(price.Mul(tr.Quantity).Sub(fee))
		t.logf("%s: liquidated %s %s at %s", now.Format(time.RFC3339), tr.Quantity, symbol, price)
	}
	t.done = true
	return t.book.Check(now)
}
