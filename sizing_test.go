package tracker

import (
	"testing"
	"time"
)

func newDecider(b *Book, fees FeeQuoter, base Money, band float64, toplist []Insight, quotes map[string]Quote) *decider {
	return &decider{
		book:    b,
		fees:    fees,
		base:    base,
		band:    band,
		price:   closePrice,
		now:     time.Date(2025, time.May, 5, 16, 0, 0, 0, time.UTC),
		toplist: toplist,
		quotes:  quotes,
		logf:    noLog,
	}
}

func TestOpenPass_SingleInsight(t *testing.T) {
	b := NewBook(M(1000, "USD"), 2)
	toplist := []Insight{{Symbol: "A", Direction: Up, Magnitude: 1, Weight: w(1)}}
	quotes := map[string]Quote{"A": quoteBar("A", 10, 11, 9, 10)}
	d := newDecider(b, CeilCents(FlatRate{Fixed: M(1, "USD")}), M(1000, "USD"), 0, toplist, quotes)

	orders, targets := d.run()

	// weight 1 over max(wsum 1, slots 2) -> 500 notional; a 50-share trial
	// quotes a 1 fee, so the funded quantity re-floors to 49.
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	o := orders[0]
	if o.Side != SideBuy || !o.Quantity.Equal(Q(49)) || !o.Price.Equal(M(10, "USD")) {
		t.Errorf("order = %s %s at %s, want buy 49 at 10", o.Side, o.Quantity, o.Price)
	}
	got := targets.list()
	if len(got) != 1 || got[0].Symbol != "A" || !got[0].Quantity.Equal(Q(49)) {
		t.Errorf("targets = %v, want [A:49]", got)
	}
	// notional 490 plus the 1 fee
	if !b.Reserved().Equal(M(491, "USD")) {
		t.Errorf("reserved = %s, want 491", b.Reserved())
	}
}

func TestOpenPass_SplitsAcrossInsights(t *testing.T) {
	b := NewBook(M(1000, "USD"), 2)
	toplist := []Insight{
		{Symbol: "A", Direction: Up, Magnitude: 2, Weight: w(1)},
		{Symbol: "B", Direction: Up, Magnitude: 1, Weight: w(1)},
	}
	quotes := map[string]Quote{
		"A": quoteBar("A", 10, 11, 9, 10),
		"B": quoteBar("B", 20, 21, 19, 20),
	}
	d := newDecider(b, NoFees, M(1000, "USD"), 0, toplist, quotes)

	orders, _ := d.run()
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(orders))
	}
	if !orders[0].Quantity.Equal(Q(50)) {
		t.Errorf("A quantity = %s, want 50", orders[0].Quantity)
	}
	if !orders[1].Quantity.Equal(Q(25)) {
		t.Errorf("B quantity = %s, want 25", orders[1].Quantity)
	}
	if !b.FreeCash().IsZero() {
		t.Errorf("free cash = %s, want fully reserved", b.FreeCash())
	}
}

func TestOpenPass_StopsAtFreeSlots(t *testing.T) {
	b := NewBook(M(1000, "USD"), 1)
	toplist := []Insight{
		{Symbol: "A", Direction: Up, Magnitude: 2, Weight: w(1)},
		{Symbol: "B", Direction: Up, Magnitude: 1, Weight: w(1)},
	}
	quotes := map[string]Quote{
		"A": quoteBar("A", 10, 11, 9, 10),
		"B": quoteBar("B", 10, 11, 9, 10),
	}
	d := newDecider(b, NoFees, M(1000, "USD"), 0, toplist, quotes)

	orders, _ := d.run()
	if len(orders) != 1 || orders[0].Symbol != "A" {
		t.Fatalf("orders = %v, want the single best-ranked insight", orders)
	}
}

func TestOpenPass_FeeDominatedOrderRejected(t *testing.T) {
	b := NewBook(M(1000, "USD"), 2)
	toplist := []Insight{{Symbol: "A", Direction: Up, Magnitude: 1, Weight: w(1)}}
	quotes := map[string]Quote{"A": quoteBar("A", 100, 101, 99, 100)}
	// notional 500, trial 5 shares, fee 160: 3 funded shares are worth 300,
	// under twice the fee.
	d := newDecider(b, FlatRate{Fixed: M(160, "USD")}, M(1000, "USD"), 0, toplist, quotes)

	orders, targets := d.run()
	if len(orders) != 0 || len(targets.list()) != 0 {
		t.Errorf("orders = %v, targets = %v, want none for a fee-dominated order", orders, targets.list())
	}
	if !b.Reserved().IsZero() {
		t.Errorf("reserved = %s, want nothing reserved", b.Reserved())
	}
}

func TestOpenPass_NoUsableWeights(t *testing.T) {
	b := NewBook(M(1000, "USD"), 2)
	toplist := []Insight{{Symbol: "A", Direction: Up, Magnitude: 1}} // no weight
	quotes := map[string]Quote{"A": quoteBar("A", 10, 11, 9, 10)}
	d := newDecider(b, NoFees, M(1000, "USD"), 0, toplist, quotes)

	orders, _ := d.run()
	if len(orders) != 0 {
		t.Errorf("orders = %v, want none without sizing weights", orders)
	}
}

func TestClosePass(t *testing.T) {
	now := time.Date(2025, time.May, 5, 16, 0, 0, 0, time.UTC)

	t.Run("queues a full close for dropped symbols", func(t *testing.T) {
		b := NewBook(M(100, "USD"), 2)
		if err := b.OpenPosition("A", now, M(10, "USD"), Q(50)); err != nil {
			t.Fatal(err)
		}
		quotes := map[string]Quote{"A": quoteBar("A", 12, 13, 11, 12)}
		d := newDecider(b, CeilCents(FlatRate{Fixed: M(1, "USD")}), M(1000, "USD"), 0, nil, quotes)

		orders, targets := d.run()
		if len(orders) != 1 || orders[0].Side != SideSell || !orders[0].Quantity.Equal(Q(50)) {
			t.Fatalf("orders = %v, want a full 50-share sell", orders)
		}
		got := targets.list()
		if len(got) != 1 || got[0].Symbol != "A" || !got[0].Quantity.IsZero() {
			t.Errorf("targets = %v, want [A:0]", got)
		}
		// the estimated sell fee is reserved so a same-step buy cannot spend it
		if !b.Reserved().Equal(M(1, "USD")) {
			t.Errorf("reserved = %s, want the 1 fee", b.Reserved())
		}
	})

	t.Run("defers the close when free cash cannot cover the fee", func(t *testing.T) {
		b := NewBook(M(0.5, "USD"), 2)
		if err := b.OpenPosition("A", now, M(10, "USD"), Q(50)); err != nil {
			t.Fatal(err)
		}
		quotes := map[string]Quote{"A": quoteBar("A", 12, 13, 11, 12)}
		d := newDecider(b, CeilCents(FlatRate{Fixed: M(1, "USD")}), M(1000, "USD"), 0, nil, quotes)

		orders, targets := d.run()
		if len(orders) != 0 || len(targets.list()) != 0 {
			t.Errorf("orders = %v, targets = %v, want the close deferred", orders, targets.list())
		}
	})

	t.Run("skips symbols without a quote", func(t *testing.T) {
		b := NewBook(M(100, "USD"), 2)
		if err := b.OpenPosition("A", now, M(10, "USD"), Q(50)); err != nil {
			t.Fatal(err)
		}
		d := newDecider(b, NoFees, M(1000, "USD"), 0, nil, map[string]Quote{})

		orders, _ := d.run()
		if len(orders) != 0 {
			t.Errorf("orders = %v, want none without bar data", orders)
		}
	})
}

func TestRebalancePass(t *testing.T) {
	now := time.Date(2025, time.May, 5, 16, 0, 0, 0, time.UTC)
	toplist := []Insight{{Symbol: "A", Direction: Up, Magnitude: 1, Weight: w(1)}}
	quotes := map[string]Quote{"A": quoteBar("A", 10, 11, 9, 10)}

	t.Run("tops up a position well under its model size", func(t *testing.T) {
		b := NewBook(M(1000, "USD"), 2)
		if err := b.OpenPosition("A", now, M(10, "USD"), Q(10)); err != nil {
			t.Fatal(err)
		}
		d := newDecider(b, NoFees, M(1000, "USD"), 0.1, toplist, quotes)

		orders, targets := d.run()
		// model is 50 shares; held 10 is under the 45-share band edge
		if len(orders) != 1 || orders[0].Side != SideBuy || !orders[0].Quantity.Equal(Q(40)) {
			t.Fatalf("orders = %v, want buy 40", orders)
		}
		got := targets.list()
		if len(got) != 1 || !got[0].Quantity.Equal(Q(50)) {
			t.Errorf("targets = %v, want [A:50]", got)
		}
	})

	t.Run("defers the top-up when free cash cannot fund the model size", func(t *testing.T) {
		b := NewBook(M(10, "USD"), 2)
		if err := b.OpenPosition("A", now, M(10, "USD"), Q(10)); err != nil {
			t.Fatal(err)
		}
		d := newDecider(b, NoFees, M(1000, "USD"), 0.1, toplist, quotes)

		orders, targets := d.run()
		if len(orders) != 0 || len(targets.list()) != 0 {
			t.Errorf("orders = %v, targets = %v, want the top-up deferred", orders, targets.list())
		}
	})

	t.Run("trims a position well over its model size", func(t *testing.T) {
		b := NewBook(M(0, "USD"), 2)
		if err := b.OpenPosition("A", now, M(10, "USD"), Q(100)); err != nil {
			t.Fatal(err)
		}
		d := newDecider(b, NoFees, M(1000, "USD"), 0.1, toplist, quotes)

		orders, targets := d.run()
		// trimming needs no free cash: selling raises it
		if len(orders) != 1 || orders[0].Side != SideSell || !orders[0].Quantity.Equal(Q(50)) {
			t.Fatalf("orders = %v, want sell 50", orders)
		}
		got := targets.list()
		if len(got) != 1 || !got[0].Quantity.Equal(Q(50)) {
			t.Errorf("targets = %v, want [A:50]", got)
		}
	})

	t.Run("holds inside the band", func(t *testing.T) {
		b := NewBook(M(1000, "USD"), 2)
		if err := b.OpenPosition("A", now, M(10, "USD"), Q(48)); err != nil {
			t.Fatal(err)
		}
		d := newDecider(b, NoFees, M(1000, "USD"), 0.1, toplist, quotes)

		orders, targets := d.run()
		if len(orders) != 0 || len(targets.list()) != 0 {
			t.Errorf("orders = %v, targets = %v, want hold", orders, targets.list())
		}
	})

	t.Run("fee floor on trims is opt-in", func(t *testing.T) {
		// held 56 against a model of 50: the 6-share trim is worth 60,
		// under twice the 40 fee.
		newBook := func() *Book {
			b := NewBook(M(0, "USD"), 2)
			if err := b.OpenPosition("A", now, M(10, "USD"), Q(56)); err != nil {
				t.Fatal(err)
			}
			return b
		}
		fees := FlatRate{Fixed: M(40, "USD")}

		d := newDecider(newBook(), fees, M(1000, "USD"), 0.1, toplist, quotes)
		if orders, _ := d.run(); len(orders) != 1 {
			t.Errorf("orders = %v, want the trim queued with the floor off", orders)
		}

		d = newDecider(newBook(), fees, M(1000, "USD"), 0.1, toplist, quotes)
		d.feeFloorOnTrim = true
		if orders, _ := d.run(); len(orders) != 0 {
			t.Errorf("orders = %v, want the trim skipped with the floor on", orders)
		}
	})
}
