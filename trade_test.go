package tracker

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, time.January, 10, 16, 0, 0, 0, time.UTC)

func TestTrade_Averaged(t *testing.T) {
	tr := OpenTrade("AAPL", t0, M(100, "USD"), Q(10))
	tr = tr.Averaged(Q(10), M(120, "USD"), t0.AddDate(0, 0, 1))

	if !tr.Quantity.Equal(Q(20)) {
		t.Errorf("Quantity = %s, want 20", tr.Quantity)
	}
	// (10*100 + 10*120) / 20 = 110
	if !tr.EntryPrice.Equal(M(110, "USD")) {
		t.Errorf("EntryPrice = %s, want 110", tr.EntryPrice)
	}
	if !tr.EntryTime.Equal(t0) {
		t.Errorf("EntryTime = %s, want original %s", tr.EntryTime, t0)
	}
}

func TestTrade_Sliced(t *testing.T) {
	tr := OpenTrade("AAPL", t0, M(100, "USD"), Q(10))
	at := t0.AddDate(0, 0, 5)
	realized, remaining := tr.Sliced(Q(4), M(110, "USD"), at)

	if realized.IsOpen() {
		t.Fatal("realized slice should be closed")
	}
	// (110-100)*4 = 40
	if !realized.RealizedPL().Equal(M(40, "USD")) {
		t.Errorf("RealizedPL() = %s, want 40", realized.RealizedPL())
	}
	if !remaining.IsOpen() {
		t.Error("remaining position should stay open")
	}
	if !remaining.Quantity.Equal(Q(6)) {
		t.Errorf("remaining quantity = %s, want 6", remaining.Quantity)
	}
	if !remaining.EntryPrice.Equal(M(100, "USD")) {
		t.Errorf("remaining entry price = %s, want unchanged 100", remaining.EntryPrice)
	}
}

func TestTrade_Closed(t *testing.T) {
	tr := OpenTrade("AAPL", t0, M(100, "USD"), Q(10))
	if got := tr.RealizedPL(); !got.IsZero() {
		t.Errorf("open trade RealizedPL() = %s, want 0", got)
	}
	closed := tr.Closed(M(90, "USD"), t0.AddDate(0, 0, 2))
	if closed.IsOpen() {
		t.Fatal("Closed() should not be open")
	}
	if !closed.RealizedPL().Equal(M(-100, "USD")) {
		t.Errorf("RealizedPL() = %s, want -100", closed.RealizedPL())
	}
}
