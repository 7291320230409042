package tracker

import "testing"

func TestFlatRate(t *testing.T) {
	tests := []struct {
		name     string
		fee      FlatRate
		quantity Quantity
		price    Money
		want     Money
	}{
		{"fixed only", FlatRate{Fixed: M(1, "USD")}, Q(100), M(10, "USD"), M(1, "USD")},
		{"rate only", FlatRate{Rate: 0.0025}, Q(100), M(10, "USD"), M(2.5, "USD")},
		{"fixed plus rate", FlatRate{Fixed: M(1, "USD"), Rate: 0.001}, Q(50), M(20, "USD"), M(2, "USD")},
		{"zero order", FlatRate{Fixed: M(1, "USD"), Rate: 0.001}, Q(0), M(20, "USD"), M(1, "USD")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.fee.QuoteFee("A", tc.quantity, tc.price)
			if !got.Equal(tc.want) {
				t.Errorf("QuoteFee() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCeilCents(t *testing.T) {
	sub := QuoteFeeFunc(func(_ string, q Quantity, p Money) Money {
		return p.Mul(q).Scale(0.0001)
	})
	rounded := CeilCents(sub)

	// 3 * 10.01 * 0.0001 = 0.003003 -> 0.01
	if got, want := rounded.QuoteFee("A", Q(3), M(10.01, "USD")), M(0.01, "USD"); !got.Equal(want) {
		t.Errorf("QuoteFee() = %s, want %s", got, want)
	}
	// already whole cents stays put
	if got, want := rounded.QuoteFee("A", Q(100), M(10, "USD")), M(0.10, "USD"); !got.Equal(want) {
		t.Errorf("QuoteFee() = %s, want %s", got, want)
	}
}

func TestNoFees(t *testing.T) {
	if got := NoFees.QuoteFee("A", Q(1000), M(99.99, "USD")); !got.IsZero() {
		t.Errorf("NoFees quoted %s, want zero", got)
	}
}
