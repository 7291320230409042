package tracker

import "fmt"

// Percent is a percentage figure used in run reports, e.g. a return of
// 12.5 renders as "12.50%".
type Percent float64

// Gain returns the percentage change from one money amount to another,
// zero when the starting amount is zero.
func Gain(from, to Money) Percent {
	f := from.AsFloat()
	if f == 0 {
		return 0
	}
	return Percent((to.AsFloat() - f) / f * 100)
}

// Equal compares two percentages with a 1e-4 precision.
func (p Percent) Equal(q Percent) bool {
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.0001
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

// SignedString renders the percentage with an explicit sign, and
// a zero value as "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
