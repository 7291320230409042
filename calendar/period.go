package calendar

import (
	"fmt"
	"strings"
)

// Period is the duration of one market-data bar.
type Period int

const (
	Daily Period = iota
	Weekly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// Days returns the number of calendar days one bar spans.
func (p Period) Days() int {
	if p == Weekly {
		return 7
	}
	return 1
}

func ParsePeriod(p string) (Period, error) {
	p = strings.ToLower(p)
	switch p {
	case "daily", "day":
		return Daily, nil
	case "weekly", "week":
		return Weekly, nil
	default:
		return Daily, fmt.Errorf("unknown period %s", p)
	}
}
