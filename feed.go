package tracker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// This file decodes simulation feeds: JSONL streams with one step per line,
// human-readable and git-friendly. The engine itself never touches files;
// feeds exist for the CLI driver and for tests.

// StepRecord is one line of a simulation feed.
type StepRecord struct {
	Time      time.Time       `json:"time"`
	Quotes    []QuoteRecord   `json:"quotes"`
	Insights  []InsightRecord `json:"insights,omitempty"`
	Liquidate bool            `json:"liquidate,omitempty"` // end-of-run signal
}

// QuoteRecord is the serialized form of a Quote.
type QuoteRecord struct {
	Symbol  string  `json:"symbol"`
	Price   float64 `json:"price"`
	Open    float64 `json:"open,omitempty"`
	High    float64 `json:"high,omitempty"`
	Low     float64 `json:"low,omitempty"`
	Close   float64 `json:"close,omitempty"`
	Session *bool   `json:"session,omitempty"` // nil: derive from the session calendar
}

// Quote converts the record to the engine's quote type. When the record has
// no session flag, the caller decides through sessionOpen (typically from a
// calendar.Session).
func (r QuoteRecord) Quote(currency string, sessionOpen bool) Quote {
	if r.Session != nil {
		sessionOpen = *r.Session
	}
	q := Quote{
		Symbol:      r.Symbol,
		Price:       M(r.Price, currency),
		Open:        M(r.Open, currency),
		High:        M(r.High, currency),
		Low:         M(r.Low, currency),
		Close:       M(r.Close, currency),
		SessionOpen: sessionOpen,
	}
	if r.Open == 0 {
		q.Open = q.Price
	}
	if r.Close == 0 {
		q.Close = q.Price
	}
	return q
}

// InsightRecord is the serialized form of an Insight.
type InsightRecord struct {
	Symbol    string    `json:"symbol"`
	Direction string    `json:"direction,omitempty"`
	Magnitude float64   `json:"magnitude"`
	Weight    *float64  `json:"weight,omitempty"`
	Expiry    time.Time `json:"expiry,omitzero"`
}

// Insight converts the record to the engine's insight type.
func (r InsightRecord) Insight() (Insight, error) {
	dir, err := ParseDirection(r.Direction)
	if err != nil {
		return Insight{}, err
	}
	return Insight{
		Symbol:    r.Symbol,
		Direction: dir,
		Magnitude: r.Magnitude,
		Weight:    r.Weight,
		Expiry:    r.Expiry,
	}, nil
}

// ParseDirection parses a direction name. The empty string means Up, the
// common case for long-only ranked feeds.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", "up", "long":
		return Up, nil
	case "down", "short":
		return Down, nil
	case "flat":
		return Flat, nil
	default:
		return Flat, fmt.Errorf("unknown direction %q", s)
	}
}

// DecodeFeed reads a JSONL feed, one step per line. Blank lines are skipped.
func DecodeFeed(r io.Reader) ([]StepRecord, error) {
	var steps []StepRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	i := 0
	for scanner.Scan() {
		i++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var step StepRecord
		if err := json.Unmarshal([]byte(line), &step); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", i, line, err)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read feed: %w", err)
	}
	return steps, nil
}

// EncodeFeed writes steps as a JSONL feed, one step per line.
func EncodeFeed(w io.Writer, steps []StepRecord) error {
	enc := json.NewEncoder(w)
	for _, step := range steps {
		if err := enc.Encode(step); err != nil {
			return fmt.Errorf("cannot encode step at %s: %w", step.Time.Format(time.RFC3339), err)
		}
	}
	return nil
}
