package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/calendar"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type simulateCmd struct {
	feedFile  string
	cash      float64
	slots     int
	rebalance float64
	reinvest  bool
	trimFloor bool
	currency  string
	feeFixed  float64
	feeRate   float64
	period    string
	verbose   bool
}

func (*simulateCmd) Name() string { return "simulate" }
func (*simulateCmd) Synopsis() string {
	return "replay a feed of quotes and ranked insights through the engine"
}
func (*simulateCmd) Usage() string {
	return `trk simulate -f <feed.jsonl> [-cash <amount>] [-slots <n>] [-rebalance <band>]

  Replays a JSONL feed (one step per line: time, quotes, ranked insights)
  through a tracker and prints a markdown run report: final equity, realized
  P&L, closed trades and the shadow benchmark return.

  Flag defaults can be set through TRK_* environment variables
  (TRK_CASH, TRK_SLOTS, TRK_REBALANCE, TRK_CURRENCY, TRK_FEE_FIXED,
  TRK_FEE_RATE).
`
}

func (p *simulateCmd) SetFlags(f *flag.FlagSet) {
	d, err := loadDefaults()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning, ignoring invalid TRK_* environment: %v\n", err)
	}
	f.StringVar(&p.feedFile, "f", "feed.jsonl", "Path to the feed file (JSONL format).")
	f.Float64Var(&p.cash, "cash", d.Cash, "Initial capital.")
	f.IntVar(&p.slots, "slots", d.Slots, "Maximum number of concurrent positions.")
	f.Float64Var(&p.rebalance, "rebalance", d.Rebalance, "Rebalance tolerance band (0.1 = 10%; 0 disables).")
	f.BoolVar(&p.reinvest, "reinvest", false, "Size positions against current equity instead of initial capital.")
	f.BoolVar(&p.trimFloor, "trim-floor", false, "Apply the twice-the-fee order floor to rebalance-down orders.")
	f.StringVar(&p.currency, "currency", d.Currency, "Run currency.")
	f.Float64Var(&p.feeFixed, "fee", d.FeeFixed, "Fixed fee per order.")
	f.Float64Var(&p.feeRate, "rate", d.FeeRate, "Proportional fee on order notional.")
	f.StringVar(&p.period, "period", "daily", "Bar period of the feed (daily, weekly).")
	f.BoolVar(&p.verbose, "v", false, "Log every trade decision.")
}

func (p *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := calendar.ParsePeriod(p.period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	file, err := os.Open(p.feedFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open feed %q: %v\n", p.feedFile, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	steps, err := tracker.DecodeFeed(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	opts := []tracker.Option{}
	if p.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot create logger: %v\n", err)
			return subcommands.ExitFailure
		}
		defer logger.Sync()
		opts = append(opts, tracker.WithLogf(logger.Sugar().Infof))
	}

	t, err := tracker.New(tracker.Config{
		Currency:       p.currency,
		Cash:           p.cash,
		Slots:          p.slots,
		Rebalance:      p.rebalance,
		Reinvest:       p.reinvest,
		FeeFloorOnTrim: p.trimFloor,
	}, tracker.FlatRate{Fixed: tracker.M(p.feeFixed, p.currency), Rate: p.feeRate}, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	session := calendar.AllDay
	var lastQuotes map[string]tracker.Quote
	for _, step := range steps {
		open := session.Covers(step.Time, period)
		quotes := make(map[string]tracker.Quote, len(step.Quotes))
		for _, qr := range step.Quotes {
			quotes[qr.Symbol] = qr.Quote(p.currency, open)
		}
		lastQuotes = quotes

		var insights []tracker.Insight
		if !step.Liquidate {
			insights = make([]tracker.Insight, 0, len(step.Insights))
			for _, ir := range step.Insights {
				in, err := ir.Insight()
				if err != nil {
					fmt.Fprintf(os.Stderr, "invalid insight at %s: %v\n", step.Time, err)
					return subcommands.ExitFailure
				}
				insights = append(insights, in)
			}
		}

		if _, err := t.Step(step.Time, insights, quotes); err != nil {
			fmt.Fprintf(os.Stderr, "run aborted: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	report := tracker.NewRunReport(t, lastQuotes, len(steps))
	md, err := report.Markdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
