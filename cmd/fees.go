package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

type feesCmd struct {
	currency string
	feeFixed float64
	feeRate  float64
	price    float64
}

func (*feesCmd) Name() string     { return "fees" }
func (*feesCmd) Synopsis() string { return "print the effective fee schedule for sample order sizes" }
func (*feesCmd) Usage() string {
	return `trk fees [-fee <fixed>] [-rate <rate>] [-price <price>]

  Prints the cent-rounded fee and the minimum viable order notional (twice
  the fee) for a range of order sizes, as the sizing engine would quote them.
`
}

func (p *feesCmd) SetFlags(f *flag.FlagSet) {
	d, err := loadDefaults()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning, ignoring invalid TRK_* environment: %v\n", err)
	}
	f.StringVar(&p.currency, "currency", d.Currency, "Run currency.")
	f.Float64Var(&p.feeFixed, "fee", d.FeeFixed, "Fixed fee per order.")
	f.Float64Var(&p.feeRate, "rate", d.FeeRate, "Proportional fee on order notional.")
	f.Float64Var(&p.price, "price", 100, "Reference price per share.")
}

func (p *feesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	quoter := tracker.CeilCents(tracker.FlatRate{
		Fixed: tracker.M(p.feeFixed, p.currency),
		Rate:  p.feeRate,
	})
	price := tracker.M(p.price, p.currency)

	var sb strings.Builder
	sb.WriteString("# Fee schedule\n\n| Shares | Notional | Fee | Min. viable notional |\n|---|---|---|---|\n")
	for _, shares := range []int{1, 10, 100, 1000} {
		quantity := tracker.Q(shares)
		fee := quoter.QuoteFee("", quantity, price)
		fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", shares, price.Mul(quantity), fee, fee.Scale(2))
	}
	printMarkdown(sb.String())
	return subcommands.ExitSuccess
}
