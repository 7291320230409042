package tracker

import (
	"fmt"
	"strings"
	"text/template"
	"time"
)

// RunReport is an at-a-glance summary of a finished (or in-flight) run,
// renderable as markdown.
type RunReport struct {
	Currency     string
	Steps        int
	InitialCash  Money
	FinalEquity  Money
	Cash         Money
	RealizedPL   Money
	Return       Percent
	ShadowReturn Percent
	Open         []Trade
	Closed       []Trade
	ShadowCurve  []EquityPoint
}

// NewRunReport summarizes the state of a tracker after steps bars, valuing
// open positions at the given quotes.
func NewRunReport(t *Tracker, quotes map[string]Quote, steps int) RunReport {
	r := RunReport{
		Currency:    t.InitialCash().Currency(),
		Steps:       steps,
		InitialCash: t.InitialCash(),
		FinalEquity: t.Equity(quotes),
		Cash:        t.Book().Cash(),
		RealizedPL:  t.Book().RealizedPL(),
		Closed:      t.Book().ClosedTrades(),
		ShadowCurve: t.Shadow().Curve(),
	}
	for tr := range t.Book().Positions() {
		r.Open = append(r.Open, tr)
	}
	r.Return = Gain(t.InitialCash(), r.FinalEquity)
	if len(r.ShadowCurve) > 0 {
		first, last := r.ShadowCurve[0], r.ShadowCurve[len(r.ShadowCurve)-1]
		r.ShadowReturn = Gain(first.Equity, last.Equity)
	}
	return r
}

const reportTemplate = `# Run report

| | |
|---|---|
| Steps | {{.Steps}} |
| Initial cash | {{.InitialCash}} |
| Final equity | {{.FinalEquity}} |
| Cash | {{.Cash}} |
| Realized P&L | {{.RealizedPL.SignedString}} |
| Return | {{.Return.SignedString}} |
| Shadow return | {{.ShadowReturn.SignedString}} |

## Closed trades
{{if .Closed}}
| Symbol | Entry | Exit | Quantity | P&L |
|---|---|---|---|---|
{{- range .Closed}}
| {{.Symbol}} | {{.EntryPrice}} on {{day .EntryTime}} | {{.ExitPrice}} on {{day .ExitTime}} | {{.Quantity}} | {{.RealizedPL.SignedString}} |
{{- end}}
{{else}}
none
{{end}}
## Open positions
{{if .Open}}
| Symbol | Entry | Quantity |
|---|---|---|
{{- range .Open}}
| {{.Symbol}} | {{.EntryPrice}} on {{day .EntryTime}} | {{.Quantity}} |
{{- end}}
{{else}}
none
{{end}}`

// Markdown renders the report as a markdown document.
func (r RunReport) Markdown() (string, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"day": func(t time.Time) string { return t.Format("2006-01-02") },
	}).Parse(reportTemplate)
	if err != nil {
		return "", fmt.Errorf("cannot parse report template: %w", err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, r); err != nil {
		return "", fmt.Errorf("cannot render report: %w", err)
	}
	return sb.String(), nil
}
