package cmd

import "github.com/caarlos0/env/v10"

// defaults are the environment-backed flag defaults. Flags always win.
type defaults struct {
	Cash      float64 `env:"TRK_CASH" envDefault:"10000"`
	Slots     int     `env:"TRK_SLOTS" envDefault:"5"`
	Rebalance float64 `env:"TRK_REBALANCE" envDefault:"0"`
	Currency  string  `env:"TRK_CURRENCY" envDefault:"USD"`
	FeeFixed  float64 `env:"TRK_FEE_FIXED" envDefault:"1"`
	FeeRate   float64 `env:"TRK_FEE_RATE" envDefault:"0.0025"`
}

func loadDefaults() (defaults, error) {
	var d defaults
	return d, env.Parse(&d)
}
