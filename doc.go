// Package tracker implements a slot-constrained, insight-driven portfolio
// construction engine with a shadow-ledger benchmark.
//
// Each time step the host delivers a ranked list of insights (directional
// signals) together with per-symbol quotes. The engine decides, under a fixed
// number of position slots and a finite cash balance, which positions to
// open, hold, rebalance or close, accounting for transaction fees,
// whole-share truncation and a non-negative cash invariant. A parallel
// shadow portfolio replays the same insights against a small fixed notional
// to produce a benchmark equity curve.
//
// The engine is single-threaded and synchronous: one step is fully processed
// before the next step's insights are accepted. It owns no network or file
// surface; all boundaries are in-process calls from the host.
package tracker
