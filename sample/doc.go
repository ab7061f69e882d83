// Package sample implements the weighted PCFG sentence generator: given a
// grammar whose productions carry non-negative weights, it draws terminal
// sentences by repeatedly expanding the top of a pending-symbol stack,
// choosing among a nonterminal's productions by weighted sampling
// restricted to what still fits a length budget and satisfies any active
// negative lookahead guard.
//
// A Sampler is built around a grammar.Analysis (for minimal-distance
// feasibility checks) and an abstract Source of random draws; the
// generator never calls math/rand directly, so callers can substitute a
// seeded, reproducible source.
package sample

import "github.com/npillmayer/schuko/tracing"

func tracer() tracing.Trace {
	return tracing.Select("cfg.sample")
}
