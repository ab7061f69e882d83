package sample

import "github.com/norgram/cfg/grammar"

// Guard is a negative zero-width lookahead constraint: while active, the
// next terminal emitted must not be one of Forbidden. Guards attach to a
// nonterminal symbol via WithGuard and take effect for exactly the span
// of that symbol's own expansion (they expire the instant every terminal
// derived from it has been emitted).
type Guard struct {
	Forbidden map[grammar.SymbolID]bool
}

// NewGuard builds a Guard forbidding every symbol in forbidden.
func NewGuard(forbidden ...grammar.Symbol) *Guard {
	m := make(map[grammar.SymbolID]bool, len(forbidden))
	for _, s := range forbidden {
		m[s.ID] = true
	}
	return &Guard{Forbidden: m}
}

func (g *Guard) forbids(s grammar.Symbol) bool {
	return g != nil && g.Forbidden[s.ID]
}

// stackFrame is one entry of the pending-expansion stack: either a symbol
// still to be emitted/expanded, or a marker that pops a guard out of the
// active set once everything above it on the stack (i.e. everything the
// guarded symbol expanded into) has been resolved.
type stackFrame struct {
	sym        grammar.Symbol
	isGuardPop bool
	guard      *Guard
}

func symbolFrame(s grammar.Symbol) stackFrame { return stackFrame{sym: s} }

func guardPopFrame(g *Guard) stackFrame { return stackFrame{isGuardPop: true, guard: g} }
