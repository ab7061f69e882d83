package sample

import (
	cfg "github.com/norgram/cfg"
	"github.com/norgram/cfg/grammar"
)

// pendingMinLength sums the minimal terminal-derivation length of every
// symbol frame still on the stack (guard-pop markers contribute nothing).
func pendingMinLength(stack []stackFrame, an *grammar.Analysis) cfg.Distance {
	var sum cfg.Distance
	for _, f := range stack {
		if f.isGuardPop {
			continue
		}
		d := an.MinDistance(f.sym)
		if d == cfg.Infinite {
			return cfg.Infinite
		}
		sum += d
	}
	return sum
}

// feasible filters productions to those whose choice would not push the
// committed minimal sentence length past maxLen. stack is the full
// pending-expansion stack as it stands with a (the nonterminal about to
// be replaced) still on top, so pendingMinLength(stack) counts d(a)
// itself; adding d(a) back on the right of the inequality cancels that
// out again, leaving the clean invariant emitted + pendingMinLength of
// the stack after substitution <= maxLen: a production a -> x1..xk is
// feasible iff sum(d(xi)) <= remaining + d(a), where remaining = maxLen
// - emitted - pendingMinLength(stack).
func feasible(prods []*grammar.Production, an *grammar.Analysis, a grammar.Symbol, emitted int, stack []stackFrame, maxLen int) []*grammar.Production {
	pending := pendingMinLength(stack, an)
	if pending == cfg.Infinite {
		return nil
	}
	remaining := cfg.Distance(maxLen-emitted) - pending
	dA := an.MinDistance(a)
	var out []*grammar.Production
	for _, p := range prods {
		sum := an.MinDistanceOfSequence(p.RHS)
		if sum == cfg.Infinite {
			continue
		}
		if dA != cfg.Infinite && sum <= remaining+dA {
			out = append(out, p)
		}
	}
	return out
}
