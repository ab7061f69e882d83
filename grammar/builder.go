package grammar

import (
	"fmt"

	cfg "github.com/norgram/cfg"
)

// RuleBuilder is the flat rule-building surface: `g.Rule(lhs).RHS(a, b, c)`
// adds one production per RHS/Epsilon call, and is chainable for further
// alternatives sharing the same LHS. Builders are pure façades over
// Grammar.AddRule: the productions they produce do not depend on the
// order in which sibling alternatives are added.
type RuleBuilder struct {
	g   *Grammar
	lhs Symbol
}

// Rule starts (or continues) building alternatives for lhs.
func (g *Grammar) Rule(lhs Symbol) *RuleBuilder {
	return &RuleBuilder{g: g, lhs: lhs}
}

// RHS adds one production lhs -> rhs. Returns the builder so further
// alternatives for the same LHS can be chained: `g.Rule(S).RHS(a).RHS(b)`.
func (b *RuleBuilder) RHS(rhs ...Symbol) *RuleBuilder {
	if _, err := b.g.AddRule(b.lhs, rhs); err != nil {
		// A foreign symbol here is a programming error in the caller's
		// own code (it allocated the symbol itself), not a runtime
		// condition a fluent chain should force every call site to
		// check. AddRule remains the place to get the error back when
		// that matters.
		panic(fmt.Sprintf("grammar: RuleBuilder.RHS: %v", err))
	}
	return b
}

// Epsilon adds the empty production lhs -> ε.
func (b *RuleBuilder) Epsilon() *RuleBuilder {
	return b.RHS()
}

// Weighted adds one production lhs -> rhs carrying the given PCFG weight,
// for use with package sample. Plain RHS/Epsilon calls default to weight
// 0; set Production.Weight directly on the result of Grammar.AddRule if
// you need the handle instead of the fluent chain.
func (b *RuleBuilder) Weighted(weight float64, rhs ...Symbol) *RuleBuilder {
	p, err := b.g.AddRule(b.lhs, rhs)
	if err != nil {
		panic(fmt.Sprintf("grammar: RuleBuilder.Weighted: %v", err))
	}
	p.Weight = cfg.Weight(weight)
	return b
}
