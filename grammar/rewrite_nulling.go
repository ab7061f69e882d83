package grammar

// EliminateNulling rewrites a binarized grammar so that no nonterminal
// other than (possibly) the start symbol is nullable, the "proper
// nullable" treatment Earley-style parsers expect. Fails with
// ErrNotBinarized if any surviving production still has RHS length > 2.
//
// For each binary production A -> x y: keep it unchanged, and additionally
// emit A -> y if x is nullable, A -> x if y is nullable, and A -> ε (only
// when A is the start symbol) if both are nullable. For each unary
// production A -> x: keep it, and additionally emit A -> ε (start only) if
// x is nullable. An original A -> ε production is kept only when A is the
// start symbol. Every other A -> ε that would otherwise result is dropped.
//
// The returned grammar's NullsEmptyString reports whether the start
// symbol was nullable in the input.
func EliminateNulling(g *Grammar) (*Grammar, error) {
	for _, p := range g.Iter() {
		if len(p.RHS) > 2 {
			return nil, ErrNotBinarized
		}
	}
	nullable, err := ComputeNullable(g, nil)
	if err != nil {
		return nil, err
	}
	start, startErr := g.Start()
	isStart := func(s Symbol) bool { return startErr == nil && s.ID == start.ID }

	out := g.Clone()
	out.Retain(func(*Production) bool { return false })
	for _, p := range g.Iter() {
		switch len(p.RHS) {
		case 0:
			if isStart(p.LHS) {
				if _, err := out.addRuleHistory(p.LHS, nil, Derive(NullingEliminated, "start epsilon kept", p.Hist)); err != nil {
					return nil, err
				}
			}
		case 1:
			if _, err := out.addRuleHistory(p.LHS, p.RHS, Derive(NullingEliminated, "unchanged", p.Hist)); err != nil {
				return nil, err
			}
			if nullable.has(p.RHS[0]) && isStart(p.LHS) {
				if _, err := out.addRuleHistory(p.LHS, nil, Derive(NullingEliminated, "unary nulled, start only", p.Hist)); err != nil {
					return nil, err
				}
			}
		case 2:
			x, y := p.RHS[0], p.RHS[1]
			if _, err := out.addRuleHistory(p.LHS, p.RHS, Derive(NullingEliminated, "unchanged", p.Hist)); err != nil {
				return nil, err
			}
			xNullable, yNullable := nullable.has(x), nullable.has(y)
			if xNullable {
				if _, err := out.addRuleHistory(p.LHS, []Symbol{y}, Derive(NullingEliminated, "x nulled", p.Hist)); err != nil {
					return nil, err
				}
			}
			if yNullable {
				if _, err := out.addRuleHistory(p.LHS, []Symbol{x}, Derive(NullingEliminated, "y nulled", p.Hist)); err != nil {
					return nil, err
				}
			}
			if xNullable && yNullable && isStart(p.LHS) {
				if _, err := out.addRuleHistory(p.LHS, nil, Derive(NullingEliminated, "both nulled, start only", p.Hist)); err != nil {
					return nil, err
				}
			}
		}
	}
	if startErr == nil {
		out.nullsEmptyString = nullable.has(start)
	}
	return out, nil
}
