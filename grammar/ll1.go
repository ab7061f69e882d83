package grammar

import "fmt"

// ConflictKind classifies why two alternatives of the same nonterminal
// cannot be told apart by one token of lookahead.
type ConflictKind int

const (
	// FirstFirst: two non-nullable alternatives share a FIRST terminal.
	FirstFirst ConflictKind = iota
	// FirstFollow: a nullable alternative's FOLLOW set overlaps another
	// alternative's FIRST set.
	FirstFollow
	// NullableAmbiguity: more than one alternative of the same
	// nonterminal can derive the empty string, so no lookahead token
	// distinguishes which one a predictive parser should have taken.
	NullableAmbiguity
)

func (k ConflictKind) String() string {
	switch k {
	case FirstFirst:
		return "FIRST/FIRST"
	case FirstFollow:
		return "FIRST/FOLLOW"
	case NullableAmbiguity:
		return "nullable-ambiguity"
	default:
		return "?"
	}
}

// Conflict reports one LL(1) violation between two alternatives of the
// same nonterminal, naming the offending pair of rules and, where
// applicable, a concrete terminal on which they collide.
type Conflict struct {
	NonTerminal Symbol
	RuleA       *Production
	RuleB       *Production
	Kind        ConflictKind
	Terminal    Symbol // zero Symbol for NullableAmbiguity
}

func (c Conflict) String() string {
	if c.Kind == NullableAmbiguity {
		return fmt.Sprintf("%s: %s nullable-ambiguity with %s", c.NonTerminal, c.RuleA, c.RuleB)
	}
	return fmt.Sprintf("%s: %s conflicts with %s on %s (%s)", c.NonTerminal, c.RuleA, c.RuleB, c.Terminal, c.Kind)
}

// predictSet computes PREDICT(p) = FIRST(p.RHS) union (FOLLOW(p.LHS) if
// p.RHS is nullable), the set of lookahead terminals a predictive parser
// would use to choose p.
func predictSet(a *Analysis, p *Production, follow symSet) (symSet, error) {
	set := symSet{}
	for _, s := range a.FirstOfSequence(p.RHS) {
		set[s.ID] = true
	}
	if sequenceNullable(p.RHS, a.nullable) {
		for t := range follow {
			set[t] = true
		}
	}
	return set, nil
}

// ClassifyLL1 reports every pair of same-LHS alternatives whose predict
// sets overlap. An empty, non-nil result means g is LL(1) (strong LL(1),
// since FOLLOW is computed per-nonterminal rather than per-occurrence).
// Requires a start symbol (propagates ErrNoStart from Follow).
func ClassifyLL1(a *Analysis) ([]Conflict, error) {
	conflicts := []Conflict{}
	seen := map[SymbolID]bool{}
	for _, p := range a.g.Iter() {
		if seen[p.LHS.ID] {
			continue
		}
		seen[p.LHS.ID] = true
		alts := a.g.FindRules(p.LHS)
		if len(alts) < 2 {
			continue
		}
		followSyms, err := a.Follow(p.LHS)
		if err != nil {
			return nil, err
		}
		follow := symSet{}
		for _, s := range followSyms {
			follow[s.ID] = true
		}
		predicts := make([]symSet, len(alts))
		for i, alt := range alts {
			ps, err := predictSet(a, alt, follow)
			if err != nil {
				return nil, err
			}
			predicts[i] = ps
		}
		for i := 0; i < len(alts); i++ {
			for j := i + 1; j < len(alts); j++ {
				conflicts = append(conflicts, pairwiseConflicts(a, p.LHS, alts[i], alts[j], predicts[i], predicts[j])...)
			}
		}
	}
	return conflicts, nil
}

func pairwiseConflicts(a *Analysis, lhs Symbol, ra, rb *Production, pa, pb symSet) []Conflict {
	iNullable := sequenceNullable(ra.RHS, a.nullable)
	jNullable := sequenceNullable(rb.RHS, a.nullable)
	if iNullable && jNullable {
		return []Conflict{{NonTerminal: lhs, RuleA: ra, RuleB: rb, Kind: NullableAmbiguity}}
	}
	var out []Conflict
	for t := range pa {
		if !pb[t] {
			continue
		}
		kind := FirstFirst
		if iNullable || jNullable {
			kind = FirstFollow
		}
		out = append(out, Conflict{NonTerminal: lhs, RuleA: ra, RuleB: rb, Kind: kind, Terminal: a.symbolsOf(symSet{t: true})[0]})
	}
	return out
}
