package grammar

import "fmt"

// SeparatorKind controls how a separator symbol interacts with the final
// element of an unbounded sequence. Proper forbids a trailing separator,
// Liberal allows (but does not require) one, Trailing requires one.
// Unspecified (the zero value) defaults to Proper.
type SeparatorKind int

const (
	Proper SeparatorKind = iota
	Liberal
	Trailing
)

// SequenceRule is the transient builder-layer description of a repetition:
// lhs -> inner, repeated Min..Max times (Max nil means unbounded),
// separated by Sep according to Kind. Sep may be nil only when at most one
// repetition is possible (Max of 0 or 1); LowerSequence rejects a nil Sep
// otherwise, so repetition without a separator is not supported. It exists only at the
// builder layer; LowerSequence expands it into plain productions before
// any analysis runs.
type SequenceRule struct {
	LHS  Symbol
	Inner Symbol
	Min  int  // minimum repetitions, default 0
	Max  *int // nil means unbounded
	Sep  *Symbol
	Kind SeparatorKind
}

// LowerSequence expands sr into plain productions added to g, using fresh
// helper symbols as needed. It never leaves a dangling LHS: exactly one
// family of productions is added for sr.LHS (plus any helpers):
//
//   - Max == nil (unbounded): introduce helper H and emit H's alternatives
//     shaped by Kind (Proper/Liberal/Trailing), then wire lhs to H (and to
//     ε, if Min == 0).
//   - Max finite: unroll lhs -> inner (sep inner){Min-1..Max-1} using a
//     chain of fresh helpers, so no single production's RHS needs to grow
//     past what a later Binarize pass can always normalize to length <= 2
//     regardless of how large Max is.
//
// Every synthesized production's History is tagged SequenceLowered.
func (g *Grammar) LowerSequence(sr SequenceRule) error {
	if sr.Min < 0 {
		return fmt.Errorf("grammar: LowerSequence: negative Min %d", sr.Min)
	}
	if sr.Max != nil && *sr.Max < sr.Min {
		return fmt.Errorf("grammar: LowerSequence: Max %d < Min %d", *sr.Max, sr.Min)
	}
	if (sr.Max == nil || *sr.Max > 1) && sr.Sep == nil {
		return fmt.Errorf("grammar: LowerSequence: separator required when more than one repetition is possible")
	}
	if sr.Max == nil {
		return g.lowerUnboundedSequence(sr)
	}
	return g.lowerBoundedSequence(sr)
}

func (g *Grammar) hist(detail string, parent *History) *History {
	return Derive(SequenceLowered, detail, parent)
}

func (g *Grammar) addSeq(lhs Symbol, detail string, rhs ...Symbol) {
	if _, err := g.addRuleHistory(lhs, rhs, g.hist(detail, nil)); err != nil {
		panic(fmt.Sprintf("grammar: LowerSequence: %v", err))
	}
}

func (g *Grammar) lowerUnboundedSequence(sr SequenceRule) error {
	name := sr.LHS.Name
	if name == "" {
		name = fmt.Sprintf("#%d", sr.LHS.ID)
	}
	H := g.NewSymbol(name + "#seq")
	switch sr.Kind {
	case Liberal:
		g.addSeq(H, "liberal base", sr.Inner)
		g.addSeq(H, "liberal trailing-sep", sr.Inner, *sr.Sep)
		g.addSeq(H, "liberal recurse", sr.Inner, *sr.Sep, H)
	case Trailing:
		g.addSeq(H, "trailing base", sr.Inner, *sr.Sep)
		g.addSeq(H, "trailing recurse", sr.Inner, *sr.Sep, H)
	default: // Proper
		g.addSeq(H, "proper base", sr.Inner)
		if sr.Sep != nil {
			g.addSeq(H, "proper recurse", sr.Inner, *sr.Sep, H)
		}
	}
	switch {
	case sr.Min == 0:
		g.addSeq(sr.LHS, "optional wrap", H)
		g.addSeq(sr.LHS, "optional empty")
	case sr.Min == 1:
		g.addSeq(sr.LHS, "mandatory wrap", H)
	default:
		cur := sr.LHS
		for i := 1; i < sr.Min; i++ {
			next := g.NewSymbol(fmt.Sprintf("%s#seq%d", name, i))
			g.addSeq(cur, fmt.Sprintf("mandatory prefix %d/%d", i, sr.Min-1), sr.Inner, *sr.Sep, next)
			cur = next
		}
		g.addSeq(cur, "mandatory tail wrap", H)
	}
	return nil
}

// lowerBoundedSequence unrolls lhs -> inner (sep inner){Min-1..Max-1} for
// a finite Max, building a chain of optional-tail helpers from the end
// backward (so each helper's RHS only ever references the next helper or
// ε), followed by a mandatory prefix of Min-1 (sep inner) pairs.
func (g *Grammar) lowerBoundedSequence(sr SequenceRule) error {
	name := sr.LHS.Name
	if name == "" {
		name = fmt.Sprintf("#%d", sr.LHS.ID)
	}
	max := *sr.Max
	if max == 0 {
		// Min must also be 0 here (checked by LowerSequence).
		g.addSeq(sr.LHS, "empty sequence")
		return nil
	}
	optionalCount := max - sr.Min
	if sr.Min == 0 {
		// the first item belongs to the "one-or-more" wrap below
		optionalCount = max - 1
	}
	var tail *Symbol
	for i := optionalCount; i >= 1; i-- {
		opt := g.NewSymbol(fmt.Sprintf("%s#opt%d", name, i))
		if tail == nil {
			g.addSeq(opt, fmt.Sprintf("optional tail %d (last)", i), *sr.Sep, sr.Inner)
		} else {
			g.addSeq(opt, fmt.Sprintf("optional tail %d", i), *sr.Sep, sr.Inner, *tail)
		}
		g.addSeq(opt, fmt.Sprintf("optional tail %d (stop)", i))
		o := opt
		tail = &o
	}
	if sr.Min == 0 {
		if tail != nil {
			g.addSeq(sr.LHS, "one-or-more wrap", sr.Inner, *tail)
		} else {
			g.addSeq(sr.LHS, "one-or-more wrap", sr.Inner)
		}
		g.addSeq(sr.LHS, "zero case")
		return nil
	}
	cur := sr.LHS
	for i := 1; i < sr.Min; i++ {
		next := g.NewSymbol(fmt.Sprintf("%s#seq%d", name, i))
		g.addSeq(cur, fmt.Sprintf("mandatory prefix %d/%d", i, sr.Min-1), sr.Inner, *sr.Sep, next)
		cur = next
	}
	if tail != nil {
		g.addSeq(cur, "mandatory+optional tail", sr.Inner, *tail)
	} else {
		g.addSeq(cur, "mandatory final", sr.Inner)
	}
	return nil
}
