package grammar

import "fmt"

// Binarize returns a new Grammar in which every production has RHS
// length <= 2. A production A -> x1 x2 x3 x4 becomes a left-associated
// chain: A -> H1 x4, H1 -> H2 x3, H2 -> x1 x2.
// Helpers are minted fresh per production, never shared across
// productions (even when two productions happen to share a RHS prefix),
// so each helper's History points at exactly one parent production.
// Productions already at length <= 2 pass through unchanged (but still
// gain a Binarized History node, so a grammar's History forest reflects
// that it was run through this rewrite).
func Binarize(g *Grammar) (*Grammar, error) {
	out := g.Clone()
	out.Retain(func(*Production) bool { return false })
	for _, p := range g.Iter() {
		if err := binarizeOne(out, p); err != nil {
			return nil, err
		}
	}
	out.SetRoots(g.Roots()...)
	return out, nil
}

func binarizeOne(out *Grammar, p *Production) error {
	if len(p.RHS) <= 2 {
		_, err := out.addRuleHistory(p.LHS, p.RHS, Derive(Binarized, "unchanged", p.Hist))
		return err
	}
	name := p.LHS.Name
	if name == "" {
		name = fmt.Sprintf("#%d", p.LHS.ID)
	}
	helper := func(i int) Symbol {
		return out.NewSymbol(fmt.Sprintf("%s#bin%d.%d", name, p.Serial(), i))
	}
	base := helper(1)
	if _, err := out.addRuleHistory(base, p.RHS[0:2], Derive(Binarized, "innermost pair", p.Hist)); err != nil {
		return err
	}
	prev := base
	helperIdx := 1
	for i := 2; i < len(p.RHS)-1; i++ {
		helperIdx++
		next := helper(helperIdx)
		if _, err := out.addRuleHistory(next, []Symbol{prev, p.RHS[i]}, Derive(Binarized, "fold next symbol", p.Hist)); err != nil {
			return err
		}
		prev = next
	}
	_, err := out.addRuleHistory(p.LHS, []Symbol{prev, p.RHS[len(p.RHS)-1]}, Derive(Binarized, "top-level pair", p.Hist))
	return err
}
