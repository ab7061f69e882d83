package grammar

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// PrettyDump writes a colorized, tree-shaped listing of g to w: one branch
// per left-hand side, its alternatives as children, nonterminals and
// terminals styled distinctly.
func (g *Grammar) PrettyDump(w io.Writer) error {
	lhsOrder, byLHS := g.groupByLHS()

	root := pterm.TreeNode{Text: fmt.Sprintf("%s (%d rules)", g.name, g.Len())}
	for _, lhsID := range lhsOrder {
		lhs := g.symbols.symbolAt(lhsID)
		branch := pterm.TreeNode{Text: styleNonTerminal(lhs.String())}
		for _, p := range byLHS[lhsID] {
			branch.Children = append(branch.Children, pterm.TreeNode{Text: g.styleProductionRHS(p)})
		}
		root.Children = append(root.Children, branch)
	}

	rendered, err := pterm.DefaultTree.WithRoot(root).Srender()
	if err != nil {
		return fmt.Errorf("grammar: pretty dump: %w", err)
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}

// groupByLHS buckets g's surviving productions by LHS symbol id, returning
// the LHS ids in first-appearance order alongside the buckets themselves.
func (g *Grammar) groupByLHS() ([]SymbolID, map[SymbolID][]*Production) {
	byLHS := map[SymbolID][]*Production{}
	var order []SymbolID
	for _, p := range g.Iter() {
		if _, seen := byLHS[p.LHS.ID]; !seen {
			order = append(order, p.LHS.ID)
		}
		byLHS[p.LHS.ID] = append(byLHS[p.LHS.ID], p)
	}
	return order, byLHS
}

func (g *Grammar) styleProductionRHS(p *Production) string {
	if len(p.RHS) == 0 {
		return pterm.FgGray.Sprint("ε")
	}
	s := ""
	for i, sym := range p.RHS {
		if i > 0 {
			s += " "
		}
		if g.IsTerminal(sym) {
			s += styleTerminal(sym.String())
		} else {
			s += styleNonTerminal(sym.String())
		}
	}
	return s
}

func styleNonTerminal(s string) string { return pterm.FgCyan.Sprint(s) }

func styleTerminal(s string) string { return pterm.FgGreen.Sprint(s) }
