package grammar

import "fmt"

// Assoc is the associativity of one precedence level.
type Assoc int

const (
	// Left associates self-references leftmost-stays, others descend.
	Left Assoc = iota
	// Right associates self-references rightmost-stays, others descend.
	Right
	// Group re-enters the whole precedence chain from the top (for
	// parenthesized / bracketed alternatives).
	Group
)

// Self is the sentinel Symbol used within a PrecedencedRule's alternatives
// to mark a recursive occurrence of the rule's own LHS. LowerPrecedence
// replaces every Self occurrence with the appropriate helper symbol for
// the alternative's level and associativity; it is a programming error to
// let a Self sentinel escape into the final grammar.
var Self = Symbol{ID: -1, Name: "Self"}

func isSelf(s Symbol) bool { return s.ID == Self.ID && s.Name == Self.Name }

// Level is one precedence level of a PrecedencedRule: an associativity and
// a list of RHS alternatives (each possibly containing Self markers).
// Level 0 is highest precedence (binds tightest); level n-1 is lowest.
type Level struct {
	Assoc Assoc
	Alts  [][]Symbol
}

// PrecedencedRule is the transient builder-layer description of an
// operator-precedence table: an lhs and n non-empty precedence levels.
// LowerPrecedence expands it into plain productions before any analysis
// runs.
type PrecedencedRule struct {
	LHS    Symbol
	Levels []Level
}

// LowerPrecedence expands pr into plain productions added to g: allocate
// helpers L0..Ln-1 (L0 highest precedence), wire
// lhs -> Ln-1, and for each level rewrite self-references per
// associativity (Left: leftmost self-ref stays at this level, others
// descend to Li-1; Right: rightmost stays, others descend; Group: every
// self-ref re-enters at L0). Non-self-referencing alternatives at level i
// become Li -> alt verbatim. Lowering is deterministic given input order;
// each synthesized production's History detail records (level index,
// alternative index).
func (g *Grammar) LowerPrecedence(pr PrecedencedRule) error {
	n := len(pr.Levels)
	if n == 0 {
		return fmt.Errorf("grammar: LowerPrecedence: no precedence levels given for %s", pr.LHS)
	}
	name := pr.LHS.Name
	if name == "" {
		name = fmt.Sprintf("#%d", pr.LHS.ID)
	}
	helpers := make([]Symbol, n)
	for i := 0; i < n; i++ {
		helpers[i] = g.NewSymbol(fmt.Sprintf("%s#L%d", name, i))
	}
	if _, err := g.addRuleHistory(pr.LHS, []Symbol{helpers[n-1]},
		Derive(PrecedenceLowered, "top-level wrap", nil)); err != nil {
		return err
	}
	for i, lvl := range pr.Levels {
		lowerOf := helpers[0]
		if i > 0 {
			lowerOf = helpers[i-1]
		}
		for altIdx, alt := range lvl.Alts {
			rhs := lowerAlt(alt, lvl.Assoc, helpers[i], lowerOf, helpers[0])
			detail := fmt.Sprintf("level %d alt %d (%s)", i, altIdx, assocName(lvl.Assoc))
			if _, err := g.addRuleHistory(helpers[i], rhs, Derive(PrecedenceLowered, detail, nil)); err != nil {
				return err
			}
		}
		if i > 0 {
			if _, err := g.addRuleHistory(helpers[i], []Symbol{helpers[i-1]},
				Derive(PrecedenceLowered, fmt.Sprintf("level %d descent", i), nil)); err != nil {
				return err
			}
		}
	}
	return nil
}

func assocName(a Assoc) string {
	switch a {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Group:
		return "Group"
	default:
		return "?"
	}
}

// lowerAlt substitutes every Self marker in alt according to assoc:
//   - Left: the first (leftmost) Self becomes sameLevel, all others become lowerLevel.
//   - Right: the last (rightmost) Self becomes sameLevel, all others become lowerLevel.
//   - Group: every Self becomes topLevel.
func lowerAlt(alt []Symbol, assoc Assoc, sameLevel, lowerLevel, topLevel Symbol) []Symbol {
	selfPositions := make([]int, 0, 2)
	for i, s := range alt {
		if isSelf(s) {
			selfPositions = append(selfPositions, i)
		}
	}
	out := append([]Symbol(nil), alt...)
	if len(selfPositions) == 0 {
		return out
	}
	if assoc == Group {
		for _, i := range selfPositions {
			out[i] = topLevel
		}
		return out
	}
	keep := selfPositions[0]
	if assoc == Right {
		keep = selfPositions[len(selfPositions)-1]
	}
	for _, i := range selfPositions {
		if i == keep {
			out[i] = sameLevel
		} else {
			out[i] = lowerLevel
		}
	}
	return out
}
