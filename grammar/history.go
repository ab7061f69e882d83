package grammar

import "github.com/cnf/structhash"

// RewriteTag names the rewrite step (or builder lowering) that produced a
// production. OriginalRule marks productions added directly by a caller.
type RewriteTag int

// Rewrite tags, in the order productions normally pass through them.
const (
	OriginalRule RewriteTag = iota
	SequenceLowered
	PrecedenceLowered
	Binarized
	NullingEliminated
	CycleEliminated
	Compacted
)

func (t RewriteTag) String() string {
	switch t {
	case OriginalRule:
		return "original"
	case SequenceLowered:
		return "sequence-lowered"
	case PrecedenceLowered:
		return "precedence-lowered"
	case Binarized:
		return "binarized"
	case NullingEliminated:
		return "nulling-eliminated"
	case CycleEliminated:
		return "cycle-eliminated"
	case Compacted:
		return "compacted"
	default:
		return "unknown"
	}
}

// History records the provenance of a Production: the rule it originated
// from, and the chain of rewrite steps that transformed or synthesized it.
// Histories are immutable once created; a rewrite step allocates a new
// History node pointing at its parent(s), never mutating them. Every
// rewrite in this package derives each new node from a single parent, so
// the result is a persistent forest; a node with several parents (a DAG)
// arises only from a caller passing several parents to Derive.
type History struct {
	parents []*History
	tag     RewriteTag
	detail  string // e.g. "alt 2 of 3", "level 1 (Left)", "helper for S -> a b c d"
}

// ParseRewriteTag looks up the RewriteTag whose String() form is s. Used
// by package serialize to reconstruct a decoded production's provenance
// tag from its JSON representation.
func ParseRewriteTag(s string) (RewriteTag, bool) {
	for _, t := range []RewriteTag{OriginalRule, SequenceLowered, PrecedenceLowered, Binarized, NullingEliminated, CycleEliminated, Compacted} {
		if t.String() == s {
			return t, true
		}
	}
	return OriginalRule, false
}

// NewOriginHistory creates a fresh, parentless History for a production
// added directly by a builder (flat rule, or the top of a sequence/
// precedence lowering before any rewrite has touched it).
func NewOriginHistory(detail string) *History {
	return &History{tag: OriginalRule, detail: detail}
}

// Derive creates a new History node for a rewrite step, pointing at one or
// more parent histories. The rewrites in this package pass one parent
// each (EliminateCycles included: it derives every rewritten production
// from its own source production and keeps productions that become
// identical as separate entries).
func Derive(tag RewriteTag, detail string, parents ...*History) *History {
	return &History{tag: tag, detail: detail, parents: parents}
}

// Tag returns the rewrite step that produced this History node.
func (h *History) Tag() RewriteTag {
	if h == nil {
		return OriginalRule
	}
	return h.tag
}

// Detail returns the free-form provenance detail attached at this node.
func (h *History) Detail() string {
	if h == nil {
		return ""
	}
	return h.detail
}

// Parents returns the History nodes this one was derived from. Empty for
// an original rule.
func (h *History) Parents() []*History {
	if h == nil {
		return nil
	}
	return h.parents
}

// Fingerprint returns a stable content hash of the History node and its
// ancestry, usable by callers to recognize "this production's provenance
// is the same one I saw before" across a rewrite pipeline. It does not
// survive a serialize-then-decode round trip: the decoded History keeps
// only the tag, with a new detail and no parents. It does not capture the
// lhs/rhs of the production itself; pair it with Production.Fingerprint
// for that.
func (h *History) Fingerprint() string {
	if h == nil {
		return ""
	}
	parentFPs := make([]string, len(h.parents))
	for i, p := range h.parents {
		parentFPs[i] = p.Fingerprint()
	}
	sum, err := structhash.Hash(struct {
		Tag     int
		Detail  string
		Parents []string
	}{int(h.tag), h.detail, parentFPs}, 1)
	if err != nil {
		// structhash.Hash only fails on unsupported value kinds, which the
		// anonymous struct above never exercises.
		panic(err)
	}
	return sum
}
