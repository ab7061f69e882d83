package grammar

import "fmt"

// SymbolID is a dense, monotonically increasing handle for a Symbol,
// starting at 0. Maps keyed by symbol become plain arrays indexed by id.
type SymbolID int32

// Symbol is an opaque semantic identifier. Symbols are undifferentiated:
// nothing on the value itself says "terminal" or "nonterminal";
// terminality is derived from whether the symbol ever appears as the LHS
// of a surviving production in its owning Grammar (see Grammar.IsTerminal).
type Symbol struct {
	ID   SymbolID
	Name string
	src  *SymbolSource // the source that minted this id; nil for the zero Symbol
}

// IsZero reports whether s is the unset Symbol value (e.g. the Terminal
// of a NullableAmbiguity Conflict).
func (s Symbol) IsZero() bool {
	return s.src == nil && s.ID == 0 && s.Name == ""
}

func (s Symbol) String() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("#%d", s.ID)
}

// owns reports whether s was minted by src.
func (s Symbol) owns(src *SymbolSource) bool {
	return s.src == src
}

// SymbolSource allocates dense, monotonically increasing Symbol ids for
// exactly one Grammar and optionally tags each with a display name. Ids
// are stable for the lifetime of the grammar; Compact (see rewrite_compact.go)
// issues an explicit remap rather than mutating ids in place.
type SymbolSource struct {
	names []string // names[id] is the bound name, "" if unbound
	next  SymbolID
}

// NewSymbolSource creates an empty symbol source.
func NewSymbolSource() *SymbolSource {
	return &SymbolSource{}
}

// Next allocates and returns a fresh, unnamed Symbol.
func (s *SymbolSource) Next() Symbol {
	id := s.next
	s.next++
	s.names = append(s.names, "")
	return Symbol{ID: id, src: s}
}

// NextNamed allocates a fresh Symbol and binds name to it in one step.
func (s *SymbolSource) NextNamed(name string) Symbol {
	sym := s.Next()
	s.BindName(sym.ID, name)
	sym.Name = name
	return sym
}

// Name returns the display name bound to id, if any.
func (s *SymbolSource) Name(id SymbolID) (string, bool) {
	if int(id) < 0 || int(id) >= len(s.names) {
		return "", false
	}
	n := s.names[id]
	return n, n != ""
}

// BindName attaches a display name to an already-allocated symbol id.
// Overwrites any previous binding.
func (s *SymbolSource) BindName(id SymbolID, name string) {
	if int(id) < 0 || int(id) >= len(s.names) {
		return
	}
	s.names[id] = name
}

// NumSyms returns the number of symbols allocated so far.
func (s *SymbolSource) NumSyms() int {
	return int(s.next)
}

// symbolAt reconstructs the Symbol value for id, looking its name up.
func (s *SymbolSource) symbolAt(id SymbolID) Symbol {
	name, _ := s.Name(id)
	return Symbol{ID: id, Name: name, src: s}
}
