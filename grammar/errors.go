package grammar

import "errors"

// Sentinel error kinds. Check with errors.Is; call sites wrap these with
// %w to attach context (which symbol, which rule) without losing the
// caller's ability to test the kind.
var (
	// ErrForeignSymbol is returned when a rule is added that references a
	// Symbol not owned by the Grammar's own SymbolSource.
	ErrForeignSymbol = errors.New("grammar: symbol not owned by this grammar")

	// ErrNoStart is returned by analyses that need a start symbol (FOLLOW,
	// LL(1) classification) when the grammar's roots set is empty.
	ErrNoStart = errors.New("grammar: analysis requires a start symbol but roots is empty")

	// ErrNotBinarized is returned by EliminateNulling when invoked on a
	// grammar that still has productions with RHS length > 2.
	ErrNotBinarized = errors.New("grammar: nulling elimination requires a binarized grammar")

	// ErrUnproductiveStart is returned when a rewrite would eliminate every
	// production deriving a root symbol. The rewrite refuses and leaves
	// the grammar unchanged rather than silently dropping the start
	// symbol.
	ErrUnproductiveStart = errors.New("grammar: rewrite would leave no terminal string derivable from a root")

	// ErrCancelled is returned by a long-running fixed-point analysis when
	// its CancelFunc signals cancellation.
	ErrCancelled = errors.New("grammar: analysis cancelled")
)
