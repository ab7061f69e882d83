package sample

import "errors"

var (
	// ErrBudgetExceeded is returned when no production is feasible within
	// the remaining length budget at some point in the derivation.
	ErrBudgetExceeded = errors.New("sample: no legal sentence fits within the length budget")

	// ErrLookaheadUnsatisfiable is returned when generation fails after
	// some expansion violated an active lookahead guard: every alternative
	// at every decision point backtracked into was ruled out, or the
	// backtrack budget was spent first.
	ErrLookaheadUnsatisfiable = errors.New("sample: exceeded backtrack budget satisfying a lookahead guard")
)
