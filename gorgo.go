package cfg

// Weight is a non-negative per-production weight used by the PCFG sampler
// (package sample). A Weight of 0 marks a production that is chosen only
// when no feasible, untried alternative for its LHS has a positive weight
// (several such zero-weight alternatives are then drawn uniformly).
type Weight float64

// Distance is the length, in terminals, of the shortest terminal
// derivation of a symbol or of a production's RHS. Unproductive symbols
// carry Distance Infinite.
type Distance int

// Infinite denotes an undefined (unproductive) minimal distance.
const Infinite Distance = 1<<31 - 1

// CancelFunc is a cooperative "should-stop" flag. Long-running fixed-point
// analyses (nullability, productivity, reachability, FIRST/FOLLOW, minimal
// distance) poll
// it between iterations; once it returns true the analysis returns
// grammar.ErrCancelled. A nil CancelFunc never cancels.
type CancelFunc func() bool

// Cancelled reports whether fn signals cancellation. A nil CancelFunc
// never cancels.
func Cancelled(fn CancelFunc) bool {
	return fn != nil && fn()
}
