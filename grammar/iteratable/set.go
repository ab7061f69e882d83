package iteratable

import (
	"bytes"
	"fmt"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cfg.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("cfg.grammar")
}

// Set is an insertion-ordered, destructively-mutable set of arbitrary
// values. It supports a work-queue style of iteration: IterateOnce starts
// a cursor over the set's current and future elements, so a consumer may
// call Add on the very set it is iterating (the standard idiom for
// fixed-point worklists such as FIRST/FOLLOW propagation or Earley-style
// item set construction).
type Set struct {
	backing   *linkedhashset.Set
	cursor    int
	iterating bool
}

// NewSet creates an empty Set. sizeHint is accepted for call-site
// symmetry with make([]T, 0, n) but is not used to pre-size the backing
// store (gods' linkedhashset grows on demand).
func NewSet(sizeHint int) *Set {
	return &Set{backing: linkedhashset.New()}
}

// NewSetFrom creates a Set containing vals, in order, deduplicated.
func NewSetFrom(vals ...interface{}) *Set {
	s := NewSet(len(vals))
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

// Add inserts v into s, if not already present. Returns s for chaining.
func (s *Set) Add(v interface{}) *Set {
	s.backing.Add(v)
	return s
}

// Remove deletes v from s, if present.
func (s *Set) Remove(v interface{}) {
	s.backing.Remove(v)
}

// Contains reports whether v is an element of s.
func (s *Set) Contains(v interface{}) bool {
	return s.backing.Contains(v)
}

// Size returns the number of elements in s.
func (s *Set) Size() int {
	return s.backing.Size()
}

// Empty reports whether s has no elements.
func (s *Set) Empty() bool {
	return s.backing.Empty()
}

// Values returns a snapshot slice of s's elements, in insertion order.
func (s *Set) Values() []interface{} {
	return s.backing.Values()
}

// Copy returns a new Set with the same elements as s, in the same order.
func (s *Set) Copy() *Set {
	c := NewSet(s.Size())
	for _, v := range s.backing.Values() {
		c.backing.Add(v)
	}
	return c
}

// Equals reports whether s and other contain exactly the same elements.
func (s *Set) Equals(other *Set) bool {
	if other == nil || s.Size() != other.Size() {
		return false
	}
	for _, v := range s.Values() {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}

// Union destructively adds every element of other into s and returns s.
func (s *Set) Union(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, v := range other.Values() {
		s.backing.Add(v)
	}
	return s
}

// Difference returns a new set holding the elements of s that are not in
// other. Unlike Union, Difference does not mutate s (it is typically used
// to find the "New" elements a fixed-point step is about to add, before
// deciding whether to Union them in).
func (s *Set) Difference(other *Set) *Set {
	d := NewSet(0)
	for _, v := range s.Values() {
		if other == nil || !other.Contains(v) {
			d.Add(v)
		}
	}
	return d
}

// Subset returns a new set of the elements of s for which pred returns
// true.
func (s *Set) Subset(pred func(interface{}) bool) *Set {
	r := NewSet(0)
	for _, v := range s.Values() {
		if pred(v) {
			r.Add(v)
		}
	}
	return r
}

// IterateOnce (re)starts a worklist-style iteration over s. Because Next
// re-reads the live size of s on every call, values Add-ed to s during the
// very iteration it is being walked in are visited as well, which is what
// a fixed-point worklist requires.
func (s *Set) IterateOnce() {
	s.cursor = -1
	s.iterating = true
}

// Next advances the iteration cursor, implicitly starting one via
// IterateOnce if none is active. Returns false once the (possibly still
// growing) set is exhausted.
func (s *Set) Next() bool {
	if !s.iterating {
		s.IterateOnce()
	}
	s.cursor++
	return s.cursor < s.backing.Size()
}

// Item returns the element at the current iteration cursor, or nil if
// Next has not been called or the cursor ran off the end.
func (s *Set) Item() interface{} {
	vals := s.backing.Values()
	if s.cursor < 0 || s.cursor >= len(vals) {
		return nil
	}
	return vals[s.cursor]
}

// Each applies fn to every element currently in s. fn must not mutate s;
// use IterateOnce/Next for that.
func (s *Set) Each(fn func(interface{})) {
	for _, v := range s.Values() {
		fn(v)
	}
}

// AppendTo appends s's elements to slice and returns the result.
func (s *Set) AppendTo(slice []interface{}) []interface{} {
	return append(slice, s.Values()...)
}

func (s *Set) String() string {
	var b bytes.Buffer
	b.WriteString("{")
	for i, v := range s.Values() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", v)
	}
	b.WriteString("}")
	return b.String()
}

// Dump traces the contents of s at debug level. Diagnostic helper only.
func Dump(s *Set) {
	if s == nil {
		tracer().Debugf("<nil set>")
		return
	}
	tracer().Debugf("%s", s.String())
}
