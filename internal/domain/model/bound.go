package model

import "strconv"

// Bound is the upper limit of a capacity band: either a finite visitor count
// or unbounded (the topmost, uncapped band). The zero value is Bounded(0),
// a legitimate finite bound distinct from unbounded. External encodings that
// use a sentinel integer for "unbounded" are converted at the persistence
// and wire boundaries, never here.
type Bound struct {
	value     int
	unbounded bool
}

// Bounded returns a finite bound at n visitors.
func Bounded(n int) Bound {
	return Bound{value: n}
}

// Unbounded returns the infinite upper bound.
func Unbounded() Bound {
	return Bound{unbounded: true}
}

// IsUnbounded reports whether the bound is infinite.
func (b Bound) IsUnbounded() bool {
	return b.unbounded
}

// Value returns the finite bound value. It is only meaningful when
// IsUnbounded() is false; for an unbounded bound it returns 0.
func (b Bound) Value() int {
	if b.unbounded {
		return 0
	}
	return b.value
}

// AtLeast reports whether the bound covers the given count, treating an
// unbounded bound as +∞.
func (b Bound) AtLeast(count int) bool {
	return b.unbounded || b.value >= count
}

// Less reports whether b is strictly below other, treating unbounded as +∞.
// Two unbounded bounds are not less than each other.
func (b Bound) Less(other Bound) bool {
	if b.unbounded {
		return false
	}
	if other.unbounded {
		return true
	}
	return b.value < other.value
}

// Equal reports whether two bounds are the same effective value.
func (b Bound) Equal(other Bound) bool {
	if b.unbounded || other.unbounded {
		return b.unbounded && other.unbounded
	}
	return b.value == other.value
}

// String renders the bound for logs and error messages.
func (b Bound) String() string {
	if b.unbounded {
		return "∞"
	}
	return strconv.Itoa(b.value)
}
