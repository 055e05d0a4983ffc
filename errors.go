package figura

import "errors"

// Errors returned by matrix math, space conversion and lookups. Callers should
// test with errors.Is since most are wrapped with context.
var (
	// ErrNoScene is returned when a space conversion needs a camera but the
	// figure has none.
	ErrNoScene = errors.New("figura: no scene")

	// ErrUnsupportedSpacePair is returned when a single matrix cannot express
	// the requested conversion (pixel space in a perspective scene).
	ErrUnsupportedSpacePair = errors.New("figura: unsupported space pair")

	// ErrSingularMatrix is returned when inverting a matrix with no usable pivot.
	ErrSingularMatrix = errors.New("figura: singular matrix")

	// ErrNotFound is returned by transform component updates that have no
	// matching component. Path lookups report misses with a bool instead.
	ErrNotFound = errors.New("figura: not found")

	// ErrShapeMismatch is returned by transform algebra when the two operands
	// do not have the same component kinds in the same order.
	ErrShapeMismatch = errors.New("figura: transform shapes differ")
)
