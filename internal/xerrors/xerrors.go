// Package xerrors collects the sentinel error kinds shared across the
// pager, btree, and graph packages.
package xerrors

import "errors"

var (
	// ErrNotFound signals an absent key, node, or name. Never fatal: callers
	// surface it as an empty result or a default record instead of aborting.
	ErrNotFound = errors.New("not found")

	// ErrIO wraps a failure to open, read, or write an underlying file.
	ErrIO = errors.New("io failure")

	// ErrInvalidState signals an operation disallowed by the store's current
	// open mode, or on-disk counters that disagree with file lengths.
	ErrInvalidState = errors.New("invalid state")

	// ErrOutOfBounds signals an internal index beyond known page or entry
	// counts — indicates corruption or a logic error upstream.
	ErrOutOfBounds = errors.New("out of bounds")

	// ErrDepthCapReached signals that Tarjan's DFS exceeded its recursion
	// frame cap; the current branch was cut short.
	ErrDepthCapReached = errors.New("recursion depth cap reached")
)
