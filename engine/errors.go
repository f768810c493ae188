package engine

import "errors"

// ErrOutOfMemory is never returned in practice (Go's allocator aborts the
// process itself); it exists so a caller wrapping allocation failures into
// this package's error convention has a sentinel to wrap with.
var ErrOutOfMemory = errors.New("engine: out of memory")
