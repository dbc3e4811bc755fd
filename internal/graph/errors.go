package graph

import "errors"

var (
	// ErrNotFound is returned for unknown node ids, modules and ports.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOperation covers rejected edits: cross-module or self
	// connections, duplicates, unknown directions.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrMalformedImport is returned when a serialized graph references a
	// node or port that it does not contain.
	ErrMalformedImport = errors.New("malformed import")
)
