// Package glsutil holds small generic helpers shared across the packing
// engine, adapted from keycraft's internal/keycraft/common.go.
package glsutil

import "log"

// IfThen returns a if condition is true, otherwise b. Both arguments are
// always evaluated, so avoid it with expensive or unsafe-when-false values.
func IfThen[T any](condition bool, a, b T) T {
	if condition {
		return a
	}
	return b
}

// Must unwraps val if err is nil, and panics otherwise. Used for failures
// that are only expected from programmer error (e.g. malformed literals).
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// Must0 panics if err is non-nil.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}

// LogClose closes c and logs any error, for use in defers where the error
// cannot usefully be propagated.
func LogClose(c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		log.Printf("error closing: %v", err)
	}
}
