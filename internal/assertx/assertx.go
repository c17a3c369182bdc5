// Package assertx implements the engine's internal invariant checks:
// precondition and invariant violations are programming errors, never
// recoverable runtime errors, so they panic rather than return an
// error (spec §4.A "Failure semantics", §7 "internal invariant
// violations ... are bugs").
package assertx

import "fmt"

// Assert panics with a formatted message if cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("hypar: invariant violation: "+format, args...))
	}
}
