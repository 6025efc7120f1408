package rtlsim

import (
	"fmt"
	"strings"
)

// A ConflictingDriverError reports two producers writing overlapping
// bit ranges of the same destination signal. It is returned by Compile.
type ConflictingDriverError struct {
	Signal string // destination signal name
	Lo, Hi int    // overlapping bit range
	First  string // producer already registered for the range
	Second string // producer that collided with it
}

func (e *ConflictingDriverError) Error() string {
	return fmt.Sprintf("conflicting drivers for %s[%d:%d]: %s and %s",
		e.Signal, e.Lo, e.Hi, e.First, e.Second)
}

// A CombinationalLoopError reports a dependency cycle made entirely of
// combinational blocks. Cycles passing through a register are legal
// and do not trigger it.
type CombinationalLoopError struct {
	Blocks []string // block names along the cycle
}

func (e *CombinationalLoopError) Error() string {
	return "combinational loop: " + strings.Join(e.Blocks, " -> ")
}

// A VectorError reports the first failing vector of a test run.
type VectorError struct {
	Index int // vector index in the run
	Err   error
}

func (e *VectorError) Error() string {
	return fmt.Sprintf("vector %d: %v", e.Index, e.Err)
}

func (e *VectorError) Unwrap() error { return e.Err }
