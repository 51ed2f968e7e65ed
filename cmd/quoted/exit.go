package main

import (
	"errors"
	"fmt"
)

// exitParseFailed is the status of a run whose input did not parse; the
// diagnostics have already been printed.
const exitParseFailed = 2

type reportedError struct {
	failed int
}

func (e *reportedError) Error() string {
	if e.failed == 1 {
		return "1 input failed to parse"
	}
	return fmt.Sprintf("%d inputs failed to parse", e.failed)
}

// exitCodeOf maps err to a process status. reported is true when the
// error was already rendered as diagnostics.
func exitCodeOf(err error) (code int, reported bool) {
	var re *reportedError
	if errors.As(err, &re) {
		return exitParseFailed, true
	}
	return 1, false
}
