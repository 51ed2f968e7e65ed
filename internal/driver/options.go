package driver

import (
	"fmt"
	"strings"

	"quoted/internal/lexer"
)

// Options are shared by every driver entry point.
type Options struct {
	MaxDiagnostics int
	Mode           lexer.Mode
	// Timings adds an OBS6001 diagnostic with phase durations to the bag.
	Timings bool
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

// Policy decides what a batch does after a failed segment.
type Policy uint8

const (
	// StopOnError gives the result of a sequential run that stops at the
	// first failure; later segments are marked Skipped.
	StopOnError Policy = iota
	// Continue parses every segment and reports every failure.
	Continue
)

func (p Policy) String() string {
	switch p {
	case StopOnError:
		return "stop"
	case Continue:
		return "continue"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy accepts "stop" (also "" and "stop-on-error") and "continue".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stop", "stop-on-error":
		return StopOnError, nil
	case "continue":
		return Continue, nil
	default:
		return StopOnError, fmt.Errorf("invalid policy %q (expected stop|continue)", s)
	}
}
