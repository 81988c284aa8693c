// Package verbosity decides which Message events reach the report. Errors
// and warnings are never filtered.
package verbosity

import (
	"strings"

	"github.com/CodeMonkeyCybersecurity/ccnetlog/pkg/buildevent"
	cerr "github.com/cockroachdb/errors"
)

// Level is the run-wide logger verbosity, ordered from least to most detail.
type Level int

const (
	// Unset admits every message, the same as Diagnostic.
	Unset Level = iota
	Quiet
	Minimal
	Normal
	Detailed
	Diagnostic
)

// ErrUnknownLevel is returned by Parse for text that names no level.
var ErrUnknownLevel = cerr.New("unknown verbosity level")

func (l Level) String() string {
	switch l {
	case Quiet:
		return "quiet"
	case Minimal:
		return "minimal"
	case Normal:
		return "normal"
	case Detailed:
		return "detailed"
	case Diagnostic:
		return "diagnostic"
	}
	return "unset"
}

// Parse accepts the long and short spellings the orchestrator uses on its
// command line (q, m, n, d, diag). Empty input yields Unset without error.
func Parse(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return Unset, nil
	case "q", "quiet":
		return Quiet, nil
	case "m", "minimal":
		return Minimal, nil
	case "n", "normal":
		return Normal, nil
	case "d", "detailed":
		return Detailed, nil
	case "diag", "diagnostic":
		return Diagnostic, nil
	}
	return Unset, cerr.Wrapf(ErrUnknownLevel, "%q", s)
}

// Admits reports whether a message of the given importance is kept at this
// verbosity.
//
// Minimal and Normal both keep High only. The orchestrator documents Normal
// as showing more than Minimal, but the report has always treated them the
// same and consumers depend on it.
func Admits(level Level, importance buildevent.Importance) bool {
	switch level {
	case Quiet:
		return false
	case Minimal, Normal:
		return importance == buildevent.ImportanceHigh
	case Detailed:
		return importance == buildevent.ImportanceHigh || importance == buildevent.ImportanceNormal
	case Diagnostic:
		return true
	default:
		return true
	}
}
