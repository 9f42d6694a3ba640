// Package model provides data models for the filesystem inspection.
package model

import "strings"

// State is the health verdict of a single item.
type State int

const (
	StateOK State = iota
	StateWarn
	StateCrit
	StateUnknown
)

// String returns the Nagios-style name of the state.
func (s State) String() string {
	switch s {
	case StateOK:
		return "OK"
	case StateWarn:
		return "WARN"
	case StateCrit:
		return "CRIT"
	case StateUnknown:
		return "UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// Marker returns the short text marker appended to problem parts ("(!)", "(!!)", "(?)").
func (s State) Marker() string {
	switch s {
	case StateWarn:
		return "(!)"
	case StateCrit:
		return "(!!)"
	case StateUnknown:
		return "(?)"
	default:
		return ""
	}
}

// severity orders states for aggregation: OK < WARN < UNKNOWN < CRIT.
func (s State) severity() int {
	switch s {
	case StateOK:
		return 0
	case StateWarn:
		return 1
	case StateUnknown:
		return 2
	case StateCrit:
		return 3
	default:
		return 2
	}
}

// Worst returns the most severe of the given states. CRIT beats UNKNOWN beats WARN beats OK.
func Worst(states ...State) State {
	worst := StateOK
	for _, s := range states {
		if s.severity() > worst.severity() {
			worst = s
		}
	}
	return worst
}

// ParseState converts a state name (case-insensitive) back into a State.
func ParseState(name string) (State, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "OK":
		return StateOK, true
	case "WARN", "WARNING":
		return StateWarn, true
	case "CRIT", "CRITICAL":
		return StateCrit, true
	case "UNKNOWN":
		return StateUnknown, true
	}
	return StateUnknown, false
}

// MarshalText implements encoding.TextMarshaler so states render by name in JSON and YAML.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
