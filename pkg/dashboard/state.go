package dashboard

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is returned for a load state change the
	// transition table does not allow
	ErrInvalidTransition = errors.New("invalid load state transition")
	// ErrNotReady is returned when an operation needs loaded data
	ErrNotReady = errors.New("session data is not ready")
)

// LoadState tracks the data lifecycle of a session
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
	StateFailed
)

// AllStates lists every state in declaration order
var AllStates = []LoadState{StateIdle, StateLoading, StateReady, StateFailed}

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// MarshalText renders the state by name
func (s LoadState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var transitions = map[LoadState][]LoadState{
	StateIdle:    {StateLoading},
	StateLoading: {StateReady, StateFailed},
	StateReady:   {StateLoading},
	StateFailed:  {StateLoading},
}

// CanTransition reports whether s may move to next
func (s LoadState) CanTransition(next LoadState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next, or ErrInvalidTransition
func (s LoadState) Transition(next LoadState) (LoadState, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

func stateNames() []string {
	names := make([]string, len(AllStates))
	for i, s := range AllStates {
		names[i] = s.String()
	}
	return names
}
