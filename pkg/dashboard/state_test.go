package dashboard

import (
	"errors"
	"testing"
)

func TestLoadStateTransitions(t *testing.T) {
	tests := []struct {
		from, to LoadState
		allowed  bool
	}{
		{StateIdle, StateLoading, true},
		{StateIdle, StateReady, false},
		{StateIdle, StateFailed, false},
		{StateLoading, StateReady, true},
		{StateLoading, StateFailed, true},
		{StateLoading, StateIdle, false},
		{StateLoading, StateLoading, false},
		{StateReady, StateLoading, true},
		{StateReady, StateFailed, false},
		{StateReady, StateIdle, false},
		{StateFailed, StateLoading, true},
		{StateFailed, StateReady, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.allowed {
				t.Errorf("CanTransition = %v, want %v", got, tt.allowed)
			}

			next, err := tt.from.Transition(tt.to)
			if tt.allowed {
				if err != nil || next != tt.to {
					t.Errorf("Transition = (%v, %v), want (%v, nil)", next, err, tt.to)
				}
				return
			}
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Expected ErrInvalidTransition, got %v", err)
			}
			if next != tt.from {
				t.Errorf("Failed transition should keep %v, got %v", tt.from, next)
			}
		})
	}
}

func TestLoadStateString(t *testing.T) {
	want := []string{"idle", "loading", "ready", "failed"}
	for i, s := range AllStates {
		if s.String() != want[i] {
			t.Errorf("State %d = %q, want %q", i, s.String(), want[i])
		}
	}

	text, _ := StateReady.MarshalText()
	if string(text) != "ready" {
		t.Errorf("MarshalText = %q, want ready", text)
	}
}
