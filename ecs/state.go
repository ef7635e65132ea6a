package ecs

import (
	"github.com/wippyai/ecs-bridge/errors"
)

// State is a finite-state machine over a declared variant list. The active
// ordinal only changes when the app applies a queued transition at the
// start of an update.
type State struct {
	name     string
	variants []string
	current  uint8
	next     uint8
	pending  bool
	entered  bool
}

func (s *State) Name() string { return s.name }

// Current returns the active ordinal.
func (s *State) Current() uint8 { return s.current }

// CurrentName returns the active variant.
func (s *State) CurrentName() string { return s.variants[s.current] }

// Variants returns the declared variants in ordinal order.
func (s *State) Variants() []string { return s.variants }

// JustEntered reports whether the active variant was entered during the
// current update.
func (s *State) JustEntered() bool { return s.entered }

// SetNext queues a transition. Out-of-range ordinals are rejected.
func (s *State) SetNext(ordinal uint8) error {
	if int(ordinal) >= len(s.variants) {
		return errors.InvalidEnum(errors.PhaseDecode, []string{s.name}, ordinal, s.name)
	}
	s.next = ordinal
	s.pending = true
	return nil
}

// Pending returns the queued ordinal, if any.
func (s *State) Pending() (uint8, bool) { return s.next, s.pending }

func (s *State) apply() {
	s.entered = false
	if !s.pending {
		return
	}
	s.pending = false
	if s.next != s.current {
		s.current = s.next
		s.entered = true
	}
}

// AddState registers a state machine starting at ordinal 0. Adding a
// name twice returns the existing machine.
func (w *World) AddState(name string, variants []string) (*State, error) {
	if s, ok := w.states[name]; ok {
		return s, nil
	}
	if len(variants) == 0 || len(variants) > 256 {
		return nil, errors.Overflow(errors.PhaseRuntime, []string{name}, len(variants), "1..256 variants")
	}
	s := &State{name: name, variants: append([]string(nil), variants...)}
	w.states[name] = s
	return s, nil
}

// State returns a registered state machine.
func (w *World) State(name string) (*State, bool) {
	s, ok := w.states[name]
	return s, ok
}

func (w *World) applyStateTransitions() {
	for _, s := range w.states {
		s.apply()
	}
}
