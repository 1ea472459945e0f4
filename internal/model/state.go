package model

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// State is the learning stage of an item.
//
// Transitions between states are decided by the scheduling policy. The engine
// only stores and restores them. New is never written to the log: it is the
// state of an item with no history.
type State int

const (
	New        State = iota // No review recorded yet.
	Learning                // In initial learning steps.
	Review                  // In the long-term review cycle.
	Relearning              // Forgotten, back in short steps.
)

var (
	stateNames  = [...]string{New: "New", Learning: "Learning", Review: "Review", Relearning: "Relearning"}
	stateByName = map[string]State{
		"New":        New,
		"Learning":   Learning,
		"Review":     Review,
		"Relearning": Relearning,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = State(0)
	_ json.Marshaler           = State(0)
	_ json.Unmarshaler         = (*State)(nil)
	_ encoding.TextMarshaler   = State(0)
	_ encoding.TextUnmarshaler = (*State)(nil)
)

// StateFromCode maps a persisted integer code back to a State.
// Returns ErrUnknownState for unmapped codes instead of a zero value.
func StateFromCode(code int) (State, error) {
	s := State(code)
	if !s.IsValid() {
		return 0, fmt.Errorf("%w: code %d", ErrUnknownState, code)
	}
	return s, nil
}

// Code returns the integer persisted for this state.
func (s State) Code() int {
	return int(s)
}

// IsValid reports whether s is one of the four known states.
func (s State) IsValid() bool {
	return s >= New && s <= Relearning
}

// String returns the name of the state.
// For invalid values it returns "State(n)".
func (s State) String() string {
	if s.IsValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownState, int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	v, ok := stateByName[string(text)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownState, text)
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler. State serializes as a JSON string.
func (s State) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (s *State) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownState, data)
	}
	return s.UnmarshalText([]byte(str))
}
