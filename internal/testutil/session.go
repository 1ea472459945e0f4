package testutil

// FixedSessionID generates the same session ID every time.
//
// Unlike engine.FixedGenerator which returns IDs in sequence and panics when
// exhausted, this generator suits tests that run an unknown number of
// sessions but still compare output byte for byte.
//
// Thread-safety: FixedSessionID is stateless and safe for concurrent use.
type FixedSessionID struct {
	id string
}

// NewFixedSessionID creates a fixed session ID generator.
// If id is empty, Generate() returns "test-session".
func NewFixedSessionID(id string) *FixedSessionID {
	if id == "" {
		id = "test-session"
	}
	return &FixedSessionID{id: id}
}

// Generate returns the fixed session ID.
//
// Implements engine.SessionIDGenerator.
func (g *FixedSessionID) Generate() string {
	return g.id
}
