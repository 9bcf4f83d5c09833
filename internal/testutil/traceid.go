package testutil

// FixedTraceID returns the same trace id every time, so CLI JSON output
// can be compared byte for byte.
type FixedTraceID struct {
	id string
}

// NewFixedTraceID creates a generator for id. An empty id becomes
// "test-trace-default".
func NewFixedTraceID(id string) *FixedTraceID {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceID{id: id}
}

// Generate returns the fixed id.
func (g *FixedTraceID) Generate() string {
	return g.id
}
