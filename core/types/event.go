package types

// Event represents a typed event emitted while an instruction executes.
// Attributes carry the string-encoded payload consumed by indexers.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
