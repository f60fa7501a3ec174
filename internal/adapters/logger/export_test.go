package logger

// ErrorEntry exposes errorEntry fields for tests.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// CollectErrorEntries exposes collectErrorEntries for tests.
func CollectErrorEntries(err error) []ErrorEntry {
	entries := collectErrorEntries(err)
	out := make([]ErrorEntry, len(entries))
	for i, e := range entries {
		out[i] = ErrorEntry{Message: e.message, Metadata: e.metadata}
	}
	return out
}
