package types

// EventSink receives structured debug events from every component that
// performs a consequential action (API calls, resolution steps, writes).
// Implementations decide the destination; producers only record.
type EventSink interface {
	Record(step string, data map[string]any, isError bool)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Record(string, map[string]any, bool) {}
