package logger

import (
	"encoding/json"
	"sync"
)

// Entry is a parsed log line kept in the recent buffer.
type Entry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Component string         `json:"component,omitempty"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Recent is an io.Writer that keeps the last N warn, error and fatal entries
// written by zerolog. Admins read it through the API.
type Recent struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
}

// NewRecent creates a buffer holding up to capacity entries.
func NewRecent(capacity int) *Recent {
	if capacity <= 0 {
		capacity = 200
	}
	return &Recent{entries: make([]Entry, capacity)}
}

// Write implements io.Writer. Non-JSON input and low levels are dropped.
func (r *Recent) Write(p []byte) (int, error) {
	var raw map[string]any
	if err := json.Unmarshal(p, &raw); err != nil {
		return len(p), nil //nolint:nilerr // console-formatted or partial lines are ignored
	}

	level, _ := raw["level"].(string)
	switch level {
	case "warn", "error", "fatal", "panic":
	default:
		return len(p), nil
	}

	entry := Entry{Level: level, Fields: make(map[string]any)}
	entry.Timestamp, _ = raw["time"].(string)
	entry.Component, _ = raw["component"].(string)
	entry.Message, _ = raw["message"].(string)
	for k, v := range raw {
		switch k {
		case "time", "level", "component", "message":
		default:
			entry.Fields[k] = v
		}
	}

	r.mu.Lock()
	r.entries[r.next] = entry
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()

	return len(p), nil
}

// Entries returns buffered entries from oldest to newest.
func (r *Recent) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full {
		out := make([]Entry, r.next)
		copy(out, r.entries[:r.next])
		return out
	}
	out := make([]Entry, 0, len(r.entries))
	out = append(out, r.entries[r.next:]...)
	out = append(out, r.entries[:r.next]...)
	return out
}
