package testutils

import (
	"strings"
	"sync"
)

// TestingT is a minimal interface that matches the methods we need from testing.T
type TestingT interface {
	Errorf(format string, args ...any)
}

// FieldsToMap converts a slice of alternating key-value pairs to a map,
// reporting malformed entries through t.
func FieldsToMap(t TestingT, fields []any) map[string]any {
	fieldsMap := make(map[string]any)

	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			t.Errorf("Malformed fields slice: missing value for key at index %d", i)
			continue
		}

		key, ok := fields[i].(string)
		if !ok {
			t.Errorf("Malformed fields slice: key at index %d is not a string, got %T", i, fields[i])
			continue
		}

		fieldsMap[key] = fields[i+1]
	}

	return fieldsMap
}

// LogEntry is one call captured by RecordingLogger
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
}

// RecordingLogger captures log calls for assertions. It satisfies
// logging.Logger and is safe for concurrent use.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewRecordingLogger creates an empty recording logger
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) Debug(msg string, fields ...any) { l.record("debug", msg, fields) }
func (l *RecordingLogger) Info(msg string, fields ...any)  { l.record("info", msg, fields) }
func (l *RecordingLogger) Warn(msg string, fields ...any)  { l.record("warn", msg, fields) }
func (l *RecordingLogger) Error(msg string, fields ...any) { l.record("error", msg, fields) }

func (l *RecordingLogger) record(level, msg string, fields []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  append([]any(nil), fields...),
	})
}

// Entries returns a copy of everything logged so far
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.entries...)
}

// EntriesAt returns the entries logged at level
func (l *RecordingLogger) EntriesAt(level string) []LogEntry {
	var matched []LogEntry
	for _, entry := range l.Entries() {
		if entry.Level == level {
			matched = append(matched, entry)
		}
	}
	return matched
}

// Find returns the first entry at level whose message contains substr
func (l *RecordingLogger) Find(level, substr string) (LogEntry, bool) {
	for _, entry := range l.EntriesAt(level) {
		if strings.Contains(entry.Message, substr) {
			return entry, true
		}
	}
	return LogEntry{}, false
}

// Reset discards captured entries
func (l *RecordingLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
