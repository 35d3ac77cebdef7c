package logging

import "sync"

// MockLogger records log calls for assertions in tests. Derived loggers from
// WithField/WithError share the same entry sink as their parent.
type MockLogger struct {
	sink   *mockSink
	fields []Field
	err    error
}

type mockSink struct {
	mu      sync.Mutex
	entries []MockEntry
}

// MockEntry is a single recorded log call.
type MockEntry struct {
	Level   string
	Message string
	Fields  []Field
	Err     error
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{sink: &mockSink{}}
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	all := append(append([]Field{}, m.fields...), fields...)
	m.sink.entries = append(m.sink.entries, MockEntry{Level: level, Message: msg, Fields: all, Err: m.err})
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("error", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	return &MockLogger{sink: m.sink, fields: m.fields, err: err}
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m.WithFields(Field{Key: key, Value: value})
}

func (m *MockLogger) WithFields(fields ...Field) Logger {
	return &MockLogger{sink: m.sink, fields: append(append([]Field{}, m.fields...), fields...), err: m.err}
}

// Entries returns a copy of all recorded entries.
func (m *MockLogger) Entries() []MockEntry {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	return append([]MockEntry{}, m.sink.entries...)
}

// HasMessage reports whether any recorded entry carries the given message.
func (m *MockLogger) HasMessage(msg string) bool {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	for _, e := range m.sink.entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}
