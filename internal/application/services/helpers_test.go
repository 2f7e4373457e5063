package services

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"fyrxlab.net/solvermotd/internal/application/ports"
)

type logEntry struct {
	Level   ports.LogLevel
	Message string
	Err     error
	Fields  map[string]interface{}
}

// MockLogger records every entry for assertions.
type MockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (m *MockLogger) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{Level: level, Message: message, Fields: fields})
}

func (m *MockLogger) LogError(err error, message string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, logEntry{Level: ports.LogLevelError, Message: message, Err: err, Fields: fields})
}

func (m *MockLogger) SetLogLevel(level ports.LogLevel)                   {}
func (m *MockLogger) GetLogLevel() ports.LogLevel                        { return ports.LogLevelDebug }
func (m *MockLogger) ConfigureLogging(config *ports.LoggingConfig) error { return nil }

func (m *MockLogger) Entries(level ports.LogLevel) []logEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []logEntry
	for _, e := range m.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (m *MockLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Message)
	}
	return out
}

// mapTemplates is an in-memory TemplateSource.
type mapTemplates map[string]string

func (m mapTemplates) Template(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("template %q: %w", name, ports.ErrTemplateNotFound)
	}
	return []byte(data), nil
}

func (m mapTemplates) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type testSender struct {
	name        string
	permissions map[string]bool
	messages    []string
}

func newTestSender(perms ...string) *testSender {
	s := &testSender{name: "tester", permissions: map[string]bool{}}
	for _, p := range perms {
		s.permissions[p] = true
	}
	return s
}

func (s *testSender) Name() string                   { return s.name }
func (s *testSender) HasPermission(perm string) bool { return s.permissions[perm] }
func (s *testSender) SendMessage(message string)     { s.messages = append(s.messages, message) }

func requireNoWarnings(t *testing.T, result ReconcileResult) {
	t.Helper()
	if len(result.Warnings) > 0 {
		t.Fatalf("unexpected warnings for %s: %v", result.Name, result.Warnings)
	}
}
