package logger

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger is a testify mock implementing Logger.
//
// Session tests use it to assert that device errors and protocol anomalies are logged at the
// expected level, e.g.
//
//	l := logger.NewMockLogger()
//	l.On("With", "resource", name).Return(l)
//	l.On("Warn", "device error", mock.Anything).Twice()
//	l.IgnoreOtherLevels("Warn")
type MockLogger struct {
	mock.Mock
}

var _ Logger = (*MockLogger)(nil)

// NewMockLogger creates a MockLogger without expectations.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// IgnoreOtherLevels accepts any number of calls to the level methods not named in asserted.
// Call it after the asserted expectations are set.
func (m *MockLogger) IgnoreOtherLevels(asserted ...string) *MockLogger {
	skip := make(map[string]bool, len(asserted))
	for _, method := range asserted {
		skip[method] = true
	}

	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		if !skip[method] {
			m.On(method, mock.Anything, mock.Anything).Maybe()
		}
	}

	return m
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Fatal(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) SetLevel(level Level) {
	m.Called(level)
}

func (m *MockLogger) Level() Level {
	args := m.Called()
	return args.Get(0).(Level)
}

func (m *MockLogger) With(keyValues ...any) Logger {
	args := m.Called(keyValues...)
	return args.Get(0).(Logger)
}
