// Package testutil provides mock implementations of the collaborator
// interfaces defined in pkg/converter and its subpackages, plus small
// filesystem and logging helpers for tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"text/template"
	"time"

	"github.com/stackvity/devconv/pkg/converter"
	tpl "github.com/stackvity/devconv/pkg/converter/template" // Alias to avoid collision
	"github.com/stretchr/testify/mock"
)

// MockHooks provides a mock implementation of the converter.Hooks interface.
// Configure expectations using testify/mock methods (e.g., .On("OnResult", mock.Anything).Return(nil)).
type MockHooks struct {
	mock.Mock
}

// OnResult mocks the OnResult method.
func (m *MockHooks) OnResult(result converter.ConversionResult) error {
	args := m.Called(result)
	return args.Error(0)
}

// OnError mocks the OnError method.
func (m *MockHooks) OnError(category converter.Category, err error) error {
	args := m.Called(category, err)
	return args.Error(0)
}

// OnComplete mocks the OnComplete method.
func (m *MockHooks) OnComplete(output converter.PipelineOutput, elapsed time.Duration) error {
	args := m.Called(output, elapsed)
	return args.Error(0)
}

// MockTranslator provides a mock implementation of the i18n.Translator interface.
type MockTranslator struct {
	mock.Mock
}

// Translate mocks the Translate method.
func (m *MockTranslator) Translate(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// MockDateTime provides a mock implementation of the datetime.Collaborator interface.
type MockDateTime struct {
	mock.Mock
}

// FormatInstant mocks the FormatInstant method.
func (m *MockDateTime) FormatInstant(t time.Time) string {
	args := m.Called(t)
	return args.String(0)
}

// ParseFreeform mocks the ParseFreeform method.
func (m *MockDateTime) ParseFreeform(text string) (time.Time, error) {
	args := m.Called(text)
	parsed, _ := args.Get(0).(time.Time)
	return parsed, args.Error(1)
}

// MockEncodingHandler provides a mock implementation of the encoding.EncodingHandler interface.
type MockEncodingHandler struct {
	mock.Mock
}

// DetectAndDecode mocks the DetectAndDecode method.
func (m *MockEncodingHandler) DetectAndDecode(content []byte) (utf8Content []byte, detectedEncoding string, certain bool, err error) {
	args := m.Called(content)
	utf8Content, _ = args.Get(0).([]byte)
	detectedEncoding = args.String(1)
	certain = args.Bool(2)
	err = args.Error(3)
	return
}

// IsBinary mocks the IsBinary method.
func (m *MockEncodingHandler) IsBinary(content []byte) bool {
	args := m.Called(content)
	return args.Bool(0)
}

// MockTemplateExecutor provides a mock implementation of the template.TemplateExecutor interface.
type MockTemplateExecutor struct {
	mock.Mock
}

// Execute mocks the Execute method.
func (m *MockTemplateExecutor) Execute(writer io.Writer, template *template.Template, metadata *tpl.TemplateMetadata) error {
	args := m.Called(writer, template, metadata)
	return args.Error(0)
}

// MockLoggerHandler provides a mock implementation for slog.Handler.
// Generally, NewBufferLogger is preferred for asserting on log output.
type MockLoggerHandler struct {
	mock.Mock
}

// Enabled mocks the Enabled method.
func (m *MockLoggerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	args := m.Called(ctx, level)
	return args.Bool(0)
}

// Handle mocks the Handle method.
func (m *MockLoggerHandler) Handle(ctx context.Context, r slog.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// WithAttrs mocks the WithAttrs method. It returns the mock itself unless a
// handler was configured.
func (m *MockLoggerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	args := m.Called(attrs)
	if h, ok := args.Get(0).(slog.Handler); ok && h != nil {
		return h
	}
	return m
}

// WithGroup mocks the WithGroup method.
func (m *MockLoggerHandler) WithGroup(name string) slog.Handler {
	args := m.Called(name)
	if h, ok := args.Get(0).(slog.Handler); ok && h != nil {
		return h
	}
	return m
}
