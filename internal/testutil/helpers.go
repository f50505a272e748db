package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// CreateDummyFile writes content to path, creating parent directories.
func CreateDummyFile(t *testing.T, path string, content string) {
	t.Helper()
	CreateDummyBytes(t, path, []byte(content))
}

// CreateDummyBytes writes raw bytes to path, creating parent directories.
func CreateDummyBytes(t *testing.T, path string, content []byte) {
	t.Helper()
	fullPath := filepath.Clean(path)
	dir := filepath.Dir(fullPath)
	require.NoError(t, os.MkdirAll(dir, 0o755), "Failed to create directory %s for dummy file", dir)
	require.NoError(t, os.WriteFile(fullPath, content, 0o644), "Failed to write dummy file %s", fullPath)
}

// SyncBuffer is a bytes.Buffer safe for concurrent writers.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far.
func (b *SyncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewBufferLogger returns a debug-level text handler writing into a buffer
// that tests can inspect.
func NewBufferLogger() (slog.Handler, *SyncBuffer) {
	buf := &SyncBuffer{}
	return slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}), buf
}
