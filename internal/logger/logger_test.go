package logger

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	defer func() { Log = zap.NewNop() }()

	require.NoError(t, Initialize("info", "development"))
	assert.True(t, Log.Core().Enabled(zap.InfoLevel))
	assert.False(t, Log.Core().Enabled(zap.DebugLevel))

	assert.Error(t, Initialize("loud", "production"))
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.log")

	l := NewFileLogger(FileConfig{Path: path, MaxSizeMB: 1})
	l.Info("cleanup log entry", zap.String("id", "run-1"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"run-1"`)
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	Log = zap.New(core)
	defer func() { Log = zap.NewNop() }()

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/orders/DEMO-1", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, int64(http.StatusNotFound), entry.ContextMap()["status"])
	assert.Equal(t, "/api/user/orders/DEMO-1", entry.ContextMap()["uri"])
}
