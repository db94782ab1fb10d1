package chizap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serve(h http.Handler, method, target string) {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("X-Request-ID", "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)
}

func TestMiddlewareLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("hi")) })
	mux.HandleFunc("/missing", http.NotFound)
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	h := Middleware(zap.New(core), Options{Level: zapcore.DebugLevel})(mux)

	serve(h, http.MethodGet, "/ok?x=1")
	serve(h, http.MethodPut, "/missing")
	serve(h, http.MethodGet, "/broken")

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "/ok", fields["path"])
	assert.Equal(t, "x=1", fields["query"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, int64(2), fields["bytes"])
}

func TestMiddlewareSkip(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := Middleware(zap.New(core), Options{
		Skip: func(r *http.Request) bool { return r.URL.Path == "/status.php" },
	})(http.NotFoundHandler())

	serve(h, http.MethodGet, "/status.php")
	serve(h, http.MethodGet, "/other")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "/other", logs.All()[0].ContextMap()["path"])
}
