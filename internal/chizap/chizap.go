// Package chizap logs the requests an http.Handler serves with zap.
package chizap

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Level applies to requests answered below 400.
	Level zapcore.Level
	Skip  func(r *http.Request) bool
}

func levelFor(status int, base zapcore.Level) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return max(base, zapcore.WarnLevel)
	}
	return base
}

func Middleware(logger *zap.Logger, opts Options) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			if opts.Skip != nil && opts.Skip(r) {
				return
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Log(levelFor(status, opts.Level), "request",
				zap.Int("status", status),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.String("request_id", r.Header.Get("X-Request-ID")),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}
