package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// AdminTokenMiddleware проверяет заголовок Authorization: Bearer <token>.
func AdminTokenMiddleware(token string) func(http.Handler) http.Handler {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			got, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || got == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: missing bearer token")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized: invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger пишет каждый запрос в zap вместо стандартного middleware.Logger.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("HTTP запрос",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
