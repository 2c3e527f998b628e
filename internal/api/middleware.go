package api

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/superleo/marketingops/backend/internal/logging"
	"github.com/superleo/marketingops/backend/internal/metrics"
)

const requestIDHeader = "X-Request-Id"

// RequestIDMiddleware propagates or assigns a request id and attaches it to the context logger.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.ContextWithRequestID(r.Context(), id)))
	})
}

// LoggingMiddleware logs the incoming HTTP request and records its metrics by route template.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := NewStatusResponseWriter(w)
		log := logging.Ctx(r.Context())

		log.Debug().Str("method", r.Method).Str("uri", r.RequestURI).Str("remote", r.RemoteAddr).Msg("request start")
		next.ServeHTTP(srw, r)
		elapsed := time.Since(start)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(srw.statusCode), elapsed)
		log.Info().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", srw.statusCode).
			Str("remote", r.RemoteAddr).
			Dur("duration", elapsed).
			Msg("request end")
	})
}

// StatusResponseWriter wraps ResponseWriter to capture status code. It passes Flush and
// Hijack through so streaming and websocket upgrades keep working behind the middleware.
type StatusResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func NewStatusResponseWriter(w http.ResponseWriter) *StatusResponseWriter {
	return &StatusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (srw *StatusResponseWriter) WriteHeader(code int) {
	if srw.wroteHeader {
		return
	}
	srw.statusCode = code
	srw.wroteHeader = true
	srw.ResponseWriter.WriteHeader(code)
}

func (srw *StatusResponseWriter) Write(b []byte) (int, error) {
	srw.wroteHeader = true
	return srw.ResponseWriter.Write(b)
}

func (srw *StatusResponseWriter) Flush() {
	if flusher, ok := srw.ResponseWriter.(http.Flusher); ok {
		srw.wroteHeader = true
		flusher.Flush()
	}
}

func (srw *StatusResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := srw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	srw.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// APIKeyAuthMiddleware checks the bearer token. Browsers cannot set headers on websocket
// handshakes, so an api_key query parameter is accepted as well.
func APIKeyAuthMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			token := r.URL.Query().Get("api_key")
			if token == "" {
				authHeader := r.Header.Get("Authorization")
				if authHeader == "" {
					respondWithError(w, http.StatusUnauthorized, "Authorization header required")
					return
				}
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
					respondWithError(w, http.StatusUnauthorized, "Invalid Authorization header format")
					return
				}
				token = parts[1]
			}
			if token != apiKey {
				logging.Ctx(r.Context()).Warn().Str("remote", r.RemoteAddr).Str("method", r.Method).Str("uri", r.URL.Path).Msg("auth failed: invalid API key")
				respondWithError(w, http.StatusUnauthorized, "Invalid API Key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Request-Id")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Date, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
