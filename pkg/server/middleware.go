package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/pierrec/lz4/v4"
)

// statusRecorder remembers the status code written through it
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLoggerMiddleware logs the method, URL path, status and duration for each request.
func (s *Server) requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// lz4ResponseWriter compresses the response body into an lz4 frame. Responses
// that carry no body are passed through untouched.
type lz4ResponseWriter struct {
	http.ResponseWriter
	zw          *lz4.Writer
	wroteHeader bool
	compress    bool
}

func (w *lz4ResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.compress = code != http.StatusNoContent && code != http.StatusNotModified
	if w.compress {
		w.Header().Set("Content-Encoding", "lz4")
		w.Header().Del("Content-Length")
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *lz4ResponseWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if !w.compress {
		return w.ResponseWriter.Write(p)
	}
	if w.zw == nil {
		w.zw = lz4.NewWriter(w.ResponseWriter)
	}
	return w.zw.Write(p)
}

// Close flushes the lz4 frame
func (w *lz4ResponseWriter) Close() error {
	if w.zw == nil {
		return nil
	}
	return w.zw.Close()
}

// acceptsLZ4 reports whether the client lists lz4 in Accept-Encoding
func acceptsLZ4(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "lz4") {
			return true
		}
	}
	return false
}

// compressionMiddleware lz4-compresses responses for clients that accept it
func compressionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Encoding")
		if !acceptsLZ4(r) {
			next.ServeHTTP(w, r)
			return
		}

		zw := &lz4ResponseWriter{ResponseWriter: w}
		defer zw.Close()
		next.ServeHTTP(zw, r)
	})
}
