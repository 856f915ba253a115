package web

import (
	"net/http"
	"time"

	"pkt.systems/pslog"
)

// statusWriter captures the response status and size. It forwards Flush so
// streamed run logs reach the browser line by line.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *statusWriter) Write(p []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	n, err := sw.ResponseWriter.Write(p)
	sw.bytes += int64(n)
	return n, err
}

func (sw *statusWriter) Flush() {
	if f, ok := sw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// ApplyMiddleware wraps next with panic recovery and request logging. The
// logger is also stored in every request context for pslog.Ctx.
func ApplyMiddleware(next http.Handler, logger pslog.Logger) http.Handler {
	return withLogger(logger, loggingMiddleware(recoveryMiddleware(next)))
}

func withLogger(logger pslog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := pslog.ContextWithLogger(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		pslog.Ctx(r.Context()).Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", sw.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// recoveryMiddleware turns a panic into a JSON 500. Once a response has
// started, such as a run log stream, it only logs and ends the response.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw, ok := w.(*statusWriter)
		if !ok {
			sw = &statusWriter{ResponseWriter: w}
		}

		defer func() {
			if v := recover(); v != nil {
				pslog.Ctx(r.Context()).Error("panic recovered",
					"panic", v,
					"path", r.URL.Path,
					"response_started", sw.status != 0,
				)
				if sw.status == 0 {
					writeError(sw, http.StatusInternalServerError, "internal server error")
				}
			}
		}()

		next.ServeHTTP(sw, r)
	})
}
