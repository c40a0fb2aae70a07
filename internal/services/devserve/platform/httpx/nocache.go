package httpx

import (
	"io"
	"net/http"
)

var noCacheHeaders = map[string]string{
	"Cache-Control": "no-cache",
	"Expires":       "0",
}

// NoCache sets Cache-Control: no-cache and Expires: 0 at the moment response
// headers are sent.
//
// The headers are applied on the first WriteHeader or Write, not before
// calling next, because http.FileServer clears Cache-Control on its error
// paths. Headers the inner handler set for the same keys are overwritten.
func NoCache() Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nw := &noCacheWriter{ResponseWriter: w}
			next.ServeHTTP(nw, r)
			if !nw.wroteHeader {
				// Handler returned without writing; the server would send an
				// implicit 200 that bypasses the wrapper.
				nw.WriteHeader(http.StatusOK)
			}
		})
	}
}

type noCacheWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *noCacheWriter) WriteHeader(status int) {
	// 1xx responses other than 101 are informational; the final header set
	// follows later.
	if w.wroteHeader || (status >= 100 && status < 200 && status != http.StatusSwitchingProtocols) {
		w.ResponseWriter.WriteHeader(status)
		return
	}
	w.wroteHeader = true
	h := w.ResponseWriter.Header()
	for key, value := range noCacheHeaders {
		h.Set(key, value)
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *noCacheWriter) Write(p []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(p)
}

// ReadFrom keeps the underlying writer's sendfile path reachable for file
// bodies copied by http.ServeContent.
func (w *noCacheWriter) ReadFrom(src io.Reader) (int64, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return io.Copy(w.ResponseWriter, src)
}

func (w *noCacheWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	_ = http.NewResponseController(w.ResponseWriter).Flush()
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (w *noCacheWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
