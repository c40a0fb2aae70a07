package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/devserve/internal/services/devserve/platform/httpx"
	"github.com/louisbranch/devserve/internal/services/devserve/platform/observability"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// spanOperation names the server span emitted per request.
const spanOperation = "devserve.static"

// NewHandler serves the directory tree at root with no-cache headers on every
// response. When accessLog is non-nil one line per request is written to it.
func NewHandler(root string, accessLog *log.Logger) (http.Handler, error) {
	dir, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}
	middleware := []httpx.Middleware{
		httpx.NoCache(),
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.RequireMethods(http.MethodGet, http.MethodHead),
	}
	if accessLog != nil {
		middleware = append(middleware, observability.RequestLogger(accessLog))
	}
	h := httpx.Chain(http.FileServer(http.Dir(dir)), middleware...)
	return otelhttp.NewHandler(h, spanOperation), nil
}

// ResolveRoot returns root as an absolute path to an existing directory. An
// empty root means the current working directory.
func ResolveRoot(root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve serving root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat serving root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("serving root %s is not a directory", abs)
	}
	return abs, nil
}
