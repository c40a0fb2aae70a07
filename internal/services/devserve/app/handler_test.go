package server

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// listingLinks returns the href of every anchor in an HTML document.
func listingLinks(t *testing.T, body string) []string {
	t.Helper()

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse listing: %v", err)
	}
	var links []string
	for node := range doc.Descendants() {
		if node.Type != html.ElementNode || node.Data != "a" {
			continue
		}
		for _, attr := range node.Attr {
			if attr.Key == "href" {
				links = append(links, attr.Val)
			}
		}
	}
	return links
}

func TestHandlerListsDirectoryWithoutIndex(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), "b")
	writeFile(t, filepath.Join(root, "assets", "app.js"), "js")
	writeFile(t, filepath.Join(root, "assets", "deep", "x.css"), "css")

	h, err := NewHandler(root, nil)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/html") {
		t.Fatalf("Content-Type = %q, want text/html", got)
	}
	assertRecorderNoCache(t, rr)

	links := listingLinks(t, rr.Body.String())
	want := []string{"assets/", "b.txt"}
	if !slices.Equal(links, want) {
		t.Fatalf("listing links = %v, want %v", links, want)
	}
}

func TestHandlerListsNestedDirectoryChildrenOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "assets", "app.js"), "js")
	writeFile(t, filepath.Join(root, "assets", "deep", "x.css"), "css")

	h, err := NewHandler(root, nil)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/assets/", nil))

	links := listingLinks(t, rr.Body.String())
	want := []string{"app.js", "deep/"}
	if !slices.Equal(links, want) {
		t.Fatalf("listing links = %v, want %v", links, want)
	}
}

func TestHandlerPermissionDeniedKeepsNoCacheHeaders(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	root := t.TempDir()
	path := filepath.Join(root, "secret.txt")
	writeFile(t, path, "secret")
	if err := os.Chmod(path, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	h, err := NewHandler(root, nil)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/secret.txt", nil))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	assertRecorderNoCache(t, rr)
}

func TestHandlerWritesAccessLog(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "hello")

	var buffer bytes.Buffer
	h, err := NewHandler(root, log.New(&buffer, "", 0))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/a.txt", nil))

	logLine := buffer.String()
	for _, marker := range []string{"method=GET", "path=/a.txt", "status=200", "bytes=5", "request_id=devserve-"} {
		if !strings.Contains(logLine, marker) {
			t.Fatalf("access log missing marker %q: %q", marker, logLine)
		}
	}
}

func TestNewHandlerRejectsMissingRoot(t *testing.T) {
	if _, err := NewHandler(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestResolveRootReturnsAbsolutePath(t *testing.T) {
	root := t.TempDir()
	t.Chdir(root)

	got, err := ResolveRoot("")
	if err != nil {
		t.Fatalf("ResolveRoot() error = %v", err)
	}
	want, err := filepath.EvalSymlinks(root)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	if resolved, _ := filepath.EvalSymlinks(got); resolved != want {
		t.Fatalf("ResolveRoot(\"\") = %q, want %q", got, root)
	}
}

func assertRecorderNoCache(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()

	if got := rr.Header().Get("Cache-Control"); got != "no-cache" {
		t.Fatalf("Cache-Control = %q, want %q", got, "no-cache")
	}
	if got := rr.Header().Get("Expires"); got != "0" {
		t.Fatalf("Expires = %q, want %q", got, "0")
	}
}
