package media

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "lessons"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lessons", "intro.mp4"), []byte("fake video bytes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return s
}

func TestFS_OpenAndTraversalGuard(t *testing.T) {
	s := newTestFS(t)

	f, err := s.Open("lessons/intro.mp4")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, _ := io.ReadAll(f)
	f.Close()
	if string(data) != "fake video bytes" {
		t.Fatalf("unexpected content: %q", data)
	}

	for _, key := range []string{"", "../secrets", "lessons/../../etc/passwd"} {
		if _, err := s.Open(key); err == nil {
			t.Fatalf("key %q must be rejected", key)
		}
	}
}

func TestHandler_ServesAndRanges(t *testing.T) {
	s := newTestFS(t)
	r := chi.NewRouter()
	r.Get("/media/*", Handler(s, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/media/lessons/intro.mp4", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "fake video bytes" {
		t.Fatalf("body mismatch: %q", rec.Body.String())
	}

	// players scrub with range requests
	req = httptest.NewRequest(http.MethodGet, "/media/lessons/intro.mp4", nil)
	req.Header.Set("Range", "bytes=5-9")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusPartialContent {
		t.Fatalf("expected 206, got %d", rec.Code)
	}
	if rec.Body.String() != "video" {
		t.Fatalf("range body mismatch: %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/media/lessons/missing.mp4", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
