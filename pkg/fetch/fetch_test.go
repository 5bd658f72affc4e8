package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func serveContent(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(content))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func engines(t *testing.T) map[string]Fetcher {
	t.Helper()
	return map[string]Fetcher{
		EngineHTTP: NewHTTP(Options{}),
		EngineGrab: NewGrab(Options{}),
	}
}

func TestFetchWritesFile(t *testing.T) {
	t.Parallel()

	srv := serveContent(t, "image bytes")
	for name, f := range engines(t) {
		t.Run(name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "a.jpg")
			if err := f.Fetch(context.Background(), srv.URL+"/a.jpg", dest); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := os.ReadFile(dest)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != "image bytes" {
				t.Fatalf("content mismatch: got=%q", got)
			}
		})
	}
}

func TestFetchReplacesExistingFile(t *testing.T) {
	t.Parallel()

	srv := serveContent(t, "new")
	for name, f := range engines(t) {
		t.Run(name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "x.jpg")
			if err := os.WriteFile(dest, []byte("old content, longer than new"), 0644); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := f.Fetch(context.Background(), srv.URL+"/x.jpg", dest); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, _ := os.ReadFile(dest)
			if string(got) != "new" {
				t.Fatalf("content mismatch: got=%q", got)
			}
		})
	}
}

func TestGrabReplacesSameSizeFile(t *testing.T) {
	t.Parallel()

	srv := serveContent(t, "BBBB")
	dest := filepath.Join(t.TempDir(), "x.jpg")
	if err := os.WriteFile(dest, []byte("AAAA"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f := NewGrab(Options{})
	if err := f.Fetch(context.Background(), srv.URL+"/x.jpg", dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "BBBB" {
		t.Fatalf("content mismatch: got=%q", got)
	}
}

func TestFetchBadStatus(t *testing.T) {
	t.Parallel()

	srv := serveContent(t, "ignored")
	for name, f := range engines(t) {
		t.Run(name, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "missing.jpg")
			err := f.Fetch(context.Background(), srv.URL+"/missing", dest)
			if err == nil {
				t.Fatal("expected error for 404 response")
			}
		})
	}
}

func TestHTTPBadStatusIsSentinel(t *testing.T) {
	t.Parallel()

	srv := serveContent(t, "ignored")
	f := NewHTTP(Options{})
	err := f.Fetch(context.Background(), srv.URL+"/missing", filepath.Join(t.TempDir(), "m.jpg"))
	if !errors.Is(err, ErrBadStatus) {
		t.Fatalf("error mismatch: got=%v", err)
	}
}

func TestFetchCanceledContext(t *testing.T) {
	t.Parallel()

	srv := serveContent(t, "never delivered")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewHTTP(Options{})
	if err := f.Fetch(ctx, srv.URL+"/a.jpg", filepath.Join(t.TempDir(), "a.jpg")); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestHTTPSendsUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewHTTP(Options{UserAgent: "fetchlist/test"})
	if err := f.Fetch(context.Background(), srv.URL, filepath.Join(t.TempDir(), "f")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUA != "fetchlist/test" {
		t.Fatalf("user agent mismatch: got=%q", gotUA)
	}
}

func TestNewSelectsEngine(t *testing.T) {
	t.Parallel()

	if _, err := New(EngineHTTP, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := New("", Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := New(EngineGrab, Options{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := New("curl", Options{}); err == nil {
		t.Fatal("expected error for unknown engine")
	}
}
