package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSanitizeLogField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean string", "GET /api/feed", "GET /api/feed"},
		{"newline replaced", "line1\nline2", "line1 line2"},
		{"carriage return replaced", "line1\rline2", "line1 line2"},
		{"null byte stripped", "a\x00b", "ab"},
		{"ansi escape stripped", "a\x1b[31mb", "a[31mb"},
		{"tab preserved", "a\tb", "a\tb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeLogField(tt.input)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestShouldSkip(t *testing.T) {
	config := DefaultLoggingConfig()
	config.LogHealthChecks = false

	if !shouldSkip("/healthz", config) {
		t.Error("Expected health check path to be skipped when disabled")
	}
	if !shouldSkip("/app.css", config) {
		t.Error("Expected static asset to be skipped by default")
	}
	if shouldSkip("/api/feed", config) {
		t.Error("Expected API path not to be skipped")
	}

	config.LogHealthChecks = true
	if shouldSkip("/healthz", config) {
		t.Error("Expected health check path to be logged when enabled")
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:12345"

	if got := getClientIP(r); got != "10.0.0.1" {
		t.Errorf("Expected 10.0.0.1, got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := getClientIP(r); got != "203.0.113.7" {
		t.Errorf("Expected first X-Forwarded-For entry, got %q", got)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/api/feed", "/api/feed"},
		{"/v/0123456789abcdef", "/v/{id}"},
		{"/file/clips/deep/video.mp4", "/file/{path}"},
		{"/healthz", "/healthz"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.expected {
			t.Errorf("normalizePath(%q): expected %q, got %q", tt.path, tt.expected, got)
		}
	}
}

func TestCompressionCompressesJSON(t *testing.T) {
	payload := strings.Repeat(`{"id":"0123456789abcdef"}`, 100)
	handler := Compression(DefaultCompressionConfig())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(payload))
		}))

	r := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Expected gzip encoding, got %q", got)
	}

	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("Failed to create gzip reader: %v", err)
	}
	decompressed, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("Failed to decompress: %v", err)
	}
	if string(decompressed) != payload {
		t.Error("Decompressed payload does not match original")
	}
}

func TestCompressionSkipsSmallResponses(t *testing.T) {
	handler := Compression(DefaultCompressionConfig())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok":true}`))
		}))

	r := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	if got := w.Header().Get("Content-Encoding"); got == "gzip" {
		t.Error("Expected small response not to be compressed")
	}
	if got := w.Body.String(); got != `{"ok":true}` {
		t.Errorf("Unexpected body %q", got)
	}
}

func TestCompressionSkipsStreamingPaths(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	handler := Compression(DefaultCompressionConfig())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(payload))
		}))

	r := httptest.NewRequest(http.MethodGet, "/v/0123456789abcdef", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	if got := w.Header().Get("Content-Encoding"); got == "gzip" {
		t.Error("Expected streaming path to bypass compression")
	}
}

func TestCompressionSkipsWithoutAcceptEncoding(t *testing.T) {
	payload := strings.Repeat("y", 4096)
	handler := Compression(DefaultCompressionConfig())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(payload))
		}))

	r := httptest.NewRequest(http.MethodGet, "/api/feed", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	if got := w.Header().Get("Content-Encoding"); got == "gzip" {
		t.Error("Expected no compression without Accept-Encoding: gzip")
	}
}

func TestResponseWriterCapturesStatus(t *testing.T) {
	w := httptest.NewRecorder()
	rw := newResponseWriter(w)

	rw.WriteHeader(http.StatusNotFound)
	rw.Write([]byte("not found"))

	if rw.statusCode != http.StatusNotFound {
		t.Errorf("Expected captured status 404, got %d", rw.statusCode)
	}
	if rw.bytesWritten != int64(len("not found")) {
		t.Errorf("Expected %d bytes written, got %d", len("not found"), rw.bytesWritten)
	}

	// A second WriteHeader must not override the first
	rw.WriteHeader(http.StatusOK)
	if rw.statusCode != http.StatusNotFound {
		t.Errorf("Expected status to stay 404, got %d", rw.statusCode)
	}
}
