package streaming

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("Неожиданный User-Agent: %s", r.Header.Get("User-Agent"))
		}
		_, _ = w.Write([]byte("ID3 audio"))
	}))
	defer server.Close()

	rc, err := Open(context.Background(), server.URL+"/1Re1.mp3")
	if err != nil {
		t.Fatalf("Ошибка открытия: %v", err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil || string(body) != "ID3 audio" {
		t.Errorf("Неожиданное содержимое: %q (%v)", body, err)
	}
}

func TestOpenRemoteNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := Open(context.Background(), server.URL+"/missing.mp3")
	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("Ожидалась ошибка ErrHTTPStatus, получено %v", err)
	}
}

func TestOpenLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.mp3")
	if err := os.WriteFile(path, []byte("local"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, location := range []string{path, "file://" + path} {
		rc, err := Open(context.Background(), location)
		if err != nil {
			t.Fatalf("Ошибка открытия %s: %v", location, err)
		}
		body, _ := io.ReadAll(rc)
		rc.Close()
		if string(body) != "local" {
			t.Errorf("Неожиданное содержимое %s: %q", location, body)
		}
	}

	if _, err := Open(context.Background(), filepath.Join(t.TempDir(), "none.mp3")); err == nil {
		t.Error("Ожидалась ошибка для отсутствующего файла")
	}
}

func TestIsRemote(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/a.mp3": true,
		"http://example.com/a.mp3":  true,
		"audio/a.mp3":               false,
		"s3://bucket/a.mp3":         false,
	}
	for location, expected := range tests {
		if IsRemote(location) != expected {
			t.Errorf("IsRemote(%s) = %v; expected %v", location, !expected, expected)
		}
	}
}
