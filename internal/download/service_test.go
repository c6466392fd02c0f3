package download

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/catalog"
)

// mockCounter мок счетчика скачиваний
type mockCounter struct {
	mu    sync.Mutex
	files []string
}

func (m *mockCounter) IncrementDownloads(filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = append(m.files, filename)
	return nil
}

func (m *mockCounter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// mockObjects мок клиента S3
type mockObjects struct {
	bucket, key string
	err         error
}

func (m *mockObjects) Open(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	m.bucket, m.key = bucket, key
	if m.err != nil {
		return nil, 0, m.err
	}
	return io.NopCloser(strings.NewReader("s3 data")), 7, nil
}

func newTrack(filename string) *catalog.Track {
	return &catalog.Track{ID: 1, Filename: filename}
}

func newAudioServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/1Re1.mp3" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("mp3 bytes"))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDownloadSuccess(t *testing.T) {
	server := newAudioServer(t)
	dir := t.TempDir()
	counter := &mockCounter{}

	var lastWritten int64
	svc := NewService(Config{RemoteBaseURL: server.URL + "/audio/", Dir: dir}, counter, zap.NewNop(),
		WithProgress(func(filename string, written, total int64) {
			if filename != "1Re1.mp3" {
				t.Errorf("Неожиданное имя в прогрессе: %s", filename)
			}
			lastWritten = written
		}))

	path, err := svc.Download(context.Background(), newTrack("1Re1.mp3"))
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if path != filepath.Join(dir, "1Re1.mp3") {
		t.Errorf("Файл должен сохраняться под исходным именем, получено %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "mp3 bytes" {
		t.Errorf("Неожиданное содержимое: %q (%v)", data, err)
	}
	if counter.count() != 1 || counter.files[0] != "1Re1.mp3" {
		t.Errorf("Ожидался учет скачивания 1Re1.mp3, получено %v", counter.files)
	}
	if lastWritten != int64(len("mp3 bytes")) {
		t.Errorf("Ожидался прогресс %d байт, получено %d", len("mp3 bytes"), lastWritten)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Временные файлы должны быть удалены, в каталоге %d файлов", len(entries))
	}
}

func TestDownloadFailureLeavesCounter(t *testing.T) {
	server := newAudioServer(t)
	dir := t.TempDir()
	counter := &mockCounter{}
	svc := NewService(Config{RemoteBaseURL: server.URL + "/audio", Dir: dir}, counter, zap.NewNop())

	_, err := svc.Download(context.Background(), newTrack("missing.mp3"))
	if !errors.Is(err, ErrDownloadFailed) {
		t.Fatalf("Ожидалась ошибка ErrDownloadFailed, получено %v", err)
	}
	if counter.count() != 0 {
		t.Error("Неудачное скачивание не должно менять счетчики")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("После ошибки не должно оставаться файлов, найдено %d", len(entries))
	}
}

func TestDownloadFromS3(t *testing.T) {
	dir := t.TempDir()
	counter := &mockCounter{}
	objects := &mockObjects{}
	svc := NewService(Config{RemoteBaseURL: "s3://tafsir/audio", Dir: dir}, counter, zap.NewNop(), WithObjects(objects))

	path, err := svc.Download(context.Background(), newTrack("out1.mp3"))
	if err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if objects.bucket != "tafsir" || objects.key != "audio/out1.mp3" {
		t.Errorf("Неверный объект: %s/%s", objects.bucket, objects.key)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "s3 data" {
		t.Errorf("Неожиданное содержимое: %q", data)
	}
}

func TestDownloadS3NotConfigured(t *testing.T) {
	counter := &mockCounter{}
	svc := NewService(Config{RemoteBaseURL: "s3://tafsir", Dir: t.TempDir()}, counter, zap.NewNop())

	if _, err := svc.Download(context.Background(), newTrack("a.mp3")); !errors.Is(err, ErrDownloadFailed) {
		t.Errorf("Ожидалась ошибка ErrDownloadFailed, получено %v", err)
	}
}

func TestStartAttributesByFilename(t *testing.T) {
	server := newAudioServer(t)
	counter := &mockCounter{}
	svc := NewService(Config{RemoteBaseURL: server.URL + "/audio", Dir: t.TempDir()}, counter, zap.NewNop())

	done := make(chan error, 1)
	svc.Start(context.Background(), newTrack("1Re1.mp3"), func(path string, err error) {
		done <- err
	})

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Скачивание не завершилось")
	}
	if counter.files[0] != "1Re1.mp3" {
		t.Errorf("Скачивание должно учитываться для своего файла, получено %v", counter.files)
	}
}

func TestURL(t *testing.T) {
	svc := NewService(Config{}, &mockCounter{}, zap.NewNop())
	if got := svc.URL("1Re1.mp3"); got != DefaultRemoteBaseURL+"/1Re1.mp3" {
		t.Errorf("Неожиданный URL: %s", got)
	}
}
