package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/config"
	"github.com/hazadus/tafsir/internal/feed"
	"github.com/hazadus/tafsir/internal/search"
	"github.com/hazadus/tafsir/internal/store"
)

// fakeMedia - медиа-элемент без звука
type fakeMedia struct {
	mu    sync.Mutex
	loads []string
}

func (m *fakeMedia) Load(token uint64, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, url)
	return nil
}

func (m *fakeMedia) Play(token uint64)                 {}
func (m *fakeMedia) Pause() error                      { return nil }
func (m *fakeMedia) Seek(position time.Duration) error { return nil }

// fakeSource - фиксированный список файлов
type fakeSource struct {
	names []string
	err   error
}

func (s fakeSource) Filenames(ctx context.Context) ([]string, error) {
	return s.names, s.err
}

var testFiles = []string{"1Re1.mp3", "2Re1.mp3", "11-33Re1.mp3", "out1.mp3"}

func newTestApp(t *testing.T, st store.Store, opts Options) (*App, *fakeMedia) {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Backend = config.StoreMemory
	cfg.DownloadDir = t.TempDir()

	media := &fakeMedia{}
	opts.Store = st
	opts.Media = media
	if opts.Source == nil {
		opts.Source = fakeSource{names: testFiles}
	}
	if opts.Clock == nil {
		opts.Clock = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local) }
	}

	a, err := New(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("Ошибка создания приложения: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a, media
}

func TestNewTracksVisitorOncePerDay(t *testing.T) {
	st := store.NewMemory()
	first, _ := newTestApp(t, st, Options{})
	if got := first.Stats.Aggregate().Visitors; got != 1 {
		t.Fatalf("Ожидался 1 посетитель, получено %d", got)
	}

	second, _ := newTestApp(t, st, Options{})
	if got := second.Stats.Aggregate().Visitors; got != 1 {
		t.Errorf("Повторный запуск в тот же день не должен считаться, получено %d", got)
	}

	third, _ := newTestApp(t, st, Options{
		Clock: func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local) },
	})
	if got := third.Stats.Aggregate().Visitors; got != 2 {
		t.Errorf("Новый день должен считаться, получено %d", got)
	}
}

func TestNewSourceError(t *testing.T) {
	cfg := config.Default()
	_, err := New(context.Background(), cfg, Options{
		Store:  store.NewMemory(),
		Media:  &fakeMedia{},
		Source: fakeSource{err: errors.New("нет сети")},
	})
	if err == nil {
		t.Fatal("Ожидалась ошибка источника каталога")
	}
}

func TestDispatchPlay(t *testing.T) {
	a, media := newTestApp(t, store.NewMemory(), Options{})

	if err := a.Dispatch(context.Background(), Command{Type: CommandPlay, TrackID: 2}); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	if len(media.loads) != 1 || media.loads[0] != "audio/2Re1.mp3" {
		t.Errorf("Ожидалась загрузка audio/2Re1.mp3, получено %v", media.loads)
	}
	track, _ := a.Catalog.TrackByID(2)
	if got := a.Catalog.Counters(track).Listens; got != 1 {
		t.Errorf("Ожидалось 1 прослушивание, получено %d", got)
	}
	if a.Stats.Aggregate().Listens != 1 {
		t.Error("Общий счетчик прослушиваний должен увеличиться")
	}
	if a.Player.Current() != track {
		t.Error("Текущим должен стать выбранный трек")
	}
}

func TestDispatchNavigation(t *testing.T) {
	a, media := newTestApp(t, store.NewMemory(), Options{})
	ctx := context.Background()

	steps := []Command{
		{Type: CommandTogglePlay},
		{Type: CommandNext},
		{Type: CommandNext},
		{Type: CommandPrevious},
	}
	for _, cmd := range steps {
		if err := a.Dispatch(ctx, cmd); err != nil {
			t.Fatalf("Команда %v: %v", cmd.Type, err)
		}
	}

	expected := []string{"audio/1Re1.mp3", "audio/2Re1.mp3", "audio/11-33Re1.mp3", "audio/2Re1.mp3"}
	if len(media.loads) != len(expected) {
		t.Fatalf("Ожидалось %d загрузок, получено %v", len(expected), media.loads)
	}
	for i := range expected {
		if media.loads[i] != expected[i] {
			t.Errorf("Загрузка %d: ожидалось %s, получено %s", i, expected[i], media.loads[i])
		}
	}
}

func TestDispatchFavorites(t *testing.T) {
	a, _ := newTestApp(t, store.NewMemory(), Options{})
	ctx := context.Background()

	for _, id := range []int{3, 1} {
		if err := a.Dispatch(ctx, Command{Type: CommandFavorite, TrackID: id}); err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}
	}

	favs := a.FavoriteTracks()
	if len(favs) != 2 || favs[0].ID != 3 || favs[1].ID != 1 {
		t.Errorf("Неожиданное избранное: %v", favs)
	}

	if err := a.Dispatch(ctx, Command{Type: CommandClearFavorites}); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}
	if len(a.FavoriteTracks()) != 0 {
		t.Error("Избранное должно быть очищено")
	}
}

func TestDispatchUnknownTrack(t *testing.T) {
	a, media := newTestApp(t, store.NewMemory(), Options{})

	for _, typ := range []CommandType{CommandPlay, CommandFavorite, CommandDownload} {
		err := a.Dispatch(context.Background(), Command{Type: typ, TrackID: 999})
		if !errors.Is(err, catalog.ErrTrackNotFound) {
			t.Errorf("%v: ожидалась ErrTrackNotFound, получено %v", typ, err)
		}
	}
	if len(media.loads) != 0 {
		t.Error("Неизвестный трек не должен загружаться")
	}
}

func TestDispatchDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("audio"))
	}))
	defer server.Close()

	type result struct {
		track *catalog.Track
		err   error
	}
	done := make(chan result, 1)

	st := store.NewMemory()
	cfg := config.Default()
	cfg.RemoteBaseURL = server.URL
	cfg.DownloadDir = t.TempDir()
	a, err := New(context.Background(), cfg, Options{
		Store:  st,
		Media:  &fakeMedia{},
		Source: fakeSource{names: testFiles},
		DownloadDone: func(track *catalog.Track, path string, err error) {
			done <- result{track, err}
		},
	})
	if err != nil {
		t.Fatalf("Ошибка создания приложения: %v", err)
	}
	defer a.Close()

	if err := a.Dispatch(context.Background(), Command{Type: CommandDownload, TrackID: 4}); err != nil {
		t.Fatalf("Неожиданная ошибка: %v", err)
	}

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("Ошибка скачивания: %v", r.err)
		}
		if r.track.Filename != "out1.mp3" {
			t.Errorf("Неверный трек: %s", r.track.Filename)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Скачивание не завершилось")
	}

	track, _ := a.Catalog.TrackByID(4)
	if got := a.Catalog.Counters(track).Downloads; got != 1 {
		t.Errorf("Ожидалось 1 скачивание, получено %d", got)
	}
}

func TestVisible(t *testing.T) {
	a, _ := newTestApp(t, store.NewMemory(), Options{})

	if got := a.Visible(search.FilterRange, ""); len(got) != 1 || got[0].Filename != "11-33Re1.mp3" {
		t.Errorf("Ожидался один трек-диапазон, получено %v", got)
	}
	if got := a.Visible(search.FilterAll, "2"); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Ожидался трек 2, получено %v", got)
	}
}

func TestCommandTypeString(t *testing.T) {
	if CommandClearFavorites.String() != "clear-favorites" || CommandType(42).String() != "command(42)" {
		t.Error("Неожиданное строковое представление команды")
	}
}

func TestSourceSelection(t *testing.T) {
	tests := []struct {
		name   string
		source string
		check  func(feed.Source) bool
	}{
		{"builtin", config.SourceBuiltin, func(s feed.Source) bool { _, ok := s.(feed.Builtin); return ok }},
		{"file", config.SourceFile, func(s feed.Source) bool {
			f, ok := s.(feed.File)
			return ok && f.Path == "catalog.txt"
		}},
		{"s3", config.SourceS3, func(s feed.Source) bool {
			f, ok := s.(feed.S3)
			return ok && f.Prefix == "audio/"
		}},
		{"пусто", "", func(s feed.Source) bool { _, ok := s.(feed.Builtin); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Catalog.Source = tt.source
			cfg.Catalog.File = "catalog.txt"
			cfg.Catalog.Prefix = "audio/"

			a := &App{Config: cfg}
			if got := a.source(); !tt.check(got) {
				t.Errorf("Источник %q: неожиданный тип %T", tt.source, got)
			}
		})
	}
}
