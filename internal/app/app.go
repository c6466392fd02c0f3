// Package app собирает компоненты приложения из конфигурации
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/config"
	"github.com/hazadus/tafsir/internal/download"
	"github.com/hazadus/tafsir/internal/favorites"
	"github.com/hazadus/tafsir/internal/feed"
	"github.com/hazadus/tafsir/internal/media"
	"github.com/hazadus/tafsir/internal/notify"
	"github.com/hazadus/tafsir/internal/playback"
	"github.com/hazadus/tafsir/internal/s3"
	"github.com/hazadus/tafsir/internal/search"
	"github.com/hazadus/tafsir/internal/stats"
	"github.com/hazadus/tafsir/internal/store"
)

// ErrNoObjectStorage возвращается, если операция требует S3, а бакет не настроен
var ErrNoObjectStorage = errors.New("хранилище S3 не настроено")

// Options позволяет подменить части приложения (в тестах и в TUI)
type Options struct {
	Logger *zap.Logger
	Store  store.Store
	Source feed.Source
	Media  playback.MediaElement
	Clock  func() time.Time

	// DownloadDone вызывается по завершении фонового скачивания
	DownloadDone func(track *catalog.Track, path string, err error)
	// DownloadProgress получает прогресс скачивания
	DownloadProgress func(filename string, written, total int64)
}

// App содержит все компоненты одной сессии
type App struct {
	Config    *config.Config
	Log       *zap.Logger
	Store     store.Store
	Bus       *notify.Bus
	Stats     *stats.Tracker
	Catalog   *catalog.Catalog
	Favorites *favorites.Manager
	Player    *playback.Controller
	Downloads *download.Service
	Objects   *s3.Client // nil, если бакет не настроен

	mu           sync.Mutex
	downloadDone func(track *catalog.Track, path string, err error)
	closers      []io.Closer
}

// New создает приложение и засчитывает визит
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		Config:       cfg,
		Log:          log,
		Bus:          notify.NewBus(),
		downloadDone: opts.DownloadDone,
	}

	st := opts.Store
	if st == nil {
		var err error
		if st, err = openStore(cfg, log); err != nil {
			return nil, err
		}
	}
	a.Store = st
	if closer, ok := st.(io.Closer); ok {
		a.closers = append(a.closers, closer)
	}

	if cfg.AwsBucketName != "" {
		objects, err := s3.NewClient(&s3.Config{
			Region:     cfg.AwsRegion,
			AccessKey:  cfg.AwsAccessKey,
			SecretKey:  cfg.AwsSecretKey,
			Endpoint:   cfg.AwsEndpoint,
			BucketName: cfg.AwsBucketName,
		})
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Objects = objects
	}

	source := opts.Source
	if source == nil {
		source = a.source()
	}
	filenames, err := source.Filenames(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("ошибка загрузки списка файлов: %w", err)
	}

	var statsOpts []stats.Option
	if opts.Clock != nil {
		statsOpts = append(statsOpts, stats.WithClock(opts.Clock))
	}
	a.Stats = stats.NewTracker(st, a.Bus, log, statsOpts...)

	a.Catalog = catalog.New(filenames, st, a.Stats, a.Bus, log, catalog.Options{
		BaseURL:   cfg.AudioBaseURL,
		Subtitle:  cfg.Subtitle,
		Durations: cfg.Durations,
	})
	a.Favorites = favorites.New(st, a.Bus, log)

	element := opts.Media
	var speakerElement *media.Element
	if element == nil {
		speakerElement = media.New(log)
		element = speakerElement
		a.closers = append(a.closers, speakerElement)
	}
	a.Player = playback.New(a.Catalog, element, log)
	if speakerElement != nil {
		speakerElement.SetListener(a.Player)
	}

	downloadOpts := []download.Option{}
	if a.Objects != nil {
		downloadOpts = append(downloadOpts, download.WithObjects(a.Objects))
	}
	if opts.DownloadProgress != nil {
		downloadOpts = append(downloadOpts, download.WithProgress(opts.DownloadProgress))
	}
	a.Downloads = download.NewService(download.Config{
		RemoteBaseURL: cfg.RemoteBaseURL,
		Dir:           cfg.DownloadDir,
	}, a.Catalog, log, downloadOpts...)

	if a.Stats.TrackVisitor() {
		log.Debug("новый визит засчитан")
	}

	log.Info("приложение запущено",
		zap.Int("tracks", a.Catalog.Len()),
		zap.String("store", cfg.Store.Backend),
		zap.String("source", cfg.Catalog.Source))
	return a, nil
}

// Visible возвращает видимую часть каталога для фильтра и запроса
func (a *App) Visible(filter search.Filter, query string) []*catalog.Track {
	return search.Search(a.Catalog.Tracks(), filter, query)
}

// FavoriteTracks возвращает избранное, разрешенное через каталог
func (a *App) FavoriteTracks() []*catalog.Track {
	return a.Favorites.Resolve(a.Catalog)
}

// SetDownloadDone заменяет обработчик завершения фоновых скачиваний
func (a *App) SetDownloadDone(fn func(track *catalog.Track, path string, err error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.downloadDone = fn
}

func (a *App) notifyDownload(track *catalog.Track, path string, err error) {
	a.mu.Lock()
	fn := a.downloadDone
	a.mu.Unlock()
	if fn != nil {
		fn(track, path, err)
	}
}

// Close освобождает ресурсы в обратном порядке
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	_ = a.Log.Sync()
	return errors.Join(errs...)
}

func (a *App) source() feed.Source {
	switch a.Config.Catalog.Source {
	case config.SourceFile:
		return feed.File{Path: a.Config.Catalog.File}
	case config.SourceS3:
		return feed.S3{Lister: a.Objects, Prefix: a.Config.Catalog.Prefix}
	default:
		return feed.Builtin{}
	}
}

func openStore(cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		return store.NewMemory(), nil
	case config.StoreRedis:
		return store.NewRedis(store.RedisConfig{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
			Prefix:   cfg.Store.RedisPrefix,
		})
	default:
		st, err := store.OpenFile(cfg.Store.Path)
		if errors.Is(err, store.ErrCorrupt) {
			// Повреждённые данные заменяются значениями по умолчанию
			log.Warn("файл состояния повреждён, начинаем с пустого состояния", zap.Error(err))
			return st, nil
		}
		return st, err
	}
}
