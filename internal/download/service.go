// Package download сохраняет записи каталога на локальный диск
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/s3"
	"github.com/hazadus/tafsir/internal/streaming"
)

// ErrDownloadFailed возвращается при любой неудаче скачивания
var ErrDownloadFailed = errors.New("не удалось скачать файл")

// DefaultRemoteBaseURL - адрес, с которого скачиваются записи по умолчанию
const DefaultRemoteBaseURL = "https://raw.githubusercontent.com/your-username/your-repo/main/audio"

// Counter учитывает успешные скачивания
type Counter interface {
	IncrementDownloads(filename string) error
}

// ObjectOpener открывает объект S3 для чтения
type ObjectOpener interface {
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error)
}

// Config содержит настройки скачивания
type Config struct {
	RemoteBaseURL string // HTTP(S) адрес или s3://bucket/prefix
	Dir           string
}

// Service скачивает записи и ведет счетчик скачиваний
type Service struct {
	config     Config
	counter    Counter
	objects    ObjectOpener
	log        *zap.Logger
	onProgress func(filename string, written, total int64)
}

// Option настраивает Service
type Option func(*Service)

// WithObjects подключает клиент S3 для адресов s3://
func WithObjects(objects ObjectOpener) Option {
	return func(s *Service) { s.objects = objects }
}

// WithProgress задает обработчик прогресса; total равен -1, если размер неизвестен
func WithProgress(fn func(filename string, written, total int64)) Option {
	return func(s *Service) { s.onProgress = fn }
}

// NewService создает сервис скачивания
func NewService(config Config, counter Counter, log *zap.Logger, opts ...Option) *Service {
	if config.RemoteBaseURL == "" {
		config.RemoteBaseURL = DefaultRemoteBaseURL
	}
	s := &Service{config: config, counter: counter, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL возвращает адрес скачивания файла
func (s *Service) URL(filename string) string {
	return strings.TrimRight(s.config.RemoteBaseURL, "/") + "/" + filename
}

// Download скачивает трек и возвращает путь к сохраненному файлу.
// Счетчик скачиваний увеличивается только после успешного сохранения.
func (s *Service) Download(ctx context.Context, track *catalog.Track) (string, error) {
	filename := filepath.Base(track.Filename)
	url := s.URL(track.Filename)

	path, err := s.fetch(ctx, url, filename)
	if err != nil {
		s.log.Warn("ошибка скачивания",
			zap.String("filename", track.Filename), zap.String("url", url), zap.Error(err))
		return "", fmt.Errorf("%w: %s: %v", ErrDownloadFailed, track.Filename, err)
	}

	if err := s.counter.IncrementDownloads(track.Filename); err != nil {
		s.log.Warn("не удалось учесть скачивание", zap.String("filename", track.Filename), zap.Error(err))
	}

	s.log.Info("файл скачан", zap.String("filename", track.Filename), zap.String("path", path))
	return path, nil
}

// Start скачивает трек в отдельной горутине и вызывает done по завершении
func (s *Service) Start(ctx context.Context, track *catalog.Track, done func(path string, err error)) {
	go func() {
		path, err := s.Download(ctx, track)
		if done != nil {
			done(path, err)
		}
	}()
}

func (s *Service) fetch(ctx context.Context, url, filename string) (string, error) {
	body, size, err := s.open(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	// Создаем директорию если она не существует
	if err := os.MkdirAll(s.config.Dir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории: %w", err)
	}

	tmpPath := filepath.Join(s.config.Dir, "."+uuid.NewString()+".part")
	file, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("ошибка создания файла: %w", err)
	}

	var reader io.Reader = body
	if s.onProgress != nil {
		reader = &streaming.ProgressReader{
			Reader: body,
			Size:   size,
			OnProgress: func(n int64) {
				s.onProgress(filename, n, size)
			},
		}
	}

	_, copyErr := io.Copy(file, reader)
	closeErr := file.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if copyErr != nil {
			return "", fmt.Errorf("ошибка записи: %w", copyErr)
		}
		return "", fmt.Errorf("ошибка закрытия файла: %w", closeErr)
	}

	path := filepath.Join(s.config.Dir, filename)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("ошибка сохранения файла: %w", err)
	}
	return path, nil
}

func (s *Service) open(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	if strings.HasPrefix(url, s3.Scheme) {
		if s.objects == nil {
			return nil, 0, errors.New("хранилище S3 не настроено")
		}
		bucket, key, err := s3.ParseURL(url)
		if err != nil {
			return nil, 0, err
		}
		return s.objects.Open(ctx, bucket, key)
	}

	if !streaming.IsRemote(url) {
		f, err := os.Open(url)
		if err != nil {
			return nil, 0, fmt.Errorf("ошибка открытия файла: %w", err)
		}
		size := int64(-1)
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
		return f, size, nil
	}

	reader, err := streaming.NewReader(ctx, url, streaming.DefaultBufferSize)
	if err != nil {
		return nil, 0, err
	}
	return reader, reader.Size(), nil
}
