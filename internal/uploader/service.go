// Package uploader загружает локальные записи в бакет каталога
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/metadata"
	"github.com/hazadus/tafsir/internal/streaming"
)

// ErrNotMP3 возвращается для файлов с другим расширением: источник s3 видит только .mp3
var ErrNotMP3 = errors.New("поддерживаются только файлы .mp3")

// ObjectUploader загружает данные под указанным ключом и возвращает адрес объекта
type ObjectUploader interface {
	Upload(ctx context.Context, reader io.Reader, key string) (string, error)
}

// Service управляет процессом загрузки файлов
type Service struct {
	objects   ObjectUploader
	extractor *metadata.Extractor
	prefix    string
	log       *zap.Logger
}

// NewService создает новый сервис загрузки; prefix - префикс ключей каталога в бакете
func NewService(objects ObjectUploader, prefix string, log *zap.Logger) *Service {
	return &Service{
		objects:   objects,
		extractor: metadata.NewExtractor(),
		prefix:    prefix,
		log:       log,
	}
}

// UploadResult содержит результат загрузки
type UploadResult struct {
	URL      string
	Key      string
	Filename string
	Size     int64
	Tags     metadata.Tags
}

// Key возвращает ключ объекта для файла: имя файла сохраняется, чтобы каталог вывел из него название
func (s *Service) Key(filePath string) string {
	return path.Join(s.prefix, filepath.Base(filePath))
}

// UploadFile загружает файл в бакет; progressCallback получает число прочитанных байт
func (s *Service) UploadFile(ctx context.Context, filePath string, progressCallback func(int64)) (*UploadResult, error) {
	if !strings.EqualFold(filepath.Ext(filePath), ".mp3") {
		return nil, fmt.Errorf("%w: %s", ErrNotMP3, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	// Теги читаются до загрузки, затем файл перематывается в начало
	tags := s.extractor.ExtractFromReader(file, filePath)
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("ошибка чтения файла: %w", err)
	}

	var reader io.Reader = file
	if progressCallback != nil {
		reader = &streaming.ProgressReader{
			Reader:     file,
			Size:       info.Size(),
			OnProgress: progressCallback,
		}
	}

	key := s.Key(filePath)
	url, err := s.objects.Upload(ctx, reader, key)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки в S3: %w", err)
	}

	s.log.Info("файл загружен", zap.String("key", key), zap.Int64("size", info.Size()))

	return &UploadResult{
		URL:      url,
		Key:      key,
		Filename: filepath.Base(filePath),
		Size:     info.Size(),
		Tags:     tags,
	}, nil
}
