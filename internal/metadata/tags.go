// Package metadata читает теги ID3 аудиофайлов для команды info
package metadata

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/hazadus/tafsir/internal/streaming"
)

// headerLimit - сколько байт источника читается для поиска тегов
const headerLimit = 512 * 1024

// Tags хранит теги записи
type Tags struct {
	Artist  string
	Title   string
	Album   string
	Genre   string
	Year    int
	Format  string
	HasTags bool // false, если теги не найдены и значения выведены из имени
}

// Extractor извлекает теги из аудио файлов
type Extractor struct {
	limit int64
}

// NewExtractor создает новый экстрактор тегов
func NewExtractor() *Extractor {
	return &Extractor{limit: headerLimit}
}

// ExtractFromReader извлекает теги из io.ReadSeeker
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker, source string) Tags {
	// Сбрасываем reader в начало
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return defaultTags(source)
	}

	m, err := tag.ReadFrom(reader)
	if err != nil {
		return defaultTags(source)
	}

	tags := Tags{
		Artist:  m.Artist(),
		Title:   m.Title(),
		Album:   m.Album(),
		Genre:   m.Genre(),
		Year:    m.Year(),
		Format:  string(m.Format()),
		HasTags: true,
	}
	if tags.Title == "" {
		tags.Title = defaultTags(source).Title
	}
	return tags
}

// Extract читает начало источника (локальный путь или HTTP-адрес) и извлекает теги
func (e *Extractor) Extract(ctx context.Context, location string) (Tags, error) {
	rc, err := streaming.Open(ctx, location)
	if err != nil {
		return Tags{}, fmt.Errorf("ошибка открытия %s: %w", location, err)
	}
	defer rc.Close()

	header, err := io.ReadAll(io.LimitReader(rc, e.limit))
	if err != nil {
		return Tags{}, fmt.Errorf("ошибка чтения %s: %w", location, err)
	}
	return e.ExtractFromReader(bytes.NewReader(header), location), nil
}

// defaultTags возвращает название на основе имени файла
func defaultTags(source string) Tags {
	fileName := filepath.Base(source)
	return Tags{Title: strings.TrimSuffix(fileName, filepath.Ext(fileName))}
}
