// Package catalog содержит каталог записей и их счетчики
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/notify"
	"github.com/hazadus/tafsir/internal/stats"
	"github.com/hazadus/tafsir/internal/store"
)

// TrackType - тип записи
type TrackType string

const (
	// TypeSingle - запись одной суры
	TypeSingle TrackType = "single"
	// TypeRange - запись диапазона
	TypeRange TrackType = "range"
)

const (
	// DefaultDurationLabel используется, если файла нет в таблице длительностей
	DefaultDurationLabel = "45:00"
	// DefaultSubtitle - строка с именем чтеца
	DefaultSubtitle = "القارئ: الشيخ صديق احمد حمدون"
	// DefaultBaseURL - путь к аудиофайлам по умолчанию
	DefaultBaseURL = "audio"

	titlePrefix = "تفسير"
	titleTo     = " إلى "
	titleToEnd  = " إلى النهاية"
)

// ErrTrackNotFound возвращается, если трек отсутствует в каталоге
var ErrTrackNotFound = errors.New("трек не найден")

var titlePattern = regexp.MustCompile(`(\d+(?:-\d+)?(?:-end)?)Re1\.mp3`)

// durationTable - известные длительности записей
var durationTable = map[string]string{
	"025Re1.mp3": "45:22",
	"026Re1.mp3": "67:08",
	"027Re1.mp3": "47:07",
	"028Re1.mp3": "42:58",
	"19Re1.mp3":  "156:45",
	"21Re1.mp3":  "147:18",
	"1Re1.mp3":   "67:50",
	"2Re1.mp3":   "56:55",
	"out1.mp3":   "512:35",
	"out2.mp3":   "245:12",
}

// Track описывает одну запись каталога
type Track struct {
	ID            int
	Filename      string
	Title         string
	Subtitle      string
	Type          TrackType
	DurationLabel string
	Listens       int
	Downloads     int
	URL           string
}

// FileStats - счетчики файла в хранилище
type FileStats struct {
	Listens   int `json:"listens"`
	Downloads int `json:"downloads"`
}

// Options настраивает построение каталога
type Options struct {
	BaseURL   string
	Subtitle  string
	Durations map[string]string // Переопределения таблицы длительностей
}

// Build строит список треков из имен файлов и текущего содержимого хранилища
func Build(filenames []string, st store.Store, opts Options) []*Track {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	subtitle := opts.Subtitle
	if subtitle == "" {
		subtitle = DefaultSubtitle
	}

	seen := make(map[string]struct{}, len(filenames))
	tracks := make([]*Track, 0, len(filenames))
	for _, filename := range filenames {
		if _, ok := seen[filename]; ok {
			continue
		}
		seen[filename] = struct{}{}

		fileStats := LoadFileStats(st, filename)
		tracks = append(tracks, &Track{
			ID:            len(tracks) + 1,
			Filename:      filename,
			Title:         Title(filename),
			Subtitle:      subtitle,
			Type:          TypeOf(filename),
			DurationLabel: DurationLabel(filename, opts.Durations),
			Listens:       fileStats.Listens,
			Downloads:     fileStats.Downloads,
			URL:           baseURL + "/" + filename,
		})
	}
	return tracks
}

// Title выводит отображаемое название из имени файла
func Title(filename string) string {
	match := titlePattern.FindStringSubmatch(filename)
	if match == nil {
		return titlePrefix + " - " + filename
	}

	span := match[1]
	switch {
	case strings.Contains(span, "-end"):
		return titlePrefix + " " + strings.Replace(span, "-end", titleToEnd, 1)
	case strings.Contains(span, "-"):
		return titlePrefix + " " + strings.Replace(span, "-", titleTo, 1)
	default:
		return titlePrefix + " " + span
	}
}

// TypeOf определяет тип записи по имени файла
func TypeOf(filename string) TrackType {
	if strings.Contains(filename, "-") {
		return TypeRange
	}
	return TypeSingle
}

// DurationLabel возвращает длительность из таблицы, учитывая переопределения
func DurationLabel(filename string, overrides map[string]string) string {
	if label, ok := overrides[filename]; ok {
		return label
	}
	if label, ok := durationTable[filename]; ok {
		return label
	}
	return DefaultDurationLabel
}

// LoadFileStats читает счетчики файла; отсутствие или повреждение дают нули
func LoadFileStats(st store.Store, filename string) FileStats {
	var fs FileStats
	if err := store.LoadJSON(st, store.FileStatsKey(filename), &fs); err != nil {
		return FileStats{}
	}
	return fs
}

// Catalog хранит неизменяемый набор треков с изменяемыми счетчиками
type Catalog struct {
	mu     sync.RWMutex
	tracks []*Track
	byID   map[int]*Track
	byName map[string]*Track

	store store.Store
	stats *stats.Tracker
	bus   *notify.Bus
	log   *zap.Logger
}

// New строит каталог и связывает его с хранилищем и статистикой
func New(filenames []string, st store.Store, tracker *stats.Tracker, bus *notify.Bus, log *zap.Logger, opts Options) *Catalog {
	tracks := Build(filenames, st, opts)
	c := &Catalog{
		tracks: tracks,
		byID:   make(map[int]*Track, len(tracks)),
		byName: make(map[string]*Track, len(tracks)),
		store:  st,
		stats:  tracker,
		bus:    bus,
		log:    log,
	}
	for _, t := range tracks {
		c.byID[t.ID] = t
		c.byName[t.Filename] = t
	}
	return c
}

// Len возвращает количество треков
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// Tracks возвращает треки в порядке каталога
func (c *Catalog) Tracks() []*Track {
	result := make([]*Track, len(c.tracks))
	copy(result, c.tracks)
	return result
}

// At возвращает трек по индексу или nil
func (c *Catalog) At(index int) *Track {
	if index < 0 || index >= len(c.tracks) {
		return nil
	}
	return c.tracks[index]
}

// IndexOf возвращает позицию трека с данным ID или -1
func (c *Catalog) IndexOf(id int) int {
	for i, t := range c.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// TrackByID возвращает трек по ID
func (c *Catalog) TrackByID(id int) (*Track, error) {
	if t, ok := c.byID[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("трека с ID %d не найдено: %w", id, ErrTrackNotFound)
}

// TrackByFilename возвращает трек по имени файла
func (c *Catalog) TrackByFilename(filename string) (*Track, bool) {
	t, ok := c.byName[filename]
	return t, ok
}

// Snapshot возвращает копию трека с актуальными счетчиками
func (c *Catalog) Snapshot(t *Track) Track {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return *t
}

// Counters возвращает актуальные счетчики трека
func (c *Catalog) Counters(t *Track) FileStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FileStats{Listens: t.Listens, Downloads: t.Downloads}
}

// IncrementListens засчитывает прослушивание файла и общий счетчик
func (c *Catalog) IncrementListens(filename string) error {
	if err := c.increment(filename, func(fs *FileStats) { fs.Listens++ }); err != nil {
		return err
	}
	if c.stats != nil {
		c.stats.TrackListen()
	}
	return nil
}

// IncrementDownloads засчитывает загрузку файла и общий счетчик
func (c *Catalog) IncrementDownloads(filename string) error {
	if err := c.increment(filename, func(fs *FileStats) { fs.Downloads++ }); err != nil {
		return err
	}
	if c.stats != nil {
		c.stats.TrackDownload()
	}
	return nil
}

// increment обновляет счетчики в хранилище и патчит трек в памяти
func (c *Catalog) increment(filename string, fn func(*FileStats)) error {
	updated, err := store.UpdateJSON(c.store, store.FileStatsKey(filename), fn)
	if err != nil {
		c.log.Warn("не удалось сохранить статистику файла",
			zap.String("filename", filename), zap.Error(err))
		return fmt.Errorf("ошибка сохранения статистики %s: %w", filename, err)
	}

	if t, ok := c.byName[filename]; ok {
		c.mu.Lock()
		t.Listens = updated.Listens
		t.Downloads = updated.Downloads
		c.mu.Unlock()
	}

	c.bus.Publish(notify.TopicCatalog, notify.TopicFavorites)
	return nil
}
