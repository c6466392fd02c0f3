// Package favorites управляет избранными треками
package favorites

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/notify"
	"github.com/hazadus/tafsir/internal/store"
)

// Entry - ссылка на трек в избранном. Счетчики здесь не хранятся,
// при отображении запись разрешается через каталог.
type Entry struct {
	ID       int    `json:"id"`
	Filename string `json:"filename"`
}

// Manager хранит упорядоченный набор избранного без повторов ID
type Manager struct {
	mu      sync.Mutex
	entries []Entry

	store store.Store
	bus   *notify.Bus
	log   *zap.Logger
}

// New загружает избранное из хранилища; поврежденные данные дают пустой набор
func New(st store.Store, bus *notify.Bus, log *zap.Logger) *Manager {
	m := &Manager{store: st, bus: bus, log: log}

	var entries []Entry
	if err := store.LoadJSON(st, store.KeyFavorites, &entries); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Warn("избранное повреждено, используется пустой набор", zap.Error(err))
		}
		entries = nil
	}
	m.entries = dedupe(entries)
	return m
}

// Toggle добавляет трек в избранное или удаляет его; возвращает true, если трек добавлен
func (m *Manager) Toggle(track *catalog.Track) (bool, error) {
	m.mu.Lock()

	added := true
	for i, e := range m.entries {
		if e.ID == track.ID {
			m.entries = append(m.entries[:i:i], m.entries[i+1:]...)
			added = false
			break
		}
	}
	if added {
		m.entries = append(m.entries, Entry{ID: track.ID, Filename: track.Filename})
	}

	err := m.saveLocked()
	m.mu.Unlock()

	m.bus.Publish(notify.TopicFavorites, notify.TopicCatalog)
	if err != nil {
		return added, err
	}

	m.log.Debug("избранное изменено", zap.Int("id", track.ID), zap.Bool("added", added))
	return added, nil
}

// Contains проверяет наличие трека в избранном
func (m *Manager) Contains(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Entries возвращает копию набора в порядке добавления
func (m *Manager) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]Entry, len(m.entries))
	copy(result, m.entries)
	return result
}

// Len возвращает размер избранного
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Resolve сопоставляет записи с треками каталога: по ID, а если под этим ID
// теперь другой файл, то по имени файла. Записи без трека пропускаются.
func (m *Manager) Resolve(cat *catalog.Catalog) []*catalog.Track {
	entries := m.Entries()
	result := make([]*catalog.Track, 0, len(entries))
	for _, e := range entries {
		if t, err := cat.TrackByID(e.ID); err == nil && t.Filename == e.Filename {
			result = append(result, t)
			continue
		}
		if t, ok := cat.TrackByFilename(e.Filename); ok {
			result = append(result, t)
		}
	}
	return result
}

// Clear очищает избранное без подтверждения; подтверждение - забота вызывающего
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.entries = nil
	err := m.saveLocked()
	m.mu.Unlock()

	m.bus.Publish(notify.TopicFavorites, notify.TopicCatalog)
	return err
}

func (m *Manager) saveLocked() error {
	entries := m.entries
	if entries == nil {
		entries = []Entry{}
	}
	if err := store.SaveJSON(m.store, store.KeyFavorites, entries); err != nil {
		m.log.Warn("не удалось сохранить избранное", zap.Error(err))
		return fmt.Errorf("ошибка сохранения избранного: %w", err)
	}
	return nil
}

func dedupe(entries []Entry) []Entry {
	seen := make(map[int]struct{}, len(entries))
	result := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		result = append(result, e)
	}
	return result
}
