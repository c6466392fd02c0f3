// Package store содержит постоянное key-value хранилище состояния приложения
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Ключи хранилища
const (
	KeyFavorites     = "favorites"
	KeyStats         = "stats"
	KeyLastVisitDate = "lastVisitDate"
	fileStatsPrefix  = "fileStats:"
)

var (
	// ErrNotFound возвращается, если ключ отсутствует
	ErrNotFound = errors.New("ключ не найден")
	// ErrCorrupt возвращается, если сохраненное значение невозможно разобрать
	ErrCorrupt = errors.New("повреждённые данные")
)

// Store - строковое key-value хранилище, значения которого содержат JSON.
// Ошибки чтения трактуются как отсутствие значения.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
	// Update атомарно выполняет read-modify-write над одним ключом
	Update(key string, fn func(old string, ok bool) (string, error)) error
}

// FileStatsKey возвращает ключ статистики конкретного файла
func FileStatsKey(filename string) string {
	return fileStatsPrefix + filename
}

// LoadJSON читает значение ключа и разбирает его в v
func LoadJSON(s Store, key string, v any) error {
	raw, ok := s.Get(key)
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%s: %w: %v", key, ErrCorrupt, err)
	}
	return nil
}

// SaveJSON сериализует v и записывает в ключ
func SaveJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ошибка сериализации %s: %w", key, err)
	}
	return s.Set(key, string(data))
}

// UpdateJSON атомарно читает значение ключа в T, применяет fn и записывает результат.
// Отсутствующее или повреждённое значение заменяется нулевым значением T.
func UpdateJSON[T any](s Store, key string, fn func(*T)) (T, error) {
	var result T
	err := s.Update(key, func(old string, ok bool) (string, error) {
		var value T
		if ok {
			if err := json.Unmarshal([]byte(old), &value); err != nil {
				var zero T
				value = zero
			}
		}
		fn(&value)
		data, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("ошибка сериализации %s: %w", key, err)
		}
		result = value
		return string(data), nil
	})
	return result, err
}

// Memory - хранилище в памяти, используется в тестах и как запасной вариант
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemory создает пустое хранилище в памяти
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get возвращает значение ключа
func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// Set записывает значение ключа
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Delete удаляет ключ
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Update выполняет read-modify-write под мьютексом
func (m *Memory) Update(key string, fn func(old string, ok bool) (string, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.data[key]
	value, err := fn(old, ok)
	if err != nil {
		return err
	}
	m.data[key] = value
	return nil
}
