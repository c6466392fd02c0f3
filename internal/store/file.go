package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// File хранит все ключи в одном YAML-документе и записывает его при каждом изменении
type File struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

// OpenFile открывает файловое хранилище. Отсутствующий файл означает пустое хранилище.
// Если файл повреждён, возвращается пустое рабочее хранилище вместе с ошибкой ErrCorrupt.
func OpenFile(filePath string) (*File, error) {
	path, err := expandHome(filePath)
	if err != nil {
		return nil, err
	}

	f := &File{path: path, data: make(map[string]string)}

	raw, err := os.ReadFile(path)
	if err != nil {
		// Если файл не найден, начинаем с пустых данных
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("ошибка чтения файла данных: %w", err)
	}
	if len(raw) == 0 {
		return f, nil
	}
	if err := yaml.Unmarshal(raw, &f.data); err != nil {
		f.data = make(map[string]string)
		return f, fmt.Errorf("ошибка разбора данных %s: %w: %v", path, ErrCorrupt, err)
	}
	if f.data == nil {
		f.data = make(map[string]string)
	}
	return f, nil
}

// Path возвращает путь к файлу данных
func (f *File) Path() string {
	return f.path
}

// Get возвращает значение ключа
func (f *File) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

// Set записывает значение ключа и сохраняет файл
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return f.saveLocked()
}

// Delete удаляет ключ и сохраняет файл
func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[key]; !ok {
		return nil
	}
	delete(f.data, key)
	return f.saveLocked()
}

// Update выполняет read-modify-write под мьютексом и сохраняет файл
func (f *File) Update(key string, fn func(old string, ok bool) (string, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.data[key]
	value, err := fn(old, ok)
	if err != nil {
		return err
	}
	f.data[key] = value
	return f.saveLocked()
}

// saveLocked записывает данные на диск (должен вызываться под мьютексом)
func (f *File) saveLocked() error {
	raw, err := yaml.Marshal(f.data)
	if err != nil {
		return fmt.Errorf("ошибка сериализации данных: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("ошибка создания директории данных: %w", err)
	}
	// Запись через временный файл и rename
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("ошибка записи файла данных: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("ошибка записи файла данных: %w", err)
	}
	return nil
}

// expandHome раскрывает тильду в начале пути
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return strings.Replace(path, "~", home, 1), nil
}
