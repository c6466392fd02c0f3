// Package feed содержит источники списка файлов каталога
package feed

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path"
	"strings"
)

// Source поставляет упорядоченный список имен файлов
type Source interface {
	Filenames(ctx context.Context) ([]string, error)
}

// File читает имена файлов из текстового файла: одно имя на строку,
// пустые строки и строки с # пропускаются
type File struct {
	Path string
}

// Filenames читает список из файла
func (f File) Filenames(ctx context.Context) ([]string, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия списка файлов: %w", err)
	}
	defer file.Close()

	var names []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения списка файлов: %w", err)
	}
	return names, nil
}

// Lister перечисляет ключи объектного хранилища
type Lister interface {
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// S3 берет имена из ключей бакета с расширением .mp3
type S3 struct {
	Lister Lister
	Prefix string
}

// Filenames возвращает базовые имена ключей .mp3 под префиксом
func (s S3) Filenames(ctx context.Context) ([]string, error) {
	keys, err := s.Lister.ListKeys(ctx, s.Prefix)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, key := range keys {
		if !strings.HasSuffix(strings.ToLower(key), ".mp3") {
			continue
		}
		names = append(names, path.Base(key))
	}
	return names, nil
}
