// Package search содержит фильтрацию и поиск по каталогу
package search

import (
	"fmt"
	"strings"

	"github.com/hazadus/tafsir/internal/catalog"
)

// Filter - фильтр по типу записи
type Filter string

const (
	// FilterAll - без фильтрации
	FilterAll Filter = "all"
	// FilterSingle - только записи одной суры
	FilterSingle Filter = Filter(catalog.TypeSingle)
	// FilterRange - только диапазоны
	FilterRange Filter = Filter(catalog.TypeRange)
)

// rangeSuffix - маркер, которым оканчиваются номера в именах файлов
const rangeSuffix = "Re1"

// ParseFilter разбирает название фильтра
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FilterAll:
		return FilterAll, nil
	case FilterSingle, FilterRange:
		return f, nil
	default:
		return FilterAll, fmt.Errorf("неизвестный фильтр: %q (допустимо: all, single, range)", s)
	}
}

// Next возвращает следующий фильтр по кругу
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterSingle
	case FilterSingle:
		return FilterRange
	default:
		return FilterAll
	}
}

// Search возвращает подпоследовательность каталога, подходящую под фильтр и запрос.
// Порядок каталога сохраняется; пустой результат - нормальное состояние.
func Search(tracks []*catalog.Track, filter Filter, query string) []*catalog.Track {
	filtered := tracks
	if filter != FilterAll && filter != "" {
		filtered = make([]*catalog.Track, 0, len(tracks))
		for _, t := range tracks {
			if Filter(t.Type) == filter {
				filtered = append(filtered, t)
			}
		}
	}

	if query == "" {
		return filtered
	}

	m := newMatcher(query)
	result := make([]*catalog.Track, 0, len(filtered))
	for _, t := range filtered {
		if m.match(t) {
			result = append(result, t)
		}
	}
	return result
}

// matcher хранит предвычисленные части запроса
type matcher struct {
	lowerQuery string
	clean      string
	isRange    bool
	start, end string
	patterns   []string
}

func newMatcher(query string) *matcher {
	m := &matcher{
		lowerQuery: strings.ToLower(query),
		clean:      cleanQuery(query),
	}

	if strings.Contains(m.clean, "-") {
		m.isRange = true
		var parts []string
		for _, p := range strings.Split(m.clean, "-") {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			m.start = parts[0]
		}
		if len(parts) > 1 {
			m.end = parts[1]
		}
		m.patterns = rangePatterns(m.start, m.end)
	}
	return m
}

// rangePatterns строит комбинации только из непустых частей диапазона
func rangePatterns(start, end string) []string {
	var patterns []string
	if start != "" && end != "" {
		patterns = append(patterns, start+"-"+end)
	}
	if start != "" {
		patterns = append(patterns, start+rangeSuffix)
	}
	if end != "" {
		patterns = append(patterns, end+rangeSuffix)
	}
	if start != "" && end != "" {
		patterns = append(patterns, start+"-"+end+rangeSuffix)
	}
	return patterns
}

func (m *matcher) match(t *catalog.Track) bool {
	filename := t.Filename

	// Прямое совпадение с именем файла
	if m.clean != "" && strings.Contains(filename, m.clean) {
		return true
	}

	// Поиск диапазона: 11-33 совпадает с файлами, содержащими 11, 33 и их комбинации
	if m.isRange {
		if m.start != "" && strings.Contains(filename, m.start) {
			return true
		}
		if m.end != "" && strings.Contains(filename, m.end) {
			return true
		}
		for _, p := range m.patterns {
			if strings.Contains(filename, p) {
				return true
			}
		}
	}

	// Поиск по названию
	if strings.Contains(strings.ToLower(t.Title), m.lowerQuery) {
		return true
	}

	// Частичное совпадение номера; дублирует первое правило и оставлено намеренно
	if len(m.clean) >= 2 && strings.Contains(filename, m.clean) {
		return true
	}

	return false
}

// cleanQuery оставляет в запросе только цифры и дефисы
func cleanQuery(query string) string {
	var b strings.Builder
	for _, r := range query {
		if (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
