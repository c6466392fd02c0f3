// Package notify содержит шину сигналов инвалидации представлений
package notify

import "sync"

// Topic определяет, какое представление нужно перерисовать
type Topic int

const (
	// TopicCatalog - основной список треков (бейджи, подсветка текущего трека)
	TopicCatalog Topic = iota
	// TopicFavorites - список избранного
	TopicFavorites
	// TopicStats - общая статистика
	TopicStats
)

// String возвращает имя топика
func (t Topic) String() string {
	switch t {
	case TopicCatalog:
		return "catalog"
	case TopicFavorites:
		return "favorites"
	case TopicStats:
		return "stats"
	default:
		return "unknown"
	}
}

type subscriber struct {
	id uint64
	fn func(Topic)
}

// Bus доставляет сигналы подписчикам синхронно, в порядке подписки
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscriber
}

// NewBus создает новую шину
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe регистрирует обработчик и возвращает функцию отписки
func (b *Bus) Subscribe(fn func(Topic)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish рассылает топики всем подписчикам. Nil-шина допустима и ничего не делает
func (b *Bus) Publish(topics ...Topic) {
	if b == nil {
		return
	}

	b.mu.RLock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, topic := range topics {
		for _, s := range subs {
			s.fn(topic)
		}
	}
}
