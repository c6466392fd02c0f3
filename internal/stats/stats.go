// Package stats ведет общую статистику: посетители, прослушивания, загрузки
package stats

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/notify"
	"github.com/hazadus/tafsir/internal/store"
)

// visitDateLayout повторяет формат Date.toDateString()
const visitDateLayout = "Mon Jan 02 2006"

// Aggregate - общие счетчики процесса
type Aggregate struct {
	Visitors  int `json:"visitors"`
	Listens   int `json:"listens"`
	Downloads int `json:"downloads"`
}

// Tracker обновляет агрегат в хранилище
type Tracker struct {
	mu    sync.Mutex
	store store.Store
	bus   *notify.Bus
	log   *zap.Logger
	now   func() time.Time
}

// Option настраивает Tracker
type Option func(*Tracker)

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker создает трекер статистики
func NewTracker(st store.Store, bus *notify.Bus, log *zap.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store: st,
		bus:   bus,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Aggregate возвращает текущие значения; повреждённые данные дают нулевой агрегат
func (t *Tracker) Aggregate() Aggregate {
	var agg Aggregate
	if err := store.LoadJSON(t.store, store.KeyStats, &agg); err != nil {
		return Aggregate{}
	}
	return agg
}

// TrackVisitor засчитывает посетителя не чаще одного раза за календарный день
func (t *Tracker) TrackVisitor() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.now().Format(visitDateLayout)
	var last string
	_ = store.LoadJSON(t.store, store.KeyLastVisitDate, &last)
	if last == today {
		return false
	}

	t.update(func(a *Aggregate) { a.Visitors++ })
	if err := store.SaveJSON(t.store, store.KeyLastVisitDate, today); err != nil {
		t.log.Warn("не удалось сохранить дату визита", zap.Error(err))
	}
	return true
}

// TrackListen увеличивает общий счетчик прослушиваний
func (t *Tracker) TrackListen() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.update(func(a *Aggregate) { a.Listens++ })
}

// TrackDownload увеличивает общий счетчик загрузок
func (t *Tracker) TrackDownload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.update(func(a *Aggregate) { a.Downloads++ })
}

// Reset обнуляет агрегат и дату последнего визита
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := store.SaveJSON(t.store, store.KeyStats, Aggregate{}); err != nil {
		return err
	}
	if err := t.store.Delete(store.KeyLastVisitDate); err != nil {
		return err
	}
	t.bus.Publish(notify.TopicStats)
	return nil
}

// update применяет изменение к агрегату (должен вызываться под мьютексом)
func (t *Tracker) update(fn func(*Aggregate)) {
	if _, err := store.UpdateJSON(t.store, store.KeyStats, fn); err != nil {
		t.log.Warn("не удалось сохранить статистику", zap.Error(err))
		return
	}
	t.bus.Publish(notify.TopicStats)
}
