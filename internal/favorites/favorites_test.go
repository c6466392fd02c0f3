package favorites

import (
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/notify"
	"github.com/hazadus/tafsir/internal/store"
)

func newTestManager(t *testing.T, st store.Store, filenames ...string) (*Manager, *catalog.Catalog) {
	t.Helper()
	cat := catalog.New(filenames, st, nil, nil, zap.NewNop(), catalog.Options{})
	return New(st, nil, zap.NewNop()), cat
}

func mustTrack(t *testing.T, cat *catalog.Catalog, id int) *catalog.Track {
	t.Helper()
	track, err := cat.TrackByID(id)
	if err != nil {
		t.Fatalf("Трек %d не найден: %v", id, err)
	}
	return track
}

func TestToggleTwiceRestoresSet(t *testing.T) {
	st := store.NewMemory()
	m, cat := newTestManager(t, st, "a.mp3", "b.mp3", "c.mp3")

	_, _ = m.Toggle(mustTrack(t, cat, 1))
	_, _ = m.Toggle(mustTrack(t, cat, 3))
	before := m.Entries()

	added, err := m.Toggle(mustTrack(t, cat, 2))
	if err != nil || !added {
		t.Fatalf("Ожидалось добавление, получено %v (%v)", added, err)
	}
	added, err = m.Toggle(mustTrack(t, cat, 2))
	if err != nil || added {
		t.Fatalf("Ожидалось удаление, получено %v (%v)", added, err)
	}

	if !reflect.DeepEqual(m.Entries(), before) {
		t.Errorf("Ожидалось %v, получено %v", before, m.Entries())
	}
}

func TestTogglePersistsInOrder(t *testing.T) {
	st := store.NewMemory()
	m, cat := newTestManager(t, st, "a.mp3", "b.mp3", "c.mp3")

	_, _ = m.Toggle(mustTrack(t, cat, 3))
	_, _ = m.Toggle(mustTrack(t, cat, 1))

	reloaded := New(st, nil, zap.NewNop())
	expected := []Entry{{ID: 3, Filename: "c.mp3"}, {ID: 1, Filename: "a.mp3"}}
	if !reflect.DeepEqual(reloaded.Entries(), expected) {
		t.Errorf("Ожидалось %v, получено %v", expected, reloaded.Entries())
	}
	if !reloaded.Contains(3) || reloaded.Contains(2) {
		t.Error("Неверный результат Contains")
	}
}

func TestToggleAndClearPublish(t *testing.T) {
	st := store.NewMemory()
	bus := notify.NewBus()
	var topics []notify.Topic
	bus.Subscribe(func(topic notify.Topic) { topics = append(topics, topic) })

	cat := catalog.New([]string{"a.mp3"}, st, nil, nil, zap.NewNop(), catalog.Options{})
	m := New(st, bus, zap.NewNop())

	_, _ = m.Toggle(mustTrack(t, cat, 1))
	_ = m.Clear()

	expected := []notify.Topic{
		notify.TopicFavorites, notify.TopicCatalog,
		notify.TopicFavorites, notify.TopicCatalog,
	}
	if !reflect.DeepEqual(topics, expected) {
		t.Errorf("Ожидались сигналы %v, получено %v", expected, topics)
	}
}

func TestClear(t *testing.T) {
	st := store.NewMemory()
	m, cat := newTestManager(t, st, "a.mp3", "b.mp3")

	_, _ = m.Toggle(mustTrack(t, cat, 1))
	_, _ = m.Toggle(mustTrack(t, cat, 2))
	_ = cat.IncrementListens("a.mp3")

	if err := m.Clear(); err != nil {
		t.Fatalf("Ошибка очистки: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Ожидался пустой набор, получено %v", m.Entries())
	}

	raw, _ := st.Get(store.KeyFavorites)
	if raw != "[]" {
		t.Errorf("В хранилище ожидался пустой массив, получено %s", raw)
	}
	if catalog.LoadFileStats(st, "a.mp3").Listens != 1 {
		t.Error("Очистка избранного не должна сбрасывать статистику")
	}
}

func TestResolveUsesLiveCounters(t *testing.T) {
	st := store.NewMemory()
	m, cat := newTestManager(t, st, "a.mp3", "b.mp3")

	_, _ = m.Toggle(mustTrack(t, cat, 2))
	_ = cat.IncrementDownloads("b.mp3")
	_ = cat.IncrementDownloads("b.mp3")

	resolved := m.Resolve(cat)
	if len(resolved) != 1 || cat.Counters(resolved[0]).Downloads != 2 {
		t.Errorf("Ожидались актуальные счетчики каталога, получено %+v", resolved)
	}
}

func TestResolveFallsBackToFilename(t *testing.T) {
	st := store.NewMemory()
	m, cat := newTestManager(t, st, "a.mp3", "b.mp3", "c.mp3")
	_, _ = m.Toggle(mustTrack(t, cat, 2))
	_, _ = m.Toggle(mustTrack(t, cat, 3))

	// Каталог изменился: b.mp3 получил другой ID, c.mp3 исчез
	changed := catalog.New([]string{"b.mp3", "a.mp3"}, st, nil, nil, zap.NewNop(), catalog.Options{})

	resolved := m.Resolve(changed)
	if len(resolved) != 1 || resolved[0].Filename != "b.mp3" || resolved[0].ID != 1 {
		t.Errorf("Ожидался b.mp3 с ID 1, получено %+v", resolved)
	}
}

func TestCorruptFavorites(t *testing.T) {
	st := store.NewMemory()
	_ = st.Set(store.KeyFavorites, "{broken")

	m := New(st, nil, zap.NewNop())
	if m.Len() != 0 {
		t.Errorf("Повреждённое избранное должно давать пустой набор, получено %v", m.Entries())
	}
}

func TestDuplicateEntriesOnLoad(t *testing.T) {
	st := store.NewMemory()
	_ = store.SaveJSON(st, store.KeyFavorites, []Entry{{1, "a.mp3"}, {1, "a.mp3"}, {2, "b.mp3"}})

	m := New(st, nil, zap.NewNop())
	if m.Len() != 2 {
		t.Errorf("Повторы ID должны отбрасываться, получено %v", m.Entries())
	}
}
