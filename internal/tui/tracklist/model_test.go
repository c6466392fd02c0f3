package tracklist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/search"
)

func testRows() []Row {
	return []Row{
		{Track: catalog.Track{ID: 1, Filename: "1Re1.mp3", Title: "تفسير 1", DurationLabel: "46:30", Listens: 3}},
		{Track: catalog.Track{ID: 2, Filename: "11-33Re1.mp3", Title: "تفسير 11 إلى 33", DurationLabel: "45:00"}, Favorite: true},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// execute выполняет команду и возвращает сообщение
func execute(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("Ожидалась команда")
	}
	return cmd()
}

func TestNewModel(t *testing.T) {
	model := NewModel()
	model.SetRows(testRows())

	if len(model.list.Items()) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(model.list.Items()))
	}
	if model.Filter() != search.FilterAll || model.FavoritesView() || model.Capturing() {
		t.Error("Неожиданное начальное состояние")
	}
}

func TestActions(t *testing.T) {
	tests := []struct {
		key    tea.KeyMsg
		action Action
	}{
		{tea.KeyMsg{Type: tea.KeyEnter}, ActionPlay},
		{runes("h"), ActionFavorite},
		{runes("d"), ActionDownload},
	}

	for _, tt := range tests {
		model := NewModel()
		model.SetRows(testRows())

		_, cmd := model.Update(tt.key)
		msg, ok := execute(t, cmd).(ActionMsg)
		if !ok || msg.Action != tt.action || msg.TrackID != 1 {
			t.Errorf("%s: неожиданное сообщение %#v", tt.key, msg)
		}
	}
}

func TestActionOnEmptyList(t *testing.T) {
	model := NewModel()
	if _, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("Пустой список не должен порождать действие")
	}
	if !strings.Contains(model.View(), "Ничего не найдено") {
		t.Error("Пустой результат должен отображаться")
	}
}

func TestFilterCycleAndFavoritesView(t *testing.T) {
	model := NewModel()

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if _, ok := execute(t, cmd).(QueryChangedMsg); !ok {
		t.Error("Смена фильтра должна запрашивать обновление")
	}
	if model.Filter() != search.FilterSingle {
		t.Errorf("Ожидался фильтр single, получено %s", model.Filter())
	}

	model.Update(runes("f"))
	if !model.FavoritesView() || model.list.Title != "Избранное" {
		t.Error("Ожидался вид избранного")
	}
	if !strings.Contains(model.View(), "В избранном пока ничего нет") {
		t.Error("Пустое избранное должно отображаться")
	}
}

func TestSearchInput(t *testing.T) {
	model := NewModel()
	model.SetRows(testRows())

	model.Update(runes("/"))
	if !model.Capturing() {
		t.Fatal("После / модель должна принимать ввод")
	}

	_, cmd := model.Update(runes("1"))
	if cmd == nil {
		t.Fatal("Изменение запроса должно запрашивать обновление")
	}
	model.Update(runes("h"))
	if model.Query() != "1h" {
		t.Errorf("Во время ввода клавиши действий идут в запрос, получено %q", model.Query())
	}

	model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.Capturing() {
		t.Error("Esc должен завершать ввод")
	}
	if model.Query() != "1h" {
		t.Error("Запрос должен сохраняться после завершения ввода")
	}
}

func TestClearConfirmation(t *testing.T) {
	model := NewModel()
	model.SetRows(testRows())

	model.Update(runes("C"))
	if !model.Capturing() || !strings.Contains(model.View(), "(y/n)") {
		t.Fatal("Ожидался запрос подтверждения")
	}
	if _, cmd := model.Update(runes("n")); cmd != nil {
		t.Error("Отказ не должен очищать избранное")
	}

	model.Update(runes("C"))
	_, cmd := model.Update(runes("y"))
	msg, ok := execute(t, cmd).(ActionMsg)
	if !ok || msg.Action != ActionClearFavorites {
		t.Errorf("Ожидалась очистка избранного, получено %#v", msg)
	}
	if model.Capturing() {
		t.Error("После ответа подтверждение должно закрываться")
	}
}

func TestFormatRow(t *testing.T) {
	rows := testRows()

	plain := formatRow(trackItem{row: rows[0]})
	if !strings.Contains(plain, "46:30") || !strings.Contains(plain, "🎧 3") {
		t.Errorf("Неожиданная строка: %s", plain)
	}
	if strings.Contains(plain, "♥") || strings.Contains(plain, "♪") {
		t.Errorf("Лишние отметки: %s", plain)
	}

	marked := formatRow(trackItem{row: rows[1], current: true})
	if !strings.HasPrefix(marked, "♪ ") || !strings.Contains(marked, "♥") {
		t.Errorf("Ожидались отметки текущего и избранного: %s", marked)
	}
}
