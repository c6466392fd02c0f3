package player

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/playback"
)

// recordingSender запоминает отправленные сообщения
type recordingSender struct {
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) {
	r.msgs = append(r.msgs, msg)
}

func testTrack() catalog.Track {
	return catalog.Track{ID: 7, Filename: "7Re1.mp3", Title: "تفسير 7", Subtitle: "reader"}
}

func TestSurfaceSendsTaggedMessages(t *testing.T) {
	sender := &recordingSender{}
	surface := NewSurface(FloatingBar, sender)

	surface.ShowTrack(testTrack())
	surface.ShowPlaying(true)
	surface.ShowProgress(playback.Progress{Percent: 50})
	surface.ShowError(errors.New("boom"))

	if len(sender.msgs) != 4 {
		t.Fatalf("Ожидалось 4 сообщения, получено %d", len(sender.msgs))
	}
	if msg, ok := sender.msgs[0].(TrackMsg); !ok || msg.Surface != FloatingBar || msg.Track.ID != 7 {
		t.Errorf("Неожиданное первое сообщение: %#v", sender.msgs[0])
	}
	if msg, ok := sender.msgs[1].(PlayingMsg); !ok || !msg.Playing {
		t.Errorf("Неожиданное второе сообщение: %#v", sender.msgs[1])
	}
	if _, ok := sender.msgs[3].(ErrorMsg); !ok {
		t.Errorf("Ожидалось ErrorMsg, получено %#v", sender.msgs[3])
	}
}

func TestModelIgnoresOtherSurface(t *testing.T) {
	model := NewModel(MainPanel)

	model, _ = model.Update(TrackMsg{Surface: FloatingBar, Track: testTrack()})
	if model.Track() != nil {
		t.Error("Сообщение другой поверхности должно игнорироваться")
	}

	model, _ = model.Update(TrackMsg{Surface: MainPanel, Track: testTrack()})
	if model.Track() == nil || model.Track().ID != 7 {
		t.Error("Трек должен быть показан")
	}
}

func TestModelProgressAndPlaying(t *testing.T) {
	model := NewModel(MainPanel)
	model, _ = model.Update(TrackMsg{Surface: MainPanel, Track: testTrack()})

	p := playback.Progress{Percent: 25, Elapsed: "1:15", Total: "5:00"}
	model, cmd := model.Update(ProgressMsg{Surface: MainPanel, Progress: p})
	if cmd == nil {
		t.Error("Основная панель должна анимировать прогресс-бар")
	}
	if model.Progress() != p {
		t.Errorf("Ожидался прогресс %+v, получено %+v", p, model.Progress())
	}

	model, _ = model.Update(PlayingMsg{Surface: MainPanel, Playing: true})
	if !model.Playing() {
		t.Error("Ожидалось воспроизведение")
	}

	view := model.View()
	for _, part := range []string{"تفسير 7", "1:15 / 5:00", "Воспроизведение"} {
		if !strings.Contains(view, part) {
			t.Errorf("Представление должно содержать %q:\n%s", part, view)
		}
	}
}

func TestModelError(t *testing.T) {
	model := NewModel(MainPanel)
	model, _ = model.Update(TrackMsg{Surface: MainPanel, Track: testTrack()})
	model, _ = model.Update(PlayingMsg{Surface: MainPanel, Playing: true})
	model, _ = model.Update(ErrorMsg{Surface: MainPanel, Err: errors.New("нет файла")})

	if model.Playing() {
		t.Error("Ошибка должна снимать признак воспроизведения")
	}
	if !strings.Contains(model.View(), "нет файла") {
		t.Error("Ошибка должна отображаться")
	}

	model, _ = model.Update(TrackMsg{Surface: MainPanel, Track: testTrack()})
	if strings.Contains(model.View(), "нет файла") {
		t.Error("Новый трек должен сбрасывать ошибку")
	}
}

func TestFloatingBarView(t *testing.T) {
	bar := NewModel(FloatingBar)
	if bar.View() != "" {
		t.Error("Без трека плавающая панель пуста")
	}

	bar, _ = bar.Update(TrackMsg{Surface: FloatingBar, Track: testTrack()})
	bar, cmd := bar.Update(ProgressMsg{Surface: FloatingBar, Progress: playback.Progress{Elapsed: "0:10", Total: "45:00"}})
	if cmd != nil {
		t.Error("Плавающая панель не анимирует прогресс")
	}
	if !strings.Contains(bar.View(), "0:10 / 45:00") {
		t.Errorf("Неожиданное представление: %s", bar.View())
	}
}

func TestUpdateWindowSize(t *testing.T) {
	model := NewModel(MainPanel)
	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	if model.width != 100 {
		t.Errorf("Expected width 100, got %d", model.width)
	}
	if model.progressBar.Width != 60 {
		t.Errorf("Expected progress width 60, got %d", model.progressBar.Width)
	}
}

func TestFormatStatus(t *testing.T) {
	if formatStatus(true) != "Воспроизведение" {
		t.Error("Expected 'Воспроизведение' for playing status")
	}
	if formatStatus(false) != "Пауза" {
		t.Error("Expected 'Пауза' for paused status")
	}
}
