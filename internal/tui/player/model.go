// Package player содержит поверхности отображения воспроизведения для TUI:
// основную панель и плавающую строку
package player

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/playback"
	"github.com/hazadus/tafsir/internal/utils"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff")).
			MarginBottom(1)

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#3c3c64")).
			Padding(0, 1)
)

// SurfaceID различает поверхности отображения
type SurfaceID int

const (
	// MainPanel - основная панель плеера
	MainPanel SurfaceID = iota
	// FloatingBar - плавающая мини-панель внизу экрана
	FloatingBar
)

// TrackMsg - на поверхности показан новый трек
type TrackMsg struct {
	Surface SurfaceID
	Track   catalog.Track
}

// ProgressMsg содержит обновление прогресса воспроизведения
type ProgressMsg struct {
	Surface  SurfaceID
	Progress playback.Progress
}

// PlayingMsg - изменился признак воспроизведения
type PlayingMsg struct {
	Surface SurfaceID
	Playing bool
}

// ErrorMsg - ошибка загрузки или запуска
type ErrorMsg struct {
	Surface SurfaceID
	Err     error
}

// Sender доставляет сообщения в программу bubbletea
type Sender interface {
	Send(msg tea.Msg)
}

// Surface пересылает уведомления контроллера в программу в виде сообщений
type Surface struct {
	id     SurfaceID
	sender Sender
}

var _ playback.Surface = (*Surface)(nil)

// NewSurface создает поверхность с указанным идентификатором
func NewSurface(id SurfaceID, sender Sender) *Surface {
	return &Surface{id: id, sender: sender}
}

func (s *Surface) ShowTrack(track catalog.Track) {
	s.sender.Send(TrackMsg{Surface: s.id, Track: track})
}

func (s *Surface) ShowProgress(p playback.Progress) {
	s.sender.Send(ProgressMsg{Surface: s.id, Progress: p})
}

func (s *Surface) ShowPlaying(playing bool) {
	s.sender.Send(PlayingMsg{Surface: s.id, Playing: playing})
}

func (s *Surface) ShowError(err error) {
	s.sender.Send(ErrorMsg{Surface: s.id, Err: err})
}

// Model - состояние одной поверхности
type Model struct {
	id          SurfaceID
	track       *catalog.Track
	progress    playback.Progress
	playing     bool
	err         error
	progressBar progress.Model
	width       int
}

// NewModel создает модель поверхности
func NewModel(id SurfaceID) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40
	if id == FloatingBar {
		prog.Width = 20
		prog.ShowPercentage = false
	}

	return &Model{
		id:          id,
		progressBar: prog,
		progress:    playback.Progress{Elapsed: "0:00", Total: "0:00"},
	}
}

// Track возвращает показанный трек или nil
func (m *Model) Track() *catalog.Track {
	return m.track
}

// Playing возвращает показанный признак воспроизведения
func (m *Model) Playing() bool {
	return m.playing
}

// Progress возвращает последний показанный прогресс
func (m *Model) Progress() playback.Progress {
	return m.progress
}

// Update применяет сообщения своей поверхности, остальные игнорирует
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.id == MainPanel {
			m.progressBar.Width = min(60, msg.Width-10)
		}
		return m, nil

	case TrackMsg:
		if msg.Surface != m.id {
			return m, nil
		}
		track := msg.Track
		m.track = &track
		m.err = nil
		return m, nil

	case ProgressMsg:
		if msg.Surface != m.id {
			return m, nil
		}
		m.progress = msg.Progress
		if m.id == MainPanel {
			return m, m.progressBar.SetPercent(msg.Progress.Percent / 100)
		}
		return m, nil

	case PlayingMsg:
		if msg.Surface != m.id {
			return m, nil
		}
		m.playing = msg.Playing
		return m, nil

	case ErrorMsg:
		if msg.Surface != m.id {
			return m, nil
		}
		m.err = msg.Err
		m.playing = false
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// View отображает поверхность
func (m *Model) View() string {
	if m.id == FloatingBar {
		return m.barView()
	}

	title := titleStyle.Render("🎵 Воспроизведение")
	if m.track == nil {
		return title + "\n" + trackInfoStyle.Render("Трек не выбран")
	}

	trackInfo := trackInfoStyle.Render(fmt.Sprintf("📖 %s\n🎤 %s", m.track.Title, m.track.Subtitle))
	statusText := statusStyle.Render(fmt.Sprintf("%s %s", statusIcon(m.playing), formatStatus(m.playing)))
	timeText := fmt.Sprintf("%s / %s", m.progress.Elapsed, m.progress.Total)

	view := fmt.Sprintf("%s\n%s\n%s\n\n%s\n%s", title, trackInfo, statusText, m.progressBar.View(), timeText)
	if m.err != nil {
		view += "\n\n" + errorStyle.Render("❌ "+m.err.Error())
	}
	return view
}

func (m *Model) barView() string {
	if m.track == nil {
		return ""
	}

	line := fmt.Sprintf("%s %s  %s  %s / %s",
		statusIcon(m.playing),
		utils.TruncateString(m.track.Title, 30),
		m.progressBar.ViewAs(m.progress.Percent/100),
		m.progress.Elapsed,
		m.progress.Total,
	)
	if m.err != nil {
		line += "  ⚠️"
	}
	return barStyle.Render(line)
}

func statusIcon(playing bool) string {
	if playing {
		return "▶️"
	}
	return "⏸️"
}

func formatStatus(isPlaying bool) string {
	if isPlaying {
		return "Воспроизведение"
	}
	return "Пауза"
}
