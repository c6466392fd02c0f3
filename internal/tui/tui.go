// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/tafsir/internal/app"
	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/notify"
	"github.com/hazadus/tafsir/internal/stats"
	"github.com/hazadus/tafsir/internal/tui/player"
	"github.com/hazadus/tafsir/internal/tui/tracklist"
)

// seekStep - шаг перемотки стрелками
const seekStep = 10 * time.Second

var (
	statsStyle  = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("#888888"))
	noticeStyle = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("#00aa00"))
	errorStyle  = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("#ff0000"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// RefreshMsg - данные каталога, избранного или статистики изменились
type RefreshMsg struct {
	Topic notify.Topic
}

// DownloadDoneMsg - фоновое скачивание завершено
type DownloadDoneMsg struct {
	Filename string
	Path     string
	Err      error
}

type errMsg struct{ err error }

// rowsMsg - результат пересчета видимых строк
type rowsMsg struct {
	seq   int
	rows  []tracklist.Row
	stats stats.Aggregate
}

// App представляет основное TUI приложение
type App struct {
	app *app.App
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(a *app.App) *App {
	return &App{app: a}
}

// Run запускает TUI приложение
func (tuiApp *App) Run(ctx context.Context) error {
	model := newMainModel(ctx, tuiApp.app)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Две поверхности подписываются на контроллер независимо
	unsubMain := tuiApp.app.Player.Subscribe(player.NewSurface(player.MainPanel, p))
	unsubBar := tuiApp.app.Player.Subscribe(player.NewSurface(player.FloatingBar, p))
	unsubBus := tuiApp.app.Bus.Subscribe(func(topic notify.Topic) {
		p.Send(RefreshMsg{Topic: topic})
	})
	tuiApp.app.SetDownloadDone(func(track *catalog.Track, path string, err error) {
		p.Send(DownloadDoneMsg{Filename: track.Filename, Path: path, Err: err})
	})
	defer func() {
		tuiApp.app.SetDownloadDone(nil)
		unsubBus()
		unsubBar()
		unsubMain()
	}()

	_, err := p.Run()
	return err
}

// mainModel представляет главную модель TUI.
// Все обращения к приложению выполняются в командах, цикл событий только применяет результаты.
type mainModel struct {
	ctx       context.Context
	app       *app.App
	tracklist *tracklist.Model
	panel     *player.Model
	bar       *player.Model
	stats     stats.Aggregate
	notice    string
	err       error
	seq       int
	shownSeq  int
	width     int
}

func newMainModel(ctx context.Context, a *app.App) *mainModel {
	return &mainModel{
		ctx:       ctx,
		app:       a,
		tracklist: tracklist.NewModel(),
		panel:     player.NewModel(player.MainPanel),
		bar:       player.NewModel(player.FloatingBar),
	}
}

// Init инициализирует модель
func (m *mainModel) Init() tea.Cmd {
	return m.refresh()
}

// Update обрабатывает сообщения
func (m *mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		// Оставляем место для панели плеера, мини-панели, статистики и справки
		m.tracklist.SetSize(msg.Width, max(msg.Height-16, 5))
		m.panel, _ = m.panel.Update(msg)
		m.bar, _ = m.bar.Update(msg)
		return m, nil

	case tracklist.ActionMsg:
		return m, m.dispatch(command(msg))

	case tracklist.QueryChangedMsg, RefreshMsg:
		return m, m.refresh()

	case rowsMsg:
		if msg.seq < m.shownSeq {
			return m, nil
		}
		m.shownSeq = msg.seq
		m.stats = msg.stats
		m.tracklist.SetRows(msg.rows)
		return m, nil

	case DownloadDoneMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.notice = fmt.Sprintf("✅ %s сохранен в %s", msg.Filename, filepath.Dir(msg.Path))
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case player.TrackMsg:
		if msg.Surface == player.MainPanel {
			m.tracklist.SetCurrent(msg.Track.ID)
		}
	}

	// Сообщения поверхностей и кадры прогресс-бара
	var panelCmd, barCmd tea.Cmd
	m.panel, panelCmd = m.panel.Update(msg)
	m.bar, barCmd = m.bar.Update(msg)

	var listCmd tea.Cmd
	m.tracklist, listCmd = m.tracklist.Update(msg)
	return m, tea.Batch(panelCmd, barCmd, listCmd)
}

func (m *mainModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if !m.tracklist.Capturing() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case " ":
			return m, m.dispatch(app.Command{Type: app.CommandTogglePlay})
		case "n":
			return m, m.dispatch(app.Command{Type: app.CommandNext})
		case "p":
			return m, m.dispatch(app.Command{Type: app.CommandPrevious})
		case "right":
			return m, m.seek(seekStep)
		case "left":
			return m, m.seek(-seekStep)
		}
	}

	var cmd tea.Cmd
	m.tracklist, cmd = m.tracklist.Update(msg)
	return m, cmd
}

func command(msg tracklist.ActionMsg) app.Command {
	switch msg.Action {
	case tracklist.ActionFavorite:
		return app.Command{Type: app.CommandFavorite, TrackID: msg.TrackID}
	case tracklist.ActionDownload:
		return app.Command{Type: app.CommandDownload, TrackID: msg.TrackID}
	case tracklist.ActionClearFavorites:
		return app.Command{Type: app.CommandClearFavorites}
	default:
		return app.Command{Type: app.CommandPlay, TrackID: msg.TrackID}
	}
}

func (m *mainModel) dispatch(cmd app.Command) tea.Cmd {
	m.err = nil
	if cmd.Type == app.CommandDownload {
		m.notice = "⬇️ Скачивание..."
	}
	return func() tea.Msg {
		if err := m.app.Dispatch(m.ctx, cmd); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m *mainModel) seek(delta time.Duration) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Player.SeekBy(delta); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

// refresh пересчитывает видимые строки в команде; устаревшие результаты отбрасываются
func (m *mainModel) refresh() tea.Cmd {
	m.seq++
	seq := m.seq
	filter := m.tracklist.Filter()
	query := m.tracklist.Query()
	favoritesView := m.tracklist.FavoritesView()

	return func() tea.Msg {
		var tracks []*catalog.Track
		if favoritesView {
			tracks = m.app.FavoriteTracks()
		} else {
			tracks = m.app.Visible(filter, query)
		}

		rows := make([]tracklist.Row, len(tracks))
		for i, t := range tracks {
			rows[i] = tracklist.Row{
				Track:    m.app.Catalog.Snapshot(t),
				Favorite: m.app.Favorites.Contains(t.ID),
			}
		}
		return rowsMsg{seq: seq, rows: rows, stats: m.app.Stats.Aggregate()}
	}
}

// View отображает интерфейс
func (m *mainModel) View() string {
	var b strings.Builder

	panel := panelStyle
	if m.width > 4 {
		panel = panel.Width(m.width - 4)
	}
	b.WriteString(panel.Render(m.panel.View()))
	b.WriteString("\n")
	b.WriteString(m.tracklist.View())
	b.WriteString("\n")

	b.WriteString(statsStyle.Render(fmt.Sprintf("👥 %d • 🎧 %d • ⬇️ %d",
		m.stats.Visitors, m.stats.Listens, m.stats.Downloads)))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("❌ " + m.err.Error()))
		b.WriteString("\n")
	case m.notice != "":
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	if bar := m.bar.View(); bar != "" {
		b.WriteString(bar)
		b.WriteString("\n")
	}
	b.WriteString(m.tracklist.HelpView())
	return b.String()
}
