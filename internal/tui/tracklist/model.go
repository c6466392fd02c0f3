// Package tracklist содержит модель экрана списка треков для TUI:
// каталог и избранное, строку поиска, фильтр и подтверждение очистки
package tracklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/search"
	"github.com/hazadus/tafsir/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4)
	promptStyle       = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("205"))
	emptyStyle        = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("241"))
)

// Action - действие над выбранным треком
type Action int

const (
	// ActionPlay - воспроизвести
	ActionPlay Action = iota
	// ActionFavorite - переключить избранное
	ActionFavorite
	// ActionDownload - скачать
	ActionDownload
	// ActionClearFavorites - очистить избранное (после подтверждения)
	ActionClearFavorites
)

// ActionMsg отправляется при действии пользователя над списком
type ActionMsg struct {
	Action  Action
	TrackID int
}

// QueryChangedMsg отправляется при изменении фильтра, запроса или вида
type QueryChangedMsg struct{}

// Row - строка списка: снимок трека и его отметки
type Row struct {
	Track    catalog.Track
	Favorite bool
}

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	row     Row
	current bool
}

func (i trackItem) FilterValue() string {
	return i.row.Track.Title
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	fmt.Fprint(w, renderRow(i, index == m.Index()))
}

// formatRow форматирует строку: ID | отметки | название | длительность | счетчики
func formatRow(i trackItem) string {
	marker := "  "
	if i.current {
		marker = "♪ "
	}
	fav := " "
	if i.row.Favorite {
		fav = "♥"
	}

	t := i.row.Track
	return fmt.Sprintf("%s%-4d %s %-40s %6s  🎧 %-4d ⬇ %d",
		marker,
		t.ID,
		fav,
		utils.TruncateString(t.Title, 40),
		t.DurationLabel,
		t.Listens,
		t.Downloads)
}

func renderRow(i trackItem, selected bool) string {
	str := formatRow(i)
	if selected {
		return selectedItemStyle.Render("> " + str)
	}
	return itemStyle.Render(str)
}

type mode int

const (
	browsing mode = iota
	searching
	confirming
)

// Model представляет модель экрана списка треков
type Model struct {
	list      list.Model
	input     textinput.Model
	mode      mode
	filter    search.Filter
	favorites bool
	currentID int
	rows      []Row
}

// NewModel создает новую модель списка треков
func NewModel() *Model {
	l := list.New(nil, trackItemDelegate{}, 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle

	input := textinput.New()
	input.Placeholder = "номер, диапазон (11-33) или часть названия"
	input.Prompt = "🔍 "
	input.CharLimit = 64

	m := &Model{
		list:   l,
		input:  input,
		filter: search.FilterAll,
	}
	m.updateTitle()
	return m
}

// Init инициализирует модель
func (m *Model) Init() tea.Cmd {
	return nil
}

// Filter возвращает текущий фильтр типа
func (m *Model) Filter() search.Filter {
	return m.filter
}

// Query возвращает строку поиска
func (m *Model) Query() string {
	return m.input.Value()
}

// FavoritesView сообщает, показано ли избранное вместо каталога
func (m *Model) FavoritesView() bool {
	return m.favorites
}

// Capturing сообщает, что модель сама обрабатывает все клавиши (ввод поиска или подтверждение)
func (m *Model) Capturing() bool {
	return m.mode != browsing
}

// SetRows заменяет содержимое списка, сохраняя позицию курсора
func (m *Model) SetRows(rows []Row) {
	m.rows = rows
	m.refreshItems()
}

// SetCurrent отмечает текущий трек
func (m *Model) SetCurrent(id int) {
	if m.currentID == id {
		return
	}
	m.currentID = id
	m.refreshItems()
}

// SetSize задает размеры списка
func (m *Model) SetSize(width, height int) {
	m.list.SetWidth(width)
	m.list.SetHeight(height)
	m.input.Width = width - 10
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch m.mode {
	case searching:
		return m.updateSearch(keyMsg)
	case confirming:
		return m.updateConfirm(keyMsg)
	}

	switch keyMsg.String() {
	case "/":
		m.mode = searching
		return m, m.input.Focus()

	case "tab":
		m.filter = m.filter.Next()
		m.updateTitle()
		return m, changed

	case "f":
		m.favorites = !m.favorites
		m.updateTitle()
		return m, changed

	case "C":
		m.mode = confirming
		return m, nil

	case "enter":
		return m, m.action(ActionPlay)

	case "h":
		return m, m.action(ActionFavorite)

	case "d":
		return m, m.action(ActionDownload)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = browsing
		m.input.Blur()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.list.Select(0)
		return m, tea.Batch(cmd, changed)
	}
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (*Model, tea.Cmd) {
	m.mode = browsing
	switch msg.String() {
	case "y", "Y", "д", "Д":
		return m, func() tea.Msg {
			return ActionMsg{Action: ActionClearFavorites}
		}
	}
	return m, nil
}

func (m *Model) action(action Action) tea.Cmd {
	item, ok := m.list.SelectedItem().(trackItem)
	if !ok {
		return nil
	}
	id := item.row.Track.ID
	return func() tea.Msg {
		return ActionMsg{Action: action, TrackID: id}
	}
}

func (m *Model) refreshItems() {
	items := make([]list.Item, len(m.rows))
	for i, row := range m.rows {
		items[i] = trackItem{row: row, current: row.Track.ID == m.currentID}
	}
	m.list.SetItems(items)
}

func (m *Model) updateTitle() {
	if m.favorites {
		m.list.Title = "Избранное"
		return
	}
	m.list.Title = fmt.Sprintf("Тафсир [%s]", filterLabel(m.filter))
}

func changed() tea.Msg {
	return QueryChangedMsg{}
}

func filterLabel(f search.Filter) string {
	switch f {
	case search.FilterSingle:
		return "отдельные"
	case search.FilterRange:
		return "диапазоны"
	default:
		return "все"
	}
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.list.View())
	b.WriteString("\n")

	switch {
	case m.mode == confirming:
		b.WriteString(promptStyle.Render("Очистить избранное? (y/n)"))
	case m.mode == searching || m.input.Value() != "":
		b.WriteString(promptStyle.Render(m.input.View()))
	}

	if len(m.rows) == 0 {
		b.WriteString("\n")
		if m.favorites {
			b.WriteString(emptyStyle.Render("В избранном пока ничего нет"))
		} else {
			b.WriteString(emptyStyle.Render("Ничего не найдено"))
		}
	}
	return b.String()
}

// HelpView возвращает строку подсказки по клавишам
func (m *Model) HelpView() string {
	return helpStyle.Render(strings.Join([]string{
		"Enter: воспроизвести", "пробел: пауза", "n/p: след./пред.", "←/→: ±10с",
		"h: избранное", "d: скачать", "/: поиск", "tab: фильтр", "f: вид", "C: очистить", "q: выход",
	}, " • "))
}
