// Package playback содержит конечный автомат воспроизведения: текущий трек,
// признак воспроизведения и рассылку прогресса по поверхностям отображения
package playback

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/utils"
)

var (
	// ErrMediaLoad - не удалось привязать источник к медиа-элементу
	ErrMediaLoad = errors.New("ошибка загрузки источника")
	// ErrMediaPlay - медиа-элемент не подтвердил начало воспроизведения
	ErrMediaPlay = errors.New("ошибка запуска воспроизведения")
)

// Status - состояние автомата
type Status int

const (
	// Idle - трек не выбран
	Idle Status = iota
	// LoadedPaused - трек выбран, воспроизведение остановлено
	LoadedPaused
	// LoadedPlaying - трек воспроизводится
	LoadedPlaying
)

func (s Status) String() string {
	switch s {
	case LoadedPaused:
		return "paused"
	case LoadedPlaying:
		return "playing"
	default:
		return "idle"
	}
}

// MediaElement - низкоуровневый проигрыватель.
// Каждый Load получает новый токен; события медиа-элемента несут токен
// загрузки, к которой относятся. Play асинхронный: результат приходит
// через OnPlayConfirmed и не должен вызываться из самого Play.
type MediaElement interface {
	Load(token uint64, url string) error
	Play(token uint64)
	Pause() error
	Seek(position time.Duration) error
}

// State - снимок состояния воспроизведения
type State struct {
	Track    *catalog.Track
	Playing  bool
	Starting bool // Play запрошен, подтверждения еще нет
	Position time.Duration
	Duration time.Duration
}

// Progress - проекция позиции для отображения
type Progress struct {
	Position time.Duration
	Duration time.Duration
	Percent  float64
	Elapsed  string // M:SS
	Total    string // M:SS
}

// Surface - поверхность отображения (основная панель, плавающая панель).
// Методы вызываются синхронно в порядке подписки и не должны
// вызывать изменяющие методы контроллера.
type Surface interface {
	ShowTrack(track catalog.Track)
	ShowProgress(progress Progress)
	ShowPlaying(playing bool)
	ShowError(err error)
}

type subscription struct {
	id      uint64
	surface Surface
}

type notice func(Surface)

// Controller владеет единственным состоянием воспроизведения
type Controller struct {
	mu         sync.Mutex
	dispatchMu sync.Mutex

	state  State
	token  uint64
	loaded bool
	ended  bool // последний трек каталога доигран до конца

	subs   []subscription
	nextID uint64

	catalog *catalog.Catalog
	media   MediaElement
	log     *zap.Logger
}

// New создает контроллер
func New(cat *catalog.Catalog, media MediaElement, log *zap.Logger) *Controller {
	return &Controller{
		catalog: cat,
		media:   media,
		log:     log,
	}
}

// Subscribe подключает поверхность и возвращает функцию отписки
func (c *Controller) Subscribe(s Surface) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscription{id: id, surface: s})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, sub := range c.subs {
			if sub.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// State возвращает копию текущего состояния
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status возвращает состояние автомата
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	switch {
	case c.state.Track == nil:
		return Idle
	case c.state.Playing:
		return LoadedPlaying
	default:
		return LoadedPaused
	}
}

// Current возвращает текущий трек или nil
func (c *Controller) Current() *catalog.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Track
}

// PlayTrack делает трек текущим и запрашивает воспроизведение.
// Ошибка загрузки источника возвращается, но состояние остается на треке.
func (c *Controller) PlayTrack(track *catalog.Track) error {
	if track == nil {
		return fmt.Errorf("пустой трек: %w", catalog.ErrTrackNotFound)
	}

	c.mu.Lock()
	notices, err := c.playLocked(track)
	c.release(notices)

	if err != nil {
		return err
	}
	c.countListen(track)
	return nil
}

// TogglePlayPause переключает паузу; без текущего трека запускает первый трек каталога
func (c *Controller) TogglePlayPause() error {
	c.mu.Lock()

	if c.state.Track == nil {
		first := c.catalog.At(0)
		if first == nil {
			c.mu.Unlock()
			return nil
		}
		notices, err := c.playLocked(first)
		c.release(notices)
		if err != nil {
			return err
		}
		c.countListen(first)
		return nil
	}

	if c.state.Playing || c.state.Starting {
		notices := c.pauseLocked()
		c.release(notices)
		return nil
	}

	if c.ended {
		// Доигранный трек запускается заново с начала
		notices, err := c.playLocked(c.state.Track)
		c.release(notices)
		return err
	}

	if !c.loaded {
		// Источник не был привязан, повторяем загрузку
		track := c.state.Track
		notices, err := c.playLocked(track)
		c.release(notices)
		if err != nil {
			return err
		}
		c.countListen(track)
		return nil
	}

	c.state.Starting = true
	c.media.Play(c.token)
	c.release(nil)
	return nil
}

// Next переходит к следующему треку каталога; в конце каталога ничего не делает
func (c *Controller) Next() error {
	return c.step(1)
}

// Previous переходит к предыдущему треку каталога; в начале каталога ничего не делает
func (c *Controller) Previous() error {
	return c.step(-1)
}

func (c *Controller) step(delta int) error {
	c.mu.Lock()
	if c.state.Track == nil {
		c.mu.Unlock()
		return nil
	}

	target := c.catalog.At(c.catalog.IndexOf(c.state.Track.ID) + delta)
	if target == nil {
		c.mu.Unlock()
		return nil
	}

	notices, err := c.playLocked(target)
	c.release(notices)
	if err != nil {
		return err
	}
	c.countListen(target)
	return nil
}

// Seek перемещает позицию в пределах [0, Duration]; трек и признак воспроизведения не меняются
func (c *Controller) Seek(position time.Duration) error {
	c.mu.Lock()
	if c.state.Track == nil {
		c.mu.Unlock()
		return nil
	}

	position = c.clampLocked(position)
	if err := c.media.Seek(position); err != nil {
		c.mu.Unlock()
		c.log.Warn("ошибка перемотки", zap.Duration("position", position), zap.Error(err))
		return fmt.Errorf("ошибка перемотки: %w", err)
	}

	c.state.Position = position
	if c.state.Duration == 0 || position < c.state.Duration {
		c.ended = false
	}
	progress := project(c.state.Position, c.state.Duration)
	c.release([]notice{func(s Surface) { s.ShowProgress(progress) }})
	return nil
}

// SeekFraction перемещает позицию в долю от длительности, f в [0, 1]
func (c *Controller) SeekFraction(f float64) error {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	c.mu.Lock()
	position := time.Duration(f * float64(c.state.Duration))
	c.mu.Unlock()
	return c.Seek(position)
}

// SeekBy сдвигает позицию относительно текущей
func (c *Controller) SeekBy(delta time.Duration) error {
	c.mu.Lock()
	position := c.state.Position + delta
	c.mu.Unlock()
	return c.Seek(position)
}

// OnTimeTick обновляет позицию по событию медиа-элемента
func (c *Controller) OnTimeTick(token uint64, current, duration time.Duration) {
	c.mu.Lock()
	if token != c.token || c.state.Track == nil {
		c.mu.Unlock()
		return
	}

	if duration > 0 {
		c.state.Duration = duration
	}
	c.state.Position = c.clampLocked(current)
	progress := project(c.state.Position, c.state.Duration)
	c.release([]notice{func(s Surface) { s.ShowProgress(progress) }})
}

// OnPlayConfirmed завершает асинхронный запуск воспроизведения
func (c *Controller) OnPlayConfirmed(token uint64, err error) {
	c.mu.Lock()
	if token != c.token || !c.state.Starting {
		c.mu.Unlock()
		return
	}
	c.state.Starting = false

	if err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrMediaPlay, c.state.Track.Filename, err)
		c.log.Warn("воспроизведение не началось",
			zap.String("filename", c.state.Track.Filename), zap.Error(err))
		c.state.Playing = false
		c.release([]notice{
			func(s Surface) { s.ShowPlaying(false) },
			func(s Surface) { s.ShowError(err) },
		})
		return
	}

	c.state.Playing = true
	c.release([]notice{func(s Surface) { s.ShowPlaying(true) }})
}

// OnNaturalEnd переходит к следующему треку или останавливается на последнем
func (c *Controller) OnNaturalEnd(token uint64) {
	c.mu.Lock()
	if token != c.token || c.state.Track == nil {
		c.mu.Unlock()
		return
	}

	next := c.catalog.At(c.catalog.IndexOf(c.state.Track.ID) + 1)
	if next == nil {
		c.state.Playing = false
		c.state.Starting = false
		c.ended = true
		if c.state.Duration > 0 {
			c.state.Position = c.state.Duration
		}
		progress := project(c.state.Position, c.state.Duration)
		c.release([]notice{
			func(s Surface) { s.ShowPlaying(false) },
			func(s Surface) { s.ShowProgress(progress) },
		})
		return
	}

	notices, err := c.playLocked(next)
	c.release(notices)
	if err == nil {
		c.countListen(next)
	}
}

// playLocked выполняет переход к треку; вызывается под c.mu
func (c *Controller) playLocked(track *catalog.Track) ([]notice, error) {
	c.token++
	token := c.token

	duration, err := utils.ParseClock(track.DurationLabel)
	if err != nil {
		duration = 0
	}
	c.state = State{Track: track, Duration: duration}
	c.loaded = false
	c.ended = false

	snapshot := c.catalog.Snapshot(track)
	progress := project(0, duration)

	if err := c.media.Load(token, track.URL); err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrMediaLoad, track.Filename, err)
		c.log.Warn("не удалось загрузить трек",
			zap.String("filename", track.Filename), zap.String("url", track.URL), zap.Error(err))
		return []notice{
			func(s Surface) { s.ShowTrack(snapshot) },
			func(s Surface) { s.ShowPlaying(false) },
			func(s Surface) { s.ShowProgress(progress) },
			func(s Surface) { s.ShowError(err) },
		}, err
	}
	c.loaded = true

	c.state.Starting = true
	c.media.Play(token)

	c.log.Debug("запуск трека", zap.Int("id", track.ID), zap.String("filename", track.Filename))

	return []notice{
		func(s Surface) { s.ShowTrack(snapshot) },
		func(s Surface) { s.ShowPlaying(false) },
		func(s Surface) { s.ShowProgress(progress) },
	}, nil
}

func (c *Controller) pauseLocked() []notice {
	if err := c.media.Pause(); err != nil {
		c.log.Warn("ошибка паузы", zap.Error(err))
	}
	c.state.Playing = false
	c.state.Starting = false
	return []notice{func(s Surface) { s.ShowPlaying(false) }}
}

// countListen учитывает прослушивание; каталог сам публикует сигналы перерисовки
func (c *Controller) countListen(track *catalog.Track) {
	if err := c.catalog.IncrementListens(track.Filename); err != nil {
		c.log.Warn("не удалось учесть прослушивание",
			zap.String("filename", track.Filename), zap.Error(err))
	}
}

func (c *Controller) clampLocked(position time.Duration) time.Duration {
	if position < 0 {
		return 0
	}
	if c.state.Duration > 0 && position > c.state.Duration {
		return c.state.Duration
	}
	return position
}

// release отпускает c.mu и рассылает уведомления.
// dispatchMu берется до отпускания c.mu, поэтому порядок доставки
// совпадает с порядком изменений состояния.
func (c *Controller) release(notices []notice) {
	if len(notices) == 0 {
		c.mu.Unlock()
		return
	}

	c.dispatchMu.Lock()
	surfaces := make([]Surface, len(c.subs))
	for i, sub := range c.subs {
		surfaces[i] = sub.surface
	}
	c.mu.Unlock()
	defer c.dispatchMu.Unlock()

	for _, n := range notices {
		for _, s := range surfaces {
			n(s)
		}
	}
}

func project(position, duration time.Duration) Progress {
	p := Progress{
		Position: position,
		Duration: duration,
		Elapsed:  utils.FormatClock(position),
		Total:    utils.FormatClock(duration),
	}
	if duration > 0 {
		p.Percent = float64(position) / float64(duration) * 100
	}
	return p
}
