// Package media содержит медиа-элемент на основе beep: загрузка MP3,
// пауза, перемотка и события времени воспроизведения
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/playback"
	"github.com/hazadus/tafsir/internal/streaming"
)

var _ playback.MediaElement = (*Element)(nil)

// ErrNotLoaded возвращается, если источник еще не загружен
var ErrNotLoaded = errors.New("источник не загружен")

// resampleQuality - качество передискретизации для файлов с другой частотой
const resampleQuality = 4

// Listener получает события медиа-элемента.
// Методы вызываются из горутин элемента без удержания его блокировок.
type Listener interface {
	OnTimeTick(token uint64, current, duration time.Duration)
	OnNaturalEnd(token uint64)
	OnPlayConfirmed(token uint64, err error)
}

// Element проигрывает один источник за раз через динамики
type Element struct {
	ctx    context.Context
	cancel context.CancelFunc
	mutex  sync.Mutex
	log    *zap.Logger

	listener   Listener
	tickPeriod time.Duration

	isInitialized bool
	sampleRate    beep.SampleRate

	token    uint64
	wantPlay bool
	finished bool // Seq источника доигран и больше не микшируется

	source      io.ReadCloser
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	stopMonitor context.CancelFunc
}

// New создает медиа-элемент
func New(log *zap.Logger) *Element {
	ctx, cancel := context.WithCancel(context.Background())
	return &Element{
		ctx:        ctx,
		cancel:     cancel,
		log:        log,
		tickPeriod: time.Second,
	}
}

// SetListener задает получателя событий
func (e *Element) SetListener(l Listener) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.listener = l
}

// Load открывает и декодирует источник; воспроизведение остается на паузе до Play
func (e *Element) Load(token uint64, url string) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	// Останавливаем текущее воспроизведение, если есть
	e.stopLocked()
	e.token = token

	source, err := streaming.Open(e.ctx, url)
	if err != nil {
		return fmt.Errorf("ошибка открытия источника: %w", err)
	}

	streamer, format, err := mp3.Decode(source)
	if err != nil {
		source.Close()
		return fmt.Errorf("ошибка декодирования MP3: %w", err)
	}

	// Инициализируем speaker (только один раз)
	if !e.isInitialized {
		err = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/5))
		if err != nil {
			streamer.Close()
			return fmt.Errorf("ошибка инициализации динамиков: %w", err)
		}
		e.isInitialized = true
		e.sampleRate = format.SampleRate
	}

	var output beep.Streamer = streamer
	if format.SampleRate != e.sampleRate {
		output = beep.Resample(resampleQuality, format.SampleRate, e.sampleRate, streamer)
	}

	e.source = source
	e.streamer = streamer
	e.format = format
	e.ctrl = &beep.Ctrl{Streamer: output, Paused: true}
	e.queueLocked(token)

	monitorCtx, stop := context.WithCancel(e.ctx)
	e.stopMonitor = stop
	go e.monitorProgress(monitorCtx, token)

	e.log.Debug("источник загружен",
		zap.String("url", url), zap.Int("sample_rate", int(format.SampleRate)))
	return nil
}

// Play снимает паузу асинхронно и подтверждает запуск через Listener
func (e *Element) Play(token uint64) {
	e.mutex.Lock()
	if token != e.token {
		e.mutex.Unlock()
		return
	}
	e.wantPlay = true
	e.mutex.Unlock()

	go func() {
		e.mutex.Lock()
		if token != e.token || !e.wantPlay {
			e.mutex.Unlock()
			return
		}
		if e.ctrl == nil {
			listener := e.listener
			e.mutex.Unlock()
			if listener != nil {
				listener.OnPlayConfirmed(token, ErrNotLoaded)
			}
			return
		}

		if e.finished {
			// Доигранный источник возвращается в микшер; из конца перематывается в начало
			if err := e.rewindLocked(); err != nil {
				listener := e.listener
				e.mutex.Unlock()
				if listener != nil {
					listener.OnPlayConfirmed(token, err)
				}
				return
			}
			e.queueLocked(token)
		}

		speaker.Lock()
		e.ctrl.Paused = false
		speaker.Unlock()
		listener := e.listener
		e.mutex.Unlock()

		if listener != nil {
			listener.OnPlayConfirmed(token, nil)
		}
	}()
}

// queueLocked ставит источник в микшер (должен вызываться под мьютексом)
func (e *Element) queueLocked(token uint64) {
	e.finished = false
	speaker.Play(beep.Seq(e.ctrl, beep.Callback(func() {
		// Колбэк выполняется под блокировкой speaker, событие уходит в отдельную горутину
		go e.ended(token)
	})))
}

// rewindLocked перематывает доигранный источник в начало (должен вызываться под мьютексом)
func (e *Element) rewindLocked() error {
	speaker.Lock()
	defer speaker.Unlock()

	if length := e.streamer.Len(); length > 0 && e.streamer.Position() < length {
		return nil
	}
	if err := e.streamer.Seek(0); err != nil {
		return fmt.Errorf("ошибка перемотки в начало: %w", err)
	}
	return nil
}

// Pause приостанавливает воспроизведение и отменяет ожидающий Play
func (e *Element) Pause() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	e.wantPlay = false
	if e.ctrl == nil {
		return nil
	}
	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// Seek перемещает позицию воспроизведения
func (e *Element) Seek(position time.Duration) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.streamer == nil {
		return ErrNotLoaded
	}

	speaker.Lock()
	defer speaker.Unlock()

	n := e.format.SampleRate.N(position)
	if length := e.streamer.Len(); length > 0 && n >= length {
		n = length - 1
	}
	if n < 0 {
		n = 0
	}
	if err := e.streamer.Seek(n); err != nil {
		return fmt.Errorf("ошибка перемотки: %w", err)
	}
	return nil
}

// Close освобождает ресурсы элемента
func (e *Element) Close() error {
	e.cancel()
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.stopLocked()
	return nil
}

// stopLocked внутренний метод остановки (должен вызываться под мьютексом)
func (e *Element) stopLocked() {
	if e.stopMonitor != nil {
		e.stopMonitor()
		e.stopMonitor = nil
	}

	if e.ctrl != nil {
		speaker.Clear()
		e.ctrl = nil
	}

	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}

	if e.source != nil {
		e.source.Close()
		e.source = nil
	}

	e.wantPlay = false
	e.finished = false
}

func (e *Element) ended(token uint64) {
	e.mutex.Lock()
	listener := e.listener
	current := e.token
	if token == current {
		e.finished = true
	}
	e.mutex.Unlock()

	if listener != nil && token == current {
		listener.OnNaturalEnd(token)
	}
}

// monitorProgress отправляет позицию воспроизведения раз в tickPeriod
func (e *Element) monitorProgress(ctx context.Context, token uint64) {
	ticker := time.NewTicker(e.tickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.mutex.Lock()
			if e.streamer == nil || e.ctrl == nil || token != e.token {
				e.mutex.Unlock()
				return
			}

			speaker.Lock()
			current := e.format.SampleRate.D(e.streamer.Position())
			total := e.format.SampleRate.D(e.streamer.Len())
			paused := e.ctrl.Paused
			speaker.Unlock()
			listener := e.listener
			e.mutex.Unlock()

			if paused || listener == nil {
				continue
			}
			listener.OnTimeTick(token, current, total)
		}
	}
}
