package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/tafsir/internal/app"
	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/playback"
)

// seekStep - шаг перемотки клавишами
const seekStep = 10 * time.Second

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (application *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "play [trackid]",
		Short: "Play a track by its ID",
		Long:  `Play a catalog track by its ID. Playback continues with the next track when one ends.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			trackID, err := parseTrackID(args[0])
			if err != nil {
				return err
			}
			return application.playByID(ctx, trackID)
		},
	}
}

// consoleSurface выводит уведомления контроллера в терминал
type consoleSurface struct{}

var _ playback.Surface = consoleSurface{}

func (consoleSurface) ShowTrack(track catalog.Track) {
	fmt.Printf("\r\033[K🎵 Сейчас играет:\n")
	fmt.Printf("   ID: %d\n", track.ID)
	fmt.Printf("   Название: %s\n", track.Title)
	fmt.Printf("   %s\n", track.Subtitle)
	fmt.Printf("   Продолжительность: %s\n", track.DurationLabel)
}

func (consoleSurface) ShowProgress(p playback.Progress) {
	if p.Duration > 0 {
		fmt.Printf("\r\033[K⏱️  %.1f%% | %s / %s", p.Percent, p.Elapsed, p.Total)
		return
	}
	fmt.Printf("\r\033[K⏱️  %s", p.Elapsed)
}

func (consoleSurface) ShowPlaying(playing bool) {
	if playing {
		fmt.Printf("\r\033[K▶️  Воспроизведение\n")
	} else {
		fmt.Printf("\r\033[K⏸️  Пауза\n")
	}
}

func (consoleSurface) ShowError(err error) {
	fmt.Printf("\r\033[K❌ %v\n", err)
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для работы плеера
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run()
}

// readKeys читает одиночные символы без ожидания Enter
func readKeys(ctx context.Context) <-chan byte {
	keys := make(chan byte)
	go func() {
		defer close(keys)
		buffer := make([]byte, 1)
		for {
			if _, err := os.Stdin.Read(buffer); err != nil {
				return
			}
			select {
			case keys <- buffer[0]:
			case <-ctx.Done():
				return
			}
		}
	}()
	return keys
}

// keyCommand сопоставляет клавишу с командой плеера
func keyCommand(key byte) (app.Command, bool) {
	switch key {
	case ' ', '\n', '\r':
		return app.Command{Type: app.CommandTogglePlay}, true
	case 'n':
		return app.Command{Type: app.CommandNext}, true
	case 'p':
		return app.Command{Type: app.CommandPrevious}, true
	}
	return app.Command{}, false
}

func (application *Application) playByID(ctx context.Context, trackID int) error {
	a := application.App

	// Проверяем трек до перевода терминала в raw режим
	if _, err := a.Catalog.TrackByID(trackID); err != nil {
		return fmt.Errorf("ошибка поиска трека: %w", err)
	}

	unsubscribe := a.Player.Subscribe(consoleSurface{})
	defer unsubscribe()

	if err := a.Dispatch(ctx, app.Command{Type: app.CommandPlay, TrackID: trackID}); err != nil {
		return fmt.Errorf("ошибка запуска воспроизведения: %w", err)
	}

	fmt.Printf("🎮 Управление:\n")
	fmt.Printf("   [Пробел] - пауза/воспроизведение\n")
	fmt.Printf("   [n]/[p] - следующий/предыдущий трек\n")
	fmt.Printf("   [.]/[,] - перемотка на ±10 секунд\n")
	fmt.Printf("   [q], [Ctrl+C] - остановить и выйти\n")
	fmt.Println()

	// Включаем raw режим для чтения одиночных клавиш
	enableRawMode()
	defer disableRawMode()

	keyCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	keys := readKeys(keyCtx)

	for {
		select {
		case key, ok := <-keys:
			if !ok || key == 'q' {
				fmt.Println("\n⏹️  Воспроизведение остановлено пользователем")
				return nil
			}
			var err error
			switch key {
			case '.':
				err = a.Player.SeekBy(seekStep)
			case ',':
				err = a.Player.SeekBy(-seekStep)
			default:
				if cmd, ok := keyCommand(key); ok {
					err = a.Dispatch(ctx, cmd)
				}
			}
			if err != nil {
				fmt.Printf("\r\033[K⚠️  %v\n", err)
			}

		case <-ctx.Done():
			fmt.Println("\n⏹️  Воспроизведение остановлено")
			return nil
		}
	}
}
