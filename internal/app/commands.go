package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/catalog"
)

// CommandType - действие пользователя
type CommandType int

const (
	CommandPlay CommandType = iota
	CommandFavorite
	CommandDownload
	CommandTogglePlay
	CommandNext
	CommandPrevious
	CommandClearFavorites
)

func (t CommandType) String() string {
	switch t {
	case CommandPlay:
		return "play"
	case CommandFavorite:
		return "favorite"
	case CommandDownload:
		return "download"
	case CommandTogglePlay:
		return "toggle-play"
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandClearFavorites:
		return "clear-favorites"
	default:
		return fmt.Sprintf("command(%d)", int(t))
	}
}

// needsTrack сообщает, требует ли команда идентификатор трека
func (t CommandType) needsTrack() bool {
	return t == CommandPlay || t == CommandFavorite || t == CommandDownload
}

// Command - команда с необязательным идентификатором трека
type Command struct {
	Type    CommandType
	TrackID int
}

// Dispatch выполняет команду. Скачивание запускается в фоне,
// результат приходит в Options.DownloadDone.
func (a *App) Dispatch(ctx context.Context, cmd Command) error {
	var track *catalog.Track
	if cmd.Type.needsTrack() {
		var err error
		if track, err = a.Catalog.TrackByID(cmd.TrackID); err != nil {
			return err
		}
	}

	a.Log.Debug("команда", zap.Stringer("type", cmd.Type), zap.Int("id", cmd.TrackID))

	switch cmd.Type {
	case CommandPlay:
		return a.Player.PlayTrack(track)
	case CommandFavorite:
		_, err := a.Favorites.Toggle(track)
		return err
	case CommandDownload:
		a.Downloads.Start(ctx, track, func(path string, err error) {
			a.notifyDownload(track, path, err)
		})
		return nil
	case CommandTogglePlay:
		return a.Player.TogglePlayPause()
	case CommandNext:
		return a.Player.Next()
	case CommandPrevious:
		return a.Player.Previous()
	case CommandClearFavorites:
		return a.Favorites.Clear()
	default:
		return fmt.Errorf("неизвестная команда: %v", cmd.Type)
	}
}
