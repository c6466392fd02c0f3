package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// createDownloadCommand создает команду download с привязкой к экземпляру приложения
func (application *Application) createDownloadCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "download [trackid]",
		Short: "Download a track to the download directory",
		Long:  `Download a catalog track from the remote base URL (HTTP or s3://) and save it under its original filename.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			trackID, err := parseTrackID(args[0])
			if err != nil {
				return err
			}

			// Создаем контекст с таймаутом для скачивания (10 минут)
			downloadCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			return application.downloadByID(downloadCtx, trackID)
		},
	}
}

func (application *Application) downloadByID(ctx context.Context, trackID int) error {
	a := application.App
	track, err := a.Catalog.TrackByID(trackID)
	if err != nil {
		return err
	}

	fmt.Printf("⬇️  Скачиваем трек:\n")
	fmt.Printf("   Название: %s\n", track.Title)
	fmt.Printf("   Адрес: %s\n", a.Downloads.URL(track.Filename))
	fmt.Println()

	path, err := a.Downloads.Download(ctx, track)
	if err != nil {
		fmt.Println()
		return err
	}

	fmt.Printf("\n✅ Файл сохранен: %s\n", path)
	fmt.Printf("   Скачиваний этого трека: %d\n", a.Catalog.Counters(track).Downloads)
	return nil
}
