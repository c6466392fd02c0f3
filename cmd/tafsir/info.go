package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/tafsir/internal/metadata"
)

// createInfoCommand создает команду info с привязкой к экземпляру приложения
func (application *Application) createInfoCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "info [trackid]",
		Short: "Show track details and ID3 tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			trackID, err := parseTrackID(args[0])
			if err != nil {
				return err
			}

			infoCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			return application.showInfo(infoCtx, trackID)
		},
	}
}

func (application *Application) showInfo(ctx context.Context, trackID int) error {
	a := application.App
	track, err := a.Catalog.TrackByID(trackID)
	if err != nil {
		return err
	}
	snapshot := a.Catalog.Snapshot(track)

	fmt.Printf("📖 Трек %d\n", snapshot.ID)
	fmt.Printf("   Название: %s\n", snapshot.Title)
	fmt.Printf("   %s\n", snapshot.Subtitle)
	fmt.Printf("   Файл: %s\n", snapshot.Filename)
	fmt.Printf("   Тип: %s\n", snapshot.Type)
	fmt.Printf("   Продолжительность: %s\n", snapshot.DurationLabel)
	fmt.Printf("   Прослушиваний: %d\n", snapshot.Listens)
	fmt.Printf("   Скачиваний: %d\n", snapshot.Downloads)
	fmt.Printf("   В избранном: %s\n", yesNo(a.Favorites.Contains(snapshot.ID)))
	fmt.Printf("   Адрес: %s\n", snapshot.URL)

	tags, err := metadata.NewExtractor().Extract(ctx, snapshot.URL)
	if err != nil {
		fmt.Printf("\n⚠️  Теги недоступны: %v\n", err)
		return nil
	}
	if !tags.HasTags {
		fmt.Printf("\n🏷️  Теги ID3 не найдены\n")
		return nil
	}

	fmt.Printf("\n🏷️  Теги (%s):\n", tags.Format)
	fmt.Printf("   Исполнитель: %s\n", tags.Artist)
	fmt.Printf("   Название: %s\n", tags.Title)
	fmt.Printf("   Альбом: %s\n", tags.Album)
	if tags.Year > 0 {
		fmt.Printf("   Год: %d\n", tags.Year)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "да"
	}
	return "нет"
}
