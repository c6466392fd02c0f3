package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hazadus/tafsir/internal/catalog"
	"github.com/hazadus/tafsir/internal/utils"
)

// parseTrackID разбирает ID трека из аргумента команды
func parseTrackID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("неверный ID трека: %s", arg)
	}
	return id, nil
}

// printTrackTable выводит треки таблицей; счетчики берутся из снимков каталога
func (application *Application) printTrackTable(tracks []*catalog.Track) {
	a := application.App

	fmt.Printf("%-4s %-2s %-36s %-7s %-6s %-8s %-8s\n",
		"ID", "", "Название", "Тип", "Длит.", "Прослуш.", "Скачив.")
	fmt.Println(strings.Repeat("-", 80))

	for _, t := range tracks {
		snapshot := a.Catalog.Snapshot(t)
		fav := ""
		if a.Favorites.Contains(t.ID) {
			fav = "♥"
		}
		fmt.Printf("%-4d %-2s %-36s %-7s %-6s %-8d %-8d\n",
			snapshot.ID,
			fav,
			utils.TruncateString(snapshot.Title, 34),
			snapshot.Type,
			snapshot.DurationLabel,
			snapshot.Listens,
			snapshot.Downloads)
	}
}

// printDownloadProgress выводит прогресс скачивания в одну строку
func printDownloadProgress(filename string, written, total int64) {
	if total > 0 {
		fmt.Printf("\r📊 %s: %.1f%% (%s / %s)", filename,
			float64(written)/float64(total)*100,
			utils.FormatFileSize(written),
			utils.FormatFileSize(total))
		return
	}
	fmt.Printf("\r📊 %s: %s", filename, utils.FormatFileSize(written))
}
