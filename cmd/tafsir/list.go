package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/tafsir/internal/search"
)

// createListCommand создает команду list с привязкой к экземпляру приложения
func (application *Application) createListCommand() *cobra.Command {
	var filterName, query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog tracks",
		Long:  `Display catalog tracks, optionally narrowed by type filter and search query (number, range like 11-33, or part of the title).`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			filter, err := search.ParseFilter(filterName)
			if err != nil {
				return err
			}
			application.listTracks(filter, query)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filterName, "filter", "f", "all", "track type: all, single, range")
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query")
	return cmd
}

func (application *Application) listTracks(filter search.Filter, query string) {
	tracks := application.App.Visible(filter, query)
	if len(tracks) == 0 {
		fmt.Println("🔍 Ничего не найдено. Попробуйте другой запрос или фильтр.")
		return
	}

	fmt.Printf("📚 Найдено треков: %d из %d\n\n", len(tracks), application.App.Catalog.Len())
	application.printTrackTable(tracks)

	fmt.Println()
	fmt.Println("💡 Используйте 'tafsir play [ID]' для воспроизведения трека")
}
