package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/tafsir/internal/store"
)

// createStatsCommand создает команду stats с привязкой к экземпляру приложения
func (application *Application) createStatsCommand() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show visitor, listen and download totals",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if reset {
				if err := application.App.Stats.Reset(); err != nil {
					return fmt.Errorf("ошибка сброса статистики: %w", err)
				}
				fmt.Println("🧹 Общая статистика сброшена")
			}
			application.showStats()
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "reset aggregate counters (per-file stats are kept)")
	return cmd
}

func (application *Application) showStats() {
	agg := application.App.Stats.Aggregate()

	fmt.Printf("📈 Статистика:\n")
	fmt.Printf("   👥 Посетители: %d\n", agg.Visitors)
	fmt.Printf("   🎧 Прослушивания: %d\n", agg.Listens)
	fmt.Printf("   ⬇️  Скачивания: %d\n", agg.Downloads)
	fmt.Printf("   ❤️  В избранном: %d\n", application.App.Favorites.Len())

	if fileStore, ok := application.App.Store.(*store.File); ok {
		fmt.Printf("   💾 Файл состояния: %s\n", fileStore.Path())
	}
}
