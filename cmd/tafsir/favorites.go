package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createFavoritesCommand создает команду favorites с подкомандами list, toggle и clear
func (application *Application) createFavoritesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage favorite tracks",
		Long:  `List, toggle and clear favorite tracks. Favorites are stored together with listening stats.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List favorite tracks",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			application.listFavorites()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle [trackid]",
		Short: "Add a track to favorites or remove it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			trackID, err := parseTrackID(args[0])
			if err != nil {
				return err
			}
			return application.toggleFavorite(trackID)
		},
	})

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all favorites",
		Long:  `Remove all favorites. Requires --yes to confirm. Listening stats are kept.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return application.clearFavorites(yes)
		},
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing favorites")
	cmd.AddCommand(clearCmd)

	return cmd
}

func (application *Application) listFavorites() {
	tracks := application.App.FavoriteTracks()
	if len(tracks) == 0 {
		fmt.Println("💔 В избранном пока ничего нет. Добавьте трек командой 'tafsir favorites toggle [ID]'.")
		return
	}

	fmt.Printf("❤️  Избранное: %d\n\n", len(tracks))
	application.printTrackTable(tracks)
}

func (application *Application) toggleFavorite(trackID int) error {
	a := application.App
	track, err := a.Catalog.TrackByID(trackID)
	if err != nil {
		return err
	}

	added, err := a.Favorites.Toggle(track)
	if err != nil {
		return fmt.Errorf("ошибка сохранения избранного: %w", err)
	}

	if added {
		fmt.Printf("❤️  Добавлено в избранное: %s\n", track.Title)
	} else {
		fmt.Printf("💔 Удалено из избранного: %s\n", track.Title)
	}
	return nil
}

func (application *Application) clearFavorites(confirmed bool) error {
	if !confirmed {
		fmt.Println("⚠️  Очистка избранного необратима. Повторите команду с флагом --yes для подтверждения.")
		return nil
	}

	count := application.App.Favorites.Len()
	if err := application.App.Favorites.Clear(); err != nil {
		return err
	}
	fmt.Printf("🗑️  Избранное очищено (удалено записей: %d)\n", count)
	return nil
}
