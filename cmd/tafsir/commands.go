package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (application *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tafsir",
		Short: "Browse, search and play the tafsir audio catalog",
		Long:  `A command line tool to browse, search, play and download recordings of the tafsir audio catalog.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return application.init(ctx, cmd)
		},
		SilenceUsage: true,
	}

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(application.createListCommand())
	rootCmd.AddCommand(application.createPlayCommand(ctx))
	rootCmd.AddCommand(application.createFavoritesCommand())
	rootCmd.AddCommand(application.createDownloadCommand(ctx))
	rootCmd.AddCommand(application.createStatsCommand())
	rootCmd.AddCommand(application.createInfoCommand(ctx))
	rootCmd.AddCommand(application.createUploadCommand(ctx))
	rootCmd.AddCommand(application.createTUICommand(ctx))

	return rootCmd
}
