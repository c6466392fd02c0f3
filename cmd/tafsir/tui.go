package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/tafsir/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (application *Application) createTUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface with the catalog, search, favorites and two playback panels.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.NewApp(application.App).Run(ctx)
		},
	}
}
