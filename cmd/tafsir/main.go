package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hazadus/tafsir/internal/app"
	"github.com/hazadus/tafsir/internal/config"
	"github.com/hazadus/tafsir/internal/logger"
)

// Application содержит конфигурацию и компоненты, общие для всех команд
type Application struct {
	Config *config.Config
	App    *app.App
	Log    *zap.Logger
}

// NewApplication загружает .env и конфигурацию
func NewApplication(configPath string) (*Application, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	return &Application{Config: cfg}, nil
}

// init создает компоненты приложения под конкретную команду.
// В TUI вывод логов в консоль отключен, чтобы не портить экран.
func (application *Application) init(ctx context.Context, cmd *cobra.Command) error {
	if application.App != nil {
		return nil
	}

	logCfg := application.Config.Log
	log, err := logger.New(logger.Config{
		Level:      logCfg.Level,
		File:       logCfg.File,
		MaxSize:    logCfg.MaxSize,
		MaxBackups: logCfg.MaxBackups,
		MaxAge:     logCfg.MaxAge,
		Compress:   logCfg.Compress,
		Console:    cmd.Name() != "tui" && logCfg.File == "",
	})
	if err != nil {
		return fmt.Errorf("ошибка настройки логирования: %w", err)
	}
	application.Log = log

	opts := app.Options{Logger: log}
	if cmd.Name() == "download" {
		opts.DownloadProgress = printDownloadProgress
	}

	a, err := app.New(ctx, application.Config, opts)
	if err != nil {
		return err
	}
	application.App = a
	return nil
}

// Close освобождает ресурсы приложения
func (application *Application) Close() {
	if application.App != nil {
		if err := application.App.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Ошибка при завершении: %v\n", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configPath := config.DefaultPath
	if path := os.Getenv("TAFSIR_CONFIG"); path != "" {
		configPath = path
	}

	application, err := NewApplication(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	rootCmd := application.createRootCommand(ctx)
	err = rootCmd.Execute()
	application.Close()
	if err != nil {
		os.Exit(1)
	}
}
