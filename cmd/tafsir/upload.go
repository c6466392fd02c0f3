package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/tafsir/internal/app"
	"github.com/hazadus/tafsir/internal/uploader"
	"github.com/hazadus/tafsir/internal/utils"
)

// createUploadCommand создает команду upload с привязкой к экземпляру приложения
func (application *Application) createUploadCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "upload [file path]",
		Short: "Upload an mp3 recording to the catalog bucket",
		Long:  `Upload an mp3 file to the S3 bucket under the catalog prefix, so the s3 catalog source lists it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Создаем контекст с таймаутом для загрузки (10 минут)
			uploadCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			return application.uploadToS3(uploadCtx, args[0])
		},
	}
}

// uploadToS3 загружает файл в S3 с отображением прогресса
func (application *Application) uploadToS3(ctx context.Context, filePath string) error {
	a := application.App
	if a.Objects == nil {
		return fmt.Errorf("%w: укажите aws_bucket_name в конфигурации", app.ErrNoObjectStorage)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("файл не найден: %s", filePath)
	}
	fileSize := info.Size()

	service := uploader.NewService(a.Objects, application.Config.Catalog.Prefix, application.Log)

	fmt.Printf("📤 Загружаем файл в S3:\n")
	fmt.Printf("   Файл: %s\n", filePath)
	fmt.Printf("   Размер: %s\n", utils.FormatFileSize(fileSize))
	fmt.Printf("   Бакет: %s\n", a.Objects.Bucket())
	fmt.Printf("   Ключ: %s\n", service.Key(filePath))
	fmt.Println()

	startTime := time.Now()
	result, err := service.UploadFile(ctx, filePath, func(progress int64) {
		if progress <= 0 || fileSize <= 0 {
			return
		}
		elapsed := time.Since(startTime)
		percentage := float64(progress) / float64(fileSize) * 100

		// Вычисляем скорость загрузки
		speed := float64(progress) / elapsed.Seconds()

		// Вычисляем оставшееся время
		var remainingTime time.Duration
		if speed > 0 {
			remainingTime = time.Duration(float64(fileSize-progress)/speed) * time.Second
		}

		fmt.Printf("\r📊 Прогресс: %.1f%% | Скорость: %s/s | Прошло: %s | Осталось: %s",
			percentage,
			utils.FormatFileSize(int64(speed)),
			utils.FormatDuration(elapsed),
			utils.FormatDuration(remainingTime))
	})
	if err != nil {
		fmt.Println()
		return fmt.Errorf("ошибка загрузки файла: %w", err)
	}

	fmt.Printf("\n✅ Файл успешно загружен в S3!\n")
	fmt.Printf("   URL: %s\n", result.URL)
	if result.Tags.HasTags {
		fmt.Printf("   Теги: %s - %s\n", result.Tags.Artist, result.Tags.Title)
	}
	return nil
}
