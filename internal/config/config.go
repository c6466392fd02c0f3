// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath - путь к файлу конфигурации по умолчанию
const DefaultPath = "~/.tafsir/config.yaml"

// Хранилища состояния
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Источники каталога
const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
	SourceS3      = "s3"
)

// Config структура для хранения конфигурации приложения
type Config struct {
	AudioBaseURL  string            `yaml:"audio_base_url"`
	RemoteBaseURL string            `yaml:"remote_base_url"`
	DownloadDir   string            `yaml:"download_dir"`
	Subtitle      string            `yaml:"subtitle"`
	Durations     map[string]string `yaml:"durations"`

	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`

	Store   StoreConfig   `yaml:"store"`
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
}

// StoreConfig - настройки хранилища состояния
type StoreConfig struct {
	Backend       string `yaml:"backend"` // file, redis, memory
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
}

// CatalogConfig - откуда берется список файлов
type CatalogConfig struct {
	Source string `yaml:"source"` // builtin, file, s3
	File   string `yaml:"file"`
	Prefix string `yaml:"prefix"` // Префикс ключей в бакете для источника s3
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		AudioBaseURL: "audio",
		DownloadDir:  "~/Downloads",
		AwsRegion:    "us-east-1",
		Store: StoreConfig{
			Backend:     StoreFile,
			Path:        "~/.tafsir/state.yaml",
			RedisAddr:   "127.0.0.1:6379",
			RedisPrefix: "tafsir:",
		},
		Catalog: CatalogConfig{
			Source: SourceBuiltin,
		},
		Log: LogConfig{
			Level:      "warn",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
		},
	}
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл дает конфигурацию по умолчанию; переменные окружения TAFSIR_*
// переопределяют значения из файла.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := expandHome(filePath, home)

	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Работаем на значениях по умолчанию
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора %s: %w", path, err)
		}
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Раскрываем тильду в путях
	config.DownloadDir = expandHome(config.DownloadDir, home)
	config.Store.Path = expandHome(config.Store.Path, home)
	config.Catalog.File = expandHome(config.Catalog.File, home)
	config.Log.File = expandHome(config.Log.File, home)

	return config, nil
}

// LoadDotEnv загружает переменные из .env файлов; отсутствующие файлы пропускаются.
// Уже заданные переменные окружения не переопределяются.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("ошибка загрузки %s: %w", path, err)
		}
	}
	return nil
}

// Validate проверяет значения перечислений
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("неизвестное хранилище: %q (допустимо: file, redis, memory)", c.Store.Backend)
	}

	switch c.Catalog.Source {
	case SourceBuiltin, SourceS3:
	case SourceFile:
		if c.Catalog.File == "" {
			return errors.New("для источника file нужно указать catalog.file")
		}
	default:
		return fmt.Errorf("неизвестный источник каталога: %q (допустимо: builtin, file, s3)", c.Catalog.Source)
	}

	if c.Catalog.Source == SourceS3 && c.AwsBucketName == "" {
		return errors.New("для источника s3 нужно указать aws_bucket_name")
	}
	return nil
}

func applyEnv(c *Config) {
	c.AudioBaseURL = getEnv("TAFSIR_AUDIO_BASE_URL", c.AudioBaseURL)
	c.RemoteBaseURL = getEnv("TAFSIR_REMOTE_BASE_URL", c.RemoteBaseURL)
	c.DownloadDir = getEnv("TAFSIR_DOWNLOAD_DIR", c.DownloadDir)

	c.AwsBucketName = getEnv("TAFSIR_AWS_BUCKET_NAME", c.AwsBucketName)
	c.AwsAccessKey = getEnv("TAFSIR_AWS_ACCESS_KEY", c.AwsAccessKey)
	c.AwsSecretKey = getEnv("TAFSIR_AWS_SECRET_KEY", c.AwsSecretKey)
	c.AwsRegion = getEnv("TAFSIR_AWS_REGION", c.AwsRegion)
	c.AwsEndpoint = getEnv("TAFSIR_AWS_ENDPOINT", c.AwsEndpoint)

	c.Store.Backend = getEnv("TAFSIR_STORE_BACKEND", c.Store.Backend)
	c.Store.Path = getEnv("TAFSIR_STORE_PATH", c.Store.Path)
	c.Store.RedisAddr = getEnv("TAFSIR_REDIS_ADDR", c.Store.RedisAddr)
	c.Store.RedisPassword = getEnv("TAFSIR_REDIS_PASSWORD", c.Store.RedisPassword)
	c.Store.RedisDB = getEnvInt("TAFSIR_REDIS_DB", c.Store.RedisDB)

	c.Catalog.Source = getEnv("TAFSIR_CATALOG_SOURCE", c.Catalog.Source)
	c.Catalog.File = getEnv("TAFSIR_CATALOG_FILE", c.Catalog.File)

	c.Log.Level = getEnv("TAFSIR_LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("TAFSIR_LOG_FILE", c.Log.File)
}

// getEnv возвращает переменную окружения или значение по умолчанию
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt возвращает целочисленную переменную окружения или значение по умолчанию
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func expandHome(path, home string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		return home + path[1:]
	}
	return path
}
