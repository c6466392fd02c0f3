package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix  = "tafsir:"
	redisOpTimeout      = 5 * time.Second
	redisUpdateAttempts = 10
)

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis хранит ключи в Redis; общий для нескольких процессов
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis создает хранилище и проверяет соединение
func NewRedis(cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("не удалось подключиться к Redis: %w", err)
	}

	return NewRedisWithClient(client, cfg.Prefix), nil
}

// NewRedisWithClient создает хранилище поверх существующего клиента
func NewRedisWithClient(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

// Get возвращает значение ключа; ошибки сети трактуются как отсутствие значения
func (r *Redis) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Set записывает значение ключа без срока жизни
func (r *Redis) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("ошибка записи ключа %s в Redis: %w", key, err)
	}
	return nil
}

// Delete удаляет ключ
func (r *Redis) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("ошибка удаления ключа %s из Redis: %w", key, err)
	}
	return nil
}

// Update выполняет read-modify-write в оптимистичной транзакции WATCH/MULTI
func (r *Redis) Update(key string, fn func(old string, ok bool) (string, error)) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	fullKey := r.key(key)
	txf := func(tx *redis.Tx) error {
		old, err := tx.Get(ctx, fullKey).Result()
		ok := true
		if errors.Is(err, redis.Nil) {
			ok = false
		} else if err != nil {
			return err
		}

		value, err := fn(old, ok)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, fullKey, value, 0)
			return nil
		})
		return err
	}

	for i := 0; i < redisUpdateAttempts; i++ {
		err := r.client.Watch(ctx, txf, fullKey)
		if errors.Is(err, redis.TxFailedErr) {
			// Ключ изменили параллельно, повторяем
			continue
		}
		if err != nil {
			return fmt.Errorf("ошибка обновления ключа %s в Redis: %w", key, err)
		}
		return nil
	}
	return fmt.Errorf("ключ %s: превышено число попыток обновления", key)
}

// Close закрывает соединение с Redis
func (r *Redis) Close() error {
	return r.client.Close()
}
