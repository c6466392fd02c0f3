// Package streaming содержит компоненты для потокового чтения аудио по сети
package streaming

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

// DefaultBufferSize - размер буфера потокового чтения
const DefaultBufferSize = 256 * 1024 // 256KB буфер

// ErrHTTPStatus возвращается при ответе сервера с неуспешным статусом
var ErrHTTPStatus = errors.New("неуспешный ответ сервера")

// userAgent идентифицирует клиент
const userAgent = "tafsir/1.0"

// client общий для всех потоков; общий таймаут не задан, чтобы длинные записи читались целиком
var client = &http.Client{
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       300 * time.Second, // 5 минут
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// Reader представляет буферизованный поток для чтения данных порциями
type Reader struct {
	reader *bufio.Reader
	resp   *http.Response
	size   int64
}

// NewReader создает новый потоковый ридер
func NewReader(ctx context.Context, url string, bufferSize int) (*Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Accept-Encoding", "identity") // Отключаем сжатие для потока
	req.Header.Set("Range", "bytes=0-")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrHTTPStatus, resp.Status)
	}

	return &Reader{
		reader: bufio.NewReaderSize(resp.Body, bufferSize),
		resp:   resp,
		size:   resp.ContentLength,
	}, nil
}

// Read реализует интерфейс io.Reader для потокового чтения
func (sr *Reader) Read(p []byte) (n int, err error) {
	return sr.reader.Read(p)
}

// Size возвращает длину содержимого или -1, если сервер ее не сообщил
func (sr *Reader) Size() int64 {
	return sr.size
}

// Close закрывает соединение
func (sr *Reader) Close() error {
	return sr.resp.Body.Close()
}

// IsRemote проверяет, указывает ли адрес на HTTP-ресурс
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Open открывает источник: HTTP-адрес читается потоком, остальное считается локальным путем
func Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if IsRemote(location) {
		return NewReader(ctx, location, DefaultBufferSize)
	}

	f, err := os.Open(strings.TrimPrefix(location, "file://"))
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	return f, nil
}
