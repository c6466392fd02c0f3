// Package s3 предоставляет доступ к хранилищу записей в Amazon S3
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Scheme - префикс адресов объектов S3
const Scheme = "s3://"

// ErrInvalidURL возвращается для адреса, не начинающегося с s3://
var ErrInvalidURL = errors.New("неверный адрес S3")

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

// API - используемая часть клиента S3
type API interface {
	ListObjectsV2PagesWithContext(ctx aws.Context, input *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, opts ...request.Option) error
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
}

// UploadAPI - используемая часть s3manager.Uploader
type UploadAPI interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// Client обертка над клиентом S3
type Client struct {
	api      API
	uploader UploadAPI
	config   *Config
}

// NewClient создает клиент S3
func NewClient(config *Config) (*Client, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		)
	}

	// Если указан endpoint, добавляем его
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return NewClientWithAPI(config, s3.New(sess), s3manager.NewUploader(sess)), nil
}

// NewClientWithAPI создает клиент поверх готовых реализаций API
func NewClientWithAPI(config *Config, api API, uploader UploadAPI) *Client {
	return &Client{api: api, uploader: uploader, config: config}
}

// Bucket возвращает бакет по умолчанию
func (c *Client) Bucket() string {
	return c.config.BucketName
}

// ListKeys возвращает ключи объектов бакета с данным префиксом в порядке листинга
func (c *Client) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := c.api.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.config.BucketName),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка объектов: %w", err)
	}
	return keys, nil
}

// Open открывает объект для чтения; пустой bucket означает бакет по умолчанию.
// Возвращает размер объекта или -1, если он неизвестен.
func (c *Client) Open(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	if bucket == "" {
		bucket = c.config.BucketName
	}

	out, err := c.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка получения объекта %s: %w", key, err)
	}

	size := int64(-1)
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return out.Body, size, nil
}

// Upload загружает файл в S3 и возвращает его адрес s3://
func (c *Client) Upload(ctx context.Context, reader io.Reader, key string) (string, error) {
	_, err := c.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}
	return Scheme + c.config.BucketName + "/" + key, nil
}

// ParseURL разбирает адрес вида s3://bucket/key
func ParseURL(url string) (bucket, key string, err error) {
	if !strings.HasPrefix(url, Scheme) {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURL, url)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(url, Scheme), "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%w: не указан бакет в %s", ErrInvalidURL, url)
	}
	return bucket, key, nil
}
