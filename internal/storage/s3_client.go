package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	chat_errors "direct-chat/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const defaultMaxImageBytes = 5 << 20

type S3Config struct {
	Region     string
	Bucket     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	PublicBase string
	Prefix     string
	MaxBytes   int
}

// Client uploads chat images to an S3 compatible bucket.
type Client struct {
	cfg S3Config
	s3  *s3.Client
}

func NewClient(ctx context.Context, cfg S3Config) (*Client, error) {
	if cfg.Region == "" || cfg.Bucket == "" {
		return nil, errors.New("s3 region and bucket are required")
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaultMaxImageBytes
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	cfg.PublicBase = strings.TrimRight(cfg.PublicBase, "/")
	cfg.Prefix = strings.Trim(cfg.Prefix, "/")

	var opts []func(*config.LoadOptions) error
	opts = append(opts, config.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{cfg: cfg, s3: s3Client}, nil
}

// Upload decodes a base64 image (plain or data URL), stores it under a fresh
// key and returns the public URL of the stored object.
func (c *Client) Upload(ctx context.Context, payload string) (string, error) {
	if c == nil {
		return "", errors.New("s3 client not initialized")
	}

	data, mime, err := DecodeImage(payload, c.cfg.MaxBytes)
	if err != nil {
		return "", err
	}

	key := c.objectKey(mime.Extension())
	_, err = c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mime.String()),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return c.FileURL(key), nil
}

func (c *Client) objectKey(ext string) string {
	name := uuid.NewString() + ext
	if c.cfg.Prefix == "" {
		return name
	}
	return c.cfg.Prefix + "/" + name
}

// FileURL returns where clients can fetch the object stored under key.
func (c *Client) FileURL(key string) string {
	if c == nil || key == "" {
		return ""
	}
	switch {
	case c.cfg.PublicBase != "":
		return c.cfg.PublicBase + "/" + key
	case c.cfg.Endpoint != "":
		return c.cfg.Endpoint + "/" + c.cfg.Bucket + "/" + key
	default:
		return "https://" + c.cfg.Bucket + ".s3." + c.cfg.Region + ".amazonaws.com/" + key
	}
}

// DecodeImage accepts either raw base64 or a data:<mime>;base64, URL and
// returns the decoded bytes with their sniffed type. Only image types pass.
func DecodeImage(payload string, maxBytes int) ([]byte, *mimetype.MIME, error) {
	encoded := strings.TrimSpace(payload)
	if strings.HasPrefix(encoded, "data:") {
		header, body, ok := strings.Cut(encoded, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, nil, fmt.Errorf("image data url: %w", chat_errors.ErrInvalidInput)
		}
		encoded = body
	}
	if encoded == "" {
		return nil, nil, fmt.Errorf("empty image: %w", chat_errors.ErrInvalidInput)
	}

	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(encoded)) > maxBytes+2 {
		return nil, nil, fmt.Errorf("image exceeds %d bytes: %w", maxBytes, chat_errors.ErrTooLarge)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, nil, fmt.Errorf("decode image: %w", chat_errors.ErrInvalidInput)
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, nil, fmt.Errorf("image exceeds %d bytes: %w", maxBytes, chat_errors.ErrTooLarge)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, nil, fmt.Errorf("unsupported content type %s: %w", mime.String(), chat_errors.ErrInvalidInput)
	}
	return data, mime, nil
}
