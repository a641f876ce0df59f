package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// S3Config carries the connection parameters for the S3 client. Credentials
// are resolved through the standard provider chain (environment, shared
// credentials file, IAM role) and are not a parameter this system manages.
type S3Config struct {
	Bucket string
	Region string
	// Endpoint overrides the AWS endpoint derived from Region, for
	// S3-compatible services.
	Endpoint string
	UseSSL   bool
	// MaxKeys bounds each listing round trip, not the total key count.
	MaxKeys int
	// DryRun makes Put perform every step except the network write.
	DryRun bool
}

// listPage is one listing round trip.
type listPage struct {
	objects   []ObjectInfo
	nextToken string
	truncated bool
}

// S3Client implements ObjectStorage against an S3 bucket. The raw transport
// calls are held as function fields so tests can substitute them without a
// network.
type S3Client struct {
	cfg S3Config
	log zerolog.Logger

	listPage  func(ctx context.Context, prefix, continuationToken string, maxKeys int) (listPage, error)
	getObject func(ctx context.Context, key string) (io.ReadCloser, error)
	putObject func(ctx context.Context, key string, data []byte, contentType string) error
}

// NewS3Client builds an ObjectStorage backed by the minio S3 client.
func NewS3Client(cfg S3Config, log zerolog.Logger) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket must be provided")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.MaxKeys < 1 {
		cfg.MaxKeys = 1000
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("s3.%s.amazonaws.com", cfg.Region)
	}
	endpoint = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")

	core, err := minio.NewCore(endpoint, &minio.Options{
		Creds: credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvAWS{},
			&credentials.FileAWSCredentials{},
			&credentials.IAM{},
		}),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	c := &S3Client{cfg: cfg, log: log}
	c.listPage = func(ctx context.Context, prefix, continuationToken string, maxKeys int) (listPage, error) {
		result, err := core.ListObjectsV2(cfg.Bucket, prefix, "", continuationToken, "", maxKeys)
		if err != nil {
			return listPage{}, err
		}
		page := listPage{
			nextToken: result.NextContinuationToken,
			truncated: result.IsTruncated,
		}
		for _, obj := range result.Contents {
			page.objects = append(page.objects, ObjectInfo{Key: obj.Key, Size: obj.Size})
		}
		return page, nil
	}
	c.getObject = func(ctx context.Context, key string) (io.ReadCloser, error) {
		reader, _, _, err := core.GetObject(ctx, cfg.Bucket, key, minio.GetObjectOptions{})
		return reader, err
	}
	c.putObject = func(ctx context.Context, key string, data []byte, contentType string) error {
		_, err := core.Client.PutObject(ctx, cfg.Bucket, key, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: contentType})
		return err
	}
	return c, nil
}

// List returns every object key under prefix, following continuation tokens
// until the listing is exhausted. MaxKeys bounds each round trip only.
func (c *S3Client) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	token := ""
	pages := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := c.listPage(ctx, prefix, token, c.cfg.MaxKeys)
		if err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", c.cfg.Bucket, prefix, classify(err))
		}
		objects = append(objects, page.objects...)
		pages++
		if !page.truncated {
			break
		}
		token = page.nextToken
	}

	c.log.Debug().
		Str("bucket", c.cfg.Bucket).
		Str("prefix", prefix).
		Int("keys", len(objects)).
		Int("pages", pages).
		Msg("listed remote objects")
	return objects, nil
}

// Fetch retrieves one object's full content, buffered in memory.
func (c *S3Client) Fetch(ctx context.Context, key string) ([]byte, error) {
	reader, err := c.getObject(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, classify(err))
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, classify(err))
	}
	return data, nil
}

// Put stores data at key with the given content type. In dry-run mode the
// network write is skipped and the key that would have been written is logged.
func (c *S3Client) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if c.cfg.DryRun {
		c.log.Info().
			Str("bucket", c.cfg.Bucket).
			Str("key", key).
			Str("content_type", contentType).
			Int("bytes", len(data)).
			Msg("dry run: would upload")
		return nil
	}

	if err := c.putObject(ctx, key, data, contentType); err != nil {
		return fmt.Errorf("put %s: %w", key, classify(err))
	}

	c.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("uploaded object")
	return nil
}

var _ ObjectStorage = (*S3Client)(nil)
