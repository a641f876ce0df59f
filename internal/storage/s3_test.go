package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePager serves a fixed key space in continuation-token pages, the way S3
// ListObjectsV2 does.
type fakePager struct {
	keys  []string
	calls int
}

func (p *fakePager) page(ctx context.Context, prefix, token string, maxKeys int) (listPage, error) {
	p.calls++
	start := 0
	if token != "" {
		fmt.Sscanf(token, "tok-%d", &start)
	}
	end := start + maxKeys
	if end > len(p.keys) {
		end = len(p.keys)
	}
	page := listPage{}
	for _, key := range p.keys[start:end] {
		page.objects = append(page.objects, ObjectInfo{Key: key})
	}
	if end < len(p.keys) {
		page.truncated = true
		page.nextToken = fmt.Sprintf("tok-%d", end)
	}
	return page, nil
}

func testClient(cfg S3Config) *S3Client {
	if cfg.Bucket == "" {
		cfg.Bucket = "test-bucket"
	}
	if cfg.MaxKeys < 1 {
		cfg.MaxKeys = 1000
	}
	return &S3Client{cfg: cfg, log: zerolog.Nop()}
}

func TestListFollowsPagination(t *testing.T) {
	keys := make([]string, 2500)
	for i := range keys {
		keys[i] = fmt.Sprintf("mini/documents/doc-%04d.pdf", i)
	}
	pager := &fakePager{keys: keys}

	c := testClient(S3Config{MaxKeys: 1000})
	c.listPage = pager.page

	objects, err := c.List(context.Background(), "mini/")
	require.NoError(t, err)
	assert.Len(t, objects, 2500)
	assert.Equal(t, 3, pager.calls)
	assert.Equal(t, "mini/documents/doc-0000.pdf", objects[0].Key)
	assert.Equal(t, "mini/documents/doc-2499.pdf", objects[2499].Key)
}

func TestListSinglePage(t *testing.T) {
	pager := &fakePager{keys: []string{"a", "b"}}
	c := testClient(S3Config{})
	c.listPage = pager.page

	objects, err := c.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, objects, 2)
	assert.Equal(t, 1, pager.calls)
}

func TestFetchBuffersWholeObject(t *testing.T) {
	c := testClient(S3Config{})
	c.getObject = func(ctx context.Context, key string) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader([]byte("pdf bytes"))), nil
	}

	data, err := c.Fetch(context.Background(), "mini/documents/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), data)
}

func TestFetchClassifiesNotFound(t *testing.T) {
	c := testClient(S3Config{})
	c.getObject = func(ctx context.Context, key string) (io.ReadCloser, error) {
		return nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "key does not exist"}
	}

	_, err := c.Fetch(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestFetchClassifiesAccessDenied(t *testing.T) {
	c := testClient(S3Config{})
	c.getObject = func(ctx context.Context, key string) (io.ReadCloser, error) {
		return nil, minio.ErrorResponse{Code: "AccessDenied", Message: "denied"}
	}

	_, err := c.Fetch(context.Background(), "forbidden")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestFetchClassifiesTransient(t *testing.T) {
	c := testClient(S3Config{})
	c.getObject = func(ctx context.Context, key string) (io.ReadCloser, error) {
		return nil, minio.ErrorResponse{Code: "SlowDown", Message: "throttled"}
	}

	_, err := c.Fetch(context.Background(), "busy")
	assert.True(t, IsTransient(err))
}

func TestPutDryRunSkipsNetworkWrite(t *testing.T) {
	c := testClient(S3Config{DryRun: true})
	writes := 0
	c.putObject = func(ctx context.Context, key string, data []byte, contentType string) error {
		writes++
		return nil
	}

	err := c.Put(context.Background(), "misc/documents/a.pdf", []byte("x"), "application/pdf")
	require.NoError(t, err)
	assert.Zero(t, writes)
}

func TestPutPassesContentType(t *testing.T) {
	c := testClient(S3Config{})
	var gotKey, gotType string
	c.putObject = func(ctx context.Context, key string, data []byte, contentType string) error {
		gotKey, gotType = key, contentType
		return nil
	}

	err := c.Put(context.Background(), "misc/images/cover.png", []byte("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "misc/images/cover.png", gotKey)
	assert.Equal(t, "image/png", gotType)
}

func TestPutWrapsFailure(t *testing.T) {
	c := testClient(S3Config{})
	c.putObject = func(ctx context.Context, key string, data []byte, contentType string) error {
		return errors.New("wire broke")
	}

	err := c.Put(context.Background(), "k", nil, "application/pdf")
	assert.ErrorContains(t, err, "put k")
}

func TestNewS3ClientRequiresBucket(t *testing.T) {
	_, err := NewS3Client(S3Config{}, zerolog.Nop())
	assert.Error(t, err)
}
