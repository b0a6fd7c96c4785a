package gcsstorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"treinoexpresso/cmd/internal/infrastructure/objectstore"
)

// Client reads and writes the Firebase Storage bucket the dashboard used before, which is a plain GCS bucket.
type Client struct {
	client *storage.Client
	bucket string
}

// NewClient uses credentialsJSON when given and the application default credentials otherwise.
func NewClient(ctx context.Context, bucket, credentialsJSON string) (*Client, error) {
	if bucket == "" {
		return nil, errors.New("GCS bucket name is empty")
	}

	var opts []option.ClientOption
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &Client{client: client, bucket: bucket}, nil
}

func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	r, err := c.client.Bucket(c.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", objectstore.ErrObjectNotFound, key)
		}
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

func (c *Client) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = objectstore.ContentType(key, data)
	}

	w := c.client.Bucket(c.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.client.Bucket(c.bucket).Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}

func (c *Client) SignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	return c.client.Bucket(c.bucket).SignedURL(key, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
		Scheme:  storage.SigningSchemeV4,
	})
}

func (c *Client) Close() error {
	return c.client.Close()
}
