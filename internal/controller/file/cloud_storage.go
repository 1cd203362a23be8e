package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"campus-portal-backend/internal/config"
)

// StorageClient stores uploaded objects and returns the URL each one is served from.
type StorageClient interface {
	UploadFile(ctx context.Context, objectName string, contentType string, fileData io.Reader) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// CloudStorageClient keeps objects in a Google Cloud Storage bucket.
type CloudStorageClient struct {
	BucketName    string
	PublicBaseURL string
	Client        *storage.Client
}

// NewCloudStorageClient authenticates with the credentials file when one is configured
// and with application default credentials otherwise.
func NewCloudStorageClient(ctx context.Context, cfg config.StorageConfig) (*CloudStorageClient, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read storage credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, raw, storage.ScopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("failed to parse storage credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		base = "https://storage.googleapis.com/" + cfg.Bucket
	}

	return &CloudStorageClient{
		BucketName:    cfg.Bucket,
		PublicBaseURL: strings.TrimRight(base, "/"),
		Client:        client,
	}, nil
}

func (c *CloudStorageClient) UploadFile(ctx context.Context, objectName string, contentType string, fileData io.Reader) (string, error) {
	wc := c.Client.Bucket(c.BucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, fileData); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to write data to object: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close object writer: %w", err)
	}
	return c.PublicBaseURL + "/" + objectName, nil
}

func (c *CloudStorageClient) DeletePrefix(ctx context.Context, prefix string) error {
	bucket := c.Client.Bucket(c.BucketName)
	it := bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list objects: %w", err)
		}
		if err := bucket.Object(attrs.Name).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("failed to delete %s: %w", attrs.Name, err)
		}
	}
}

// Close releases the underlying client.
func (c *CloudStorageClient) Close() error {
	return c.Client.Close()
}
