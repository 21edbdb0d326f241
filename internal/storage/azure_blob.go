package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"
)

// BlobStorage keeps inspection photos in a single Azure Blob container
type BlobStorage struct {
	client    *azblob.Client
	container string
	logger    *zap.Logger
}

// NewBlobStorage accepts either a connection string or a plain account URL
// such as https://glanzwerk.blob.core.windows.net. For a URL the managed
// identity or developer login is picked up through azidentity.
func NewBlobStorage(ctx context.Context, target, container string, logger *zap.Logger) (*BlobStorage, error) {
	client, err := newBlobClient(target)
	if err != nil {
		return nil, err
	}

	if _, err := client.CreateContainer(ctx, container, nil); err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container %q: %w", container, err)
	}

	logger = logger.Named("blob").With(zap.String("container", container))
	logger.Info("blob storage ready")
	return &BlobStorage{client: client, container: container, logger: logger}, nil
}

func newBlobClient(target string) (*azblob.Client, error) {
	if strings.HasPrefix(target, "https://") {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve azure credential: %w", err)
		}
		client, err := azblob.NewClient(target, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client: %w", err)
		}
		return client, nil
	}
	client, err := azblob.NewClientFromConnectionString(target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	return client, nil
}

// Upload streams data to a new blob and keeps the caller's filename as metadata
func (s *BlobStorage) Upload(ctx context.Context, folder, filename, contentType string, data io.Reader) (string, int64, error) {
	key := objectKey(folder, filename)
	counted := &byteCounter{r: data}
	original := filename

	_, err := s.client.UploadStream(ctx, s.container, key, counted, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
		Metadata:    map[string]*string{"filename": &original},
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	s.logger.Debug("photo uploaded", zap.String("key", key), zap.Int64("size", counted.n))
	return key, counted.n, nil
}

func (s *BlobStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	return resp.Body, nil
}

// Delete is idempotent
func (s *BlobStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteBlob(ctx, s.container, key, nil)
	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	s.logger.Debug("photo deleted", zap.String("key", key))
	return nil
}

type byteCounter struct {
	r io.Reader
	n int64
}

func (c *byteCounter) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
