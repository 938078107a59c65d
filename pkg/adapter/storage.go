package adapter

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotExist is returned by Storage.Get when the key has never been
// written. Callers treat it as a cache miss.
var ErrNotExist = goerr.New("object does not exist")

// Storage is a blob store for cached transcripts.
type Storage interface {
	// Put returns a writer that persists the object under key.
	Put(ctx context.Context, key string) (io.WriteCloser, error)
	// Get loads the object stored under key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// storageClient implements Storage on Cloud Storage.
type storageClient struct {
	bucketName string
	client     *storage.Client
}

// NewStorage creates a Cloud Storage backed Storage.
func NewStorage(ctx context.Context, bucketName string) (Storage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &storageClient{
		bucketName: bucketName,
		client:     client,
	}, nil
}

func (s *storageClient) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	return obj.NewWriter(ctx), nil
}

func (s *storageClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj := s.client.Bucket(s.bucketName).Object(key)
	reader, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(ErrNotExist, "no such object", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to read from storage", goerr.V("key", key))
	}
	return reader, nil
}

// localStorage implements Storage on a local directory.
type localStorage struct {
	dir string
}

// NewLocalStorage creates a Storage rooted at dir, creating it if needed.
func NewLocalStorage(dir string) (Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create cache directory", goerr.V("dir", dir))
	}
	return &localStorage{dir: dir}, nil
}

func (s *localStorage) Put(ctx context.Context, key string) (io.WriteCloser, error) {
	file, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create cache file", goerr.V("key", key))
	}
	return file, nil
}

func (s *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.dir, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrNotExist, "no such cache file", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to open cache file", goerr.V("key", key))
	}
	return file, nil
}
