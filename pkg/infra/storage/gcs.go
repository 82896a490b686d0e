package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"sync"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// GCS stores each key as the object <prefix>/<key>.json in a bucket
type GCS struct {
	bucket string
	prefix string

	mu     sync.Mutex
	client *storage.Client
}

// NewGCS creates a Cloud Storage backend. The client is created on first use.
func NewGCS(bucket, prefix string) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("GCS bucket is empty")
	}
	return &GCS{bucket: bucket, prefix: prefix}, nil
}

func (x *GCS) object(key string) string {
	return path.Join(x.prefix, key+".json")
}

func (x *GCS) connect(ctx context.Context) (*storage.Client, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.client != nil {
		return x.client, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}
	x.client = client
	return client, nil
}

func (x *GCS) Get(ctx context.Context, key string) ([]byte, error) {
	client, err := x.connect(ctx)
	if err != nil {
		return nil, err
	}

	r, err := client.Bucket(x.bucket).Object(x.object(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to open object",
			goerr.V("bucket", x.bucket),
			goerr.V("object", x.object(key)),
		)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("object", x.object(key)))
	}
	return data, nil
}

func (x *GCS) Put(ctx context.Context, key string, value []byte) error {
	client, err := x.connect(ctx)
	if err != nil {
		return err
	}

	w := client.Bucket(x.bucket).Object(x.object(key)).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(value); err != nil {
		w.Close()
		return goerr.Wrap(err, "failed to write object", goerr.V("object", x.object(key)))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize object",
			goerr.V("bucket", x.bucket),
			goerr.V("object", x.object(key)),
		)
	}
	return nil
}

// Close closes the client if it was created
func (x *GCS) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.client == nil {
		return nil
	}
	err := x.client.Close()
	x.client = nil
	return err
}
