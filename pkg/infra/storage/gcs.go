package storage

import (
	"context"
	"errors"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

const contentType = "text/plain; charset=utf-8"

// GCS writes bodies as objects in a Cloud Storage bucket under a prefix
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS creates a GCS storage. The client is owned by the caller.
func NewGCS(client *storage.Client, bucket, prefix string) *GCS {
	return &GCS{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}
}

// Prepare checks that the bucket exists. Buckets are never created here.
func (x *GCS) Prepare(ctx context.Context) error {
	if _, err := x.client.Bucket(x.bucket).Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrBucketNotExist) {
			return goerr.Wrap(err, "output bucket does not exist", goerr.V("bucket", x.bucket))
		}
		return goerr.Wrap(err, "failed to get bucket attributes", goerr.V("bucket", x.bucket))
	}
	return nil
}

// Put uploads body to gs://bucket/prefix/name, replacing an existing object
func (x *GCS) Put(ctx context.Context, name string, body []byte) error {
	objName := x.objectName(name)

	w := x.client.Bucket(x.bucket).Object(objName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(body); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object",
			goerr.V("bucket", x.bucket),
			goerr.V("object", objName),
		)
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to close object writer",
			goerr.V("bucket", x.bucket),
			goerr.V("object", objName),
		)
	}

	return nil
}

// Location returns the gs:// URI for name
func (x *GCS) Location(name string) string {
	return "gs://" + x.bucket + "/" + x.objectName(name)
}

func (x *GCS) objectName(name string) string {
	if x.prefix == "" {
		return name
	}
	return path.Join(x.prefix, name)
}
