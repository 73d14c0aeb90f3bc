package missions

import (
	"context"
	"fmt"
	"io"
)

type objectStore interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, payload io.Reader) (string, error)
}

// BucketUploader binds an object store to the configured photo bucket so the
// service never handles bucket names.
type BucketUploader struct {
	store  objectStore
	bucket string
}

// NewBucketUploader validates the bucket binding.
func NewBucketUploader(store objectStore, bucket string) (*BucketUploader, error) {
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket name required")
	}
	return &BucketUploader{store: store, bucket: bucket}, nil
}

// UploadObject stores the payload in the photo bucket and returns its public URL.
func (u *BucketUploader) UploadObject(ctx context.Context, object, contentType string, payload io.Reader) (string, error) {
	return u.store.UploadObject(ctx, u.bucket, object, contentType, payload)
}
