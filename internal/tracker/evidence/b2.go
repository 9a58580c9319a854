package evidence

import (
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
)

// B2 keeps objects in a Backblaze B2 bucket.
type B2 struct {
	Client *b2.Client
	Bucket *b2.Bucket
}

var (
	_ Storage = (*B2)(nil)
	_ Pinger  = (*B2)(nil)
)

// NewB2 connects to the account and opens an existing bucket.
func NewB2(ctx context.Context, accountID, appKey, bucketName string) (*B2, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("evidence: b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("evidence: b2 bucket %s: %w", bucketName, err)
	}

	return &B2{Client: client, Bucket: bucket}, nil
}

func (s *B2) Put(ctx context.Context, key, contentType string, r io.Reader) (int64, error) {
	if !ValidKey(key) {
		return 0, ErrInvalidKey
	}

	w := s.Bucket.Object(key).NewWriter(ctx).WithAttrs(&b2.Attrs{ContentType: contentType})
	n, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()
		return 0, fmt.Errorf("evidence: b2 write %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("evidence: b2 close %s: %w", key, err)
	}
	return n, nil
}

func (s *B2) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if !ValidKey(key) {
		return nil, ErrInvalidKey
	}

	obj := s.Bucket.Object(key)
	if _, err := obj.Attrs(ctx); err != nil {
		if b2.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("evidence: b2 attrs %s: %w", key, err)
	}
	return obj.NewReader(ctx), nil
}

func (s *B2) Delete(ctx context.Context, key string) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	if err := s.Bucket.Object(key).Delete(ctx); err != nil && !b2.IsNotExist(err) {
		return fmt.Errorf("evidence: b2 delete %s: %w", key, err)
	}
	return nil
}

// Ping lists at most one object to prove the credentials still work.
func (s *B2) Ping(ctx context.Context) error {
	iter := s.Bucket.List(ctx, b2.ListPageSize(1))
	iter.Next()
	if err := iter.Err(); err != nil {
		return fmt.Errorf("evidence: b2 list: %w", err)
	}
	return nil
}
