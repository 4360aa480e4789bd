package assets

import (
	"context"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/cockroachdb/errors"
	"google.golang.org/api/option"
)

// GCSStore uploads assets to a Cloud Storage bucket. The asset directory is
// used as the object prefix.
type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSStore, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("asset bucket is not configured")
	}
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create storage client")
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// EnsureDir is a no-op: object stores have no directories.
func (s *GCSStore) EnsureDir(context.Context, string) error {
	return nil
}

func (s *GCSStore) CopyFile(ctx context.Context, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "open %s", src)
	}
	defer in.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	key := objectKey(dst)
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(key)))
	if _, err := io.Copy(w, in); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "upload %s to gs://%s/%s", src, s.bucket, key)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "finish upload gs://%s/%s", s.bucket, key)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func objectKey(dst string) string {
	key := path.Clean(filepath.ToSlash(dst))
	key = strings.TrimPrefix(key, "./")
	return strings.TrimLeft(key, "/")
}
