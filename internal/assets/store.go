package assets

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Store is the destination for migrated assets.
type Store interface {
	EnsureDir(ctx context.Context, dir string) error
	CopyFile(ctx context.Context, src, dst string) error
}

// LocalStore copies assets into a directory on disk.
type LocalStore struct{}

func NewLocalStore() *LocalStore {
	return &LocalStore{}
}

func (s *LocalStore) EnsureDir(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create asset directory %s", dir)
	}
	return nil
}

func (s *LocalStore) CopyFile(_ context.Context, src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "open %s", src)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".asset-*")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", dst)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "copy %s", src)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close temp file for %s", dst)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return errors.Wrapf(err, "move asset into %s", dst)
	}
	return nil
}

// NopStore accepts every call and touches nothing. Dry runs use it.
type NopStore struct{}

func (NopStore) EnsureDir(context.Context, string) error { return nil }
func (NopStore) CopyFile(context.Context, string, string) error { return nil }
