package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const BucketProductImages = "product-images"

var ErrInvalidPath = errors.New("invalid object path")

type ObjectStore interface {
	Upload(ctx context.Context, bucket, objectPath string, r io.Reader) error
	PublicURL(bucket, objectPath string) string
}

// localStore keeps objects under dir/<bucket>/<path>; the HTTP server serves dir at baseURL.
type localStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) ObjectStore {
	return &localStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func clean(bucket, objectPath string) (string, error) {
	p := path.Clean("/" + bucket + "/" + objectPath)
	if bucket == "" || objectPath == "" || strings.Contains(objectPath, "..") {
		return "", ErrInvalidPath
	}
	return p, nil
}

func (s *localStore) Upload(ctx context.Context, bucket, objectPath string, r io.Reader) error {
	p, err := clean(bucket, objectPath)
	if err != nil {
		return err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create bucket dir: %w", err)
	}

	// O_EXCL: an object path is written once
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create object: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return fmt.Errorf("write object: %w", err)
	}

	if err := ctx.Err(); err != nil {
		f.Close()
		os.Remove(target)
		return err
	}

	return f.Close()
}

func (s *localStore) PublicURL(bucket, objectPath string) string {
	u := s.baseURL + "/" + url.PathEscape(bucket)
	for _, seg := range strings.Split(objectPath, "/") {
		u += "/" + url.PathEscape(seg)
	}
	return u
}
