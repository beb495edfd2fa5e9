// Package blob reads and writes exported store snapshots: a local file or an
// object in an S3 compatible bucket.
package blob

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Sink holds one snapshot. Get on a missing snapshot returns an error
// wrapping fs.ErrNotExist.
type Sink interface {
	Put(ctx context.Context, data []byte) error
	Get(ctx context.Context) ([]byte, error)
	String() string
}

// ErrTarget reports a target Open cannot interpret.
var ErrTarget = errors.New("invalid blob target")

// Open interprets target as s3://bucket/key, file:///path or a plain path.
// opts apply to S3 targets only.
func Open(ctx context.Context, target string, opts S3Config) (Sink, error) {
	if !strings.Contains(target, "://") {
		return &File{Path: target}, nil
	}
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTarget, err)
	}
	switch u.Scheme {
	case "file":
		return &File{Path: u.Path}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("%w: %s needs a bucket and a key", ErrTarget, target)
		}
		opts.Bucket = u.Host
		return NewS3(ctx, opts, key)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrTarget, u.Scheme)
	}
}

// File is a Sink on the local filesystem.
type File struct {
	Path string
}

func (f *File) String() string { return f.Path }

// Put replaces the file atomically, creating parent directories.
func (f *File) Put(_ context.Context, data []byte) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Get reads the file.
func (f *File) Get(_ context.Context) ([]byte, error) {
	return os.ReadFile(f.Path)
}
