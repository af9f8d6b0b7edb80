package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores files below Root and exposes them under PublicPath.
type Local struct {
	root       string
	publicPath string
}

// NewLocal creates the root directory if needed.
func NewLocal(root, publicPath string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Local{
		root:       root,
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}, nil
}

// Root returns the directory files are stored in.
func (l *Local) Root() string {
	return l.root
}

// PublicPath returns the URL prefix files are served under.
func (l *Local) PublicPath() string {
	return l.publicPath
}

func (l *Local) Upload(ctx context.Context, key string, content io.Reader) (int64, error) {
	p, err := l.path(key)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	n, err := io.Copy(f, content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	return n, nil
}

func (l *Local) Download(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return f, err
}

func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	p, err := l.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (l *Local) GetMetadata(_ context.Context, key string) (*FileInfo, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	st, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &FileInfo{Key: key, Size: st.Size(), ModifiedAt: st.ModTime()}, nil
}

func (l *Local) URL(key string) string {
	return path.Join(l.publicPath, key)
}

// KeyFromURL maps a public URL produced by URL back to its key.
func (l *Local) KeyFromURL(u string) (string, bool) {
	prefix := l.publicPath + "/"
	if !strings.HasPrefix(u, prefix) {
		return "", false
	}
	return strings.TrimPrefix(u, prefix), true
}

// path resolves key below root, rejecting keys that escape it.
func (l *Local) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
