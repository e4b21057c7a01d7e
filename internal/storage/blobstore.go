package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrFileTooLarge = errors.New("uploaded file exceeds the size limit")

// BlobStore accepts an image payload and returns a stable URL. The upload
// must complete before any card row referencing the URL is written; Remove
// takes a stored upload back out when that write never happens.
type BlobStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, url string) error
}

// LocalStore keeps uploads on the local disk and serves them under a base
// URL from the same process.
type LocalStore struct {
	dir     string
	baseURL string
	maxSize int64
}

func NewLocalStore(dir, baseURL string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

// Dir returns the directory uploads are written to, for static file serving.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close()

	// LimitReader with one extra byte so an oversized payload is detectable
	written, err := io.Copy(file, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if written > s.maxSize {
		os.Remove(path)
		return "", ErrFileTooLarge
	}

	log.WithField("file", name).Debug("stored uploaded image")
	return s.baseURL + "/" + name, nil
}

// Remove deletes an upload previously returned by Save.
func (s *LocalStore) Remove(_ context.Context, url string) error {
	name := strings.TrimPrefix(url, s.baseURL+"/")
	// only names Save can produce, no path traversal
	if name == url || name == "" || name != filepath.Base(name) {
		return fmt.Errorf("not a managed upload: %s", url)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("remove upload: %w", err)
	}
	log.WithField("file", name).Debug("removed uploaded image")
	return nil
}
