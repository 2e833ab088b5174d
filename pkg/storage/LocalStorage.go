package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type LocalStorageConfig struct {
	MaxObjectBytes int64
	PublicBaseURL  string
	RootDir        string
}

/*
LocalStorage keeps uploads in a directory on disk. The website serves that
directory itself, which makes it suitable for demos and offline use.
*/
type LocalStorage struct {
	maxObjectBytes int64
	publicBaseURL  string
	rootDir        string
}

func NewLocalStorage(config LocalStorageConfig) LocalStorage {
	return LocalStorage{
		maxObjectBytes: config.MaxObjectBytes,
		publicBaseURL:  config.PublicBaseURL,
		rootDir:        config.RootDir,
	}
}

func (s LocalStorage) RootDir() string {
	return s.rootDir
}

func (s LocalStorage) Put(ctx context.Context, path string, body io.Reader, contentType string) error {
	var (
		err     error
		f       *os.File
		written int64
	)

	if err = ctx.Err(); err != nil {
		return err
	}

	fullPath, err := s.resolve(path)

	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("error creating folder for '%s': %w", path, err)
	}

	if f, err = os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrObjectExists, path)
		}

		return fmt.Errorf("error creating object '%s': %w", path, err)
	}

	reader := body

	if s.maxObjectBytes > 0 {
		reader = io.LimitReader(body, s.maxObjectBytes+1)
	}

	written, err = io.Copy(f, reader)
	closeErr := f.Close()

	if err == nil && s.maxObjectBytes > 0 && written > s.maxObjectBytes {
		err = fmt.Errorf("%w: object is larger than %d bytes", ErrStorageLimit, s.maxObjectBytes)
	}

	if err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(fullPath)

		if errors.Is(err, ErrStorageLimit) {
			return err
		}

		return fmt.Errorf("error writing object '%s': %w", path, err)
	}

	return nil
}

func (s LocalStorage) PublicURL(path string) string {
	return joinURL(s.publicBaseURL, path)
}

func (s LocalStorage) resolve(path string) (string, error) {
	cleaned := filepath.Clean("/" + filepath.FromSlash(path))

	if cleaned == string(filepath.Separator) || strings.Contains(path, "..") {
		return "", fmt.Errorf("invalid object path '%s'", path)
	}

	return filepath.Join(s.rootDir, cleaned), nil
}
