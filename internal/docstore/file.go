// SPDX-License-Identifier: MIT

package docstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chrootRISCassembler/GameInfo/internal/fsutil"
	gilog "github.com/chrootRISCassembler/GameInfo/internal/log"
	"github.com/google/renameio/v2"
)

// FileStore keeps documents as files. With a non-empty root every location
// is resolved beneath it; with an empty root locations are plain paths.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at root, creating the directory
// if needed.
func NewFileStore(root string) (*FileStore, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o750); err != nil {
			return nil, fmt.Errorf("create store root: %w", err)
		}
	}
	return &FileStore{root: root}, nil
}

// Root returns the directory locations are confined to, or "" when
// unconfined.
func (s *FileStore) Root() string { return s.root }

// Resolve maps a location to the file path it is stored at.
func (s *FileStore) Resolve(location string) (string, error) {
	if s.root == "" {
		if location == "" {
			return "", fmt.Errorf("empty location")
		}
		return filepath.Clean(location), nil
	}
	return fsutil.Confine(s.root, location)
}

// ReadText returns the full contents of the file at location.
func (s *FileStore) ReadText(ctx context.Context, location string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.Resolve(location)
	if err != nil {
		return nil, err
	}
	if err := fsutil.IsRegularFile(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
		}
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path resolved above
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, location)
		}
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return data, nil
}

// WriteText replaces the file at location atomically: the data is written to
// a pending file, synced, then renamed over the target.
func (s *FileStore) WriteText(ctx context.Context, location string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := gilog.FromContext(ctx)

	path, err := s.Resolve(location)
	if err != nil {
		return err
	}
	if err := fsutil.IsRegularFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("write %s: %w", location, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str(gilog.FieldLocation, location).Msg("cleanup pending file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", location, err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", location, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }
