package blockstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/renameio"
	"github.com/rs/zerolog"

	"github.com/driftfs/driftfs/pkg/errdefs"
	"github.com/driftfs/driftfs/pkg/log"
)

// validBlockID keeps block ids usable as filenames (no separators, no
// traversal). Coordinator-issued ids are "<file-id>_<sequence>".
var validBlockID = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,128}$`)

// Store persists opaque block payloads on local disk, one file per block,
// filename = block-id. Blocks are written once and never mutated, so there
// is no cross-block indexing.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// New creates the block directory if needed and returns a store rooted there.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create block directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: log.WithComponent("blockstore"),
	}, nil
}

// Dir returns the configured block directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(blockID string) (string, error) {
	if !validBlockID.MatchString(blockID) {
		return "", errdefs.InvalidArgumentf("bad block id %q", blockID)
	}
	return filepath.Join(s.dir, blockID), nil
}

// WriteChunk appends one chunk of a block arriving on a write stream. The
// first chunk truncates any partial leftover from an aborted write.
func (s *Store) WriteChunk(blockID string, chunk []byte, first bool) error {
	path, err := s.path(blockID)
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if first {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open block %s: %w", blockID, err)
	}
	if _, err := f.Write(chunk); err != nil {
		f.Close()
		return fmt.Errorf("failed to write block %s: %w", blockID, err)
	}
	return f.Close()
}

// Open returns a reader over a stored block. The caller owns the close.
func (s *Store) Open(blockID string) (io.ReadCloser, error) {
	path, err := s.path(blockID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errdefs.NotFoundf("block %s", blockID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open block %s: %w", blockID, err)
	}
	return f, nil
}

// ReadChunks yields the stored block in chunks of at most chunkSize bytes,
// in file order, calling fn for each. fn must not retain the slice.
func (s *Store) ReadChunks(blockID string, chunkSize int, fn func([]byte) error) error {
	r, err := s.Open(blockID)
	if err != nil {
		return err
	}
	defer r.Close()

	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if ferr := fn(buf[:n]); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read block %s: %w", blockID, err)
		}
	}
}

// Size returns the stored length of a block.
func (s *Store) Size(blockID string) (int64, error) {
	path, err := s.path(blockID)
	if err != nil {
		return 0, err
	}
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return 0, errdefs.NotFoundf("block %s", blockID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to stat block %s: %w", blockID, err)
	}
	return fi.Size(), nil
}

// StoreBlock writes a whole block atomically. Used by the replication path
// so a follower never exposes a torn replica.
func (s *Store) StoreBlock(blockID string, data []byte) error {
	path, err := s.path(blockID)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to store block %s: %w", blockID, err)
	}
	s.logger.Debug().Str("block_id", blockID).Int("size", len(data)).Msg("Block stored")
	return nil
}

// Delete removes a block. Absence is not an error; the second return value
// reports whether the block was missing so callers can treat it as already
// deleted.
func (s *Store) Delete(blockID string) (missing bool, err error) {
	path, err := s.path(blockID)
	if err != nil {
		return false, err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete block %s: %w", blockID, err)
	}
	return false, nil
}

// Count returns the number of blocks currently stored. Served on the admin
// health endpoint.
func (s *Store) Count() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read block directory: %w", err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n, nil
}
