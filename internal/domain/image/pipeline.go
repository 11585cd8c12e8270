package image

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"pixelsage-server/internal/platform/errors"
)

// TempStore writes uploaded payloads to request-scoped temp files.
type TempStore struct {
	dir string
}

// NewTempStore ensures the temp directory exists.
func NewTempStore(dir string) (*TempStore, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.KindStorage, "temp_store", "create temp directory", err)
	}
	return &TempStore{dir: dir}, nil
}

// Save writes the reader to a uniquely named file, preserving the original
// extension. The returned cleanup removes the file and is safe to defer.
func (s *TempStore) Save(filename string, r io.Reader) (string, func(), error) {
	ext := strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(s.dir, uuid.NewString()+ext)

	f, err := os.Create(path)
	if err != nil {
		return "", nil, errors.Wrap(errors.KindStorage, "temp_save", "create temp file", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, errors.Wrap(errors.KindStorage, "temp_save", "write temp file", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, errors.Wrap(errors.KindStorage, "temp_save", "close temp file", err)
	}

	cleanup := func() {
		os.Remove(path)
	}
	return path, cleanup, nil
}
