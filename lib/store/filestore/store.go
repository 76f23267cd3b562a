package filestore

import (
	"fmt"
	"github.com/ValentinKolb/mllp/lib/store"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// DefaultPrefix is used for file names when no prefix is configured
	DefaultPrefix = "MSG"
	// Extension is appended to every stored file
	Extension = ".hl7"

	// maxCollisions bounds the suffix search for payloads stored in the same microsecond
	maxCollisions = 1000
)

// FileSink writes every payload into its own file
type FileSink struct {
	dir    string
	prefix string
	now    func() time.Time
	mu     sync.Mutex // serializes name allocation and writes
}

// NewFileSink creates a file sink writing to dir. The directory is created if it
// does not exist. An empty prefix falls back to DefaultPrefix.
func NewFileSink(dir, prefix string) (*FileSink, error) {
	if dir == "" {
		return nil, store.NewError(store.RetCInvalidOperation, "no directory configured", nil)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("failed to create directory %s", dir), err)
	}

	return &FileSink{
		dir:    dir,
		prefix: prefix,
		now:    time.Now,
	}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store.ISink)
// --------------------------------------------------------------------------

func (s *FileSink) GetName() string {
	return "file"
}

func (s *FileSink) Store(payload []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.baseName(s.now())

	for i := 0; i < maxCollisions; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s_%d", base, i)
		}
		path := filepath.Join(s.dir, name+Extension)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", store.NewError(store.RetCInternalError, fmt.Sprintf("failed to create %s", path), err)
		}

		if _, err := f.Write(payload); err != nil {
			_ = f.Close()
			return "", store.NewError(store.RetCInternalError, fmt.Sprintf("failed to write %s", path), err)
		}
		if err := f.Close(); err != nil {
			return "", store.NewError(store.RetCInternalError, fmt.Sprintf("failed to close %s", path), err)
		}

		store.Logger.Debugf("Message saved to %s", path)
		return path, nil
	}

	return "", store.NewError(store.RetCInternalError, fmt.Sprintf("no free file name for %s", base), nil)
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// baseName formats <prefix>_<YYYYMMDD_HHMMSS_micro>
func (s *FileSink) baseName(t time.Time) string {
	return fmt.Sprintf("%s_%s_%06d", s.prefix, t.Format("20060102_150405"), t.Nanosecond()/1000)
}
