package artifactcache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"kinetic/internal/fileutil"
	"kinetic/internal/logging"
	"kinetic/internal/metrics"
)

// Artifact classes.
const (
	ClassTranscript = "transcript"
	ClassBeats      = "beats"
)

const entryExt = ".json"

// ErrInvalidKey rejects class or fingerprint values that cannot form a file name.
var ErrInvalidKey = errors.New("invalid cache key")

// Store is a directory-backed artifact cache.
type Store struct {
	root   string
	logger *slog.Logger
}

// New creates a cache rooted at dir, creating the directory if needed.
func New(dir string, logger *slog.Logger) (*Store, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("cache directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Store{root: dir, logger: logging.NewComponentLogger(logger, "artifactcache")}, nil
}

// Root returns the cache directory.
func (s *Store) Root() string {
	return s.root
}

// Path returns the file location for an entry.
func (s *Store) Path(class, fingerprint string) (string, error) {
	if err := validateKey(class, fingerprint); err != nil {
		return "", err
	}
	return filepath.Join(s.root, class+"_"+fingerprint+entryExt), nil
}

// Get returns the exact bytes stored for (class, fingerprint) and counts one
// lookup.
func (s *Store) Get(class, fingerprint string) ([]byte, bool, error) {
	data, ok, err := s.read(class, fingerprint)
	if err != nil {
		return nil, false, err
	}
	recordLookup(class, ok)
	return data, ok, nil
}

func (s *Store) read(class, fingerprint string) ([]byte, bool, error) {
	path, err := s.Path(class, fingerprint)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	return data, true, nil
}

func recordLookup(class string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.CacheLookups.WithLabelValues(class, result).Inc()
}

// Put stores data for (class, fingerprint), replacing any previous value.
func (s *Store) Put(class, fingerprint string, data []byte) error {
	path, err := s.Path(class, fingerprint)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	s.logger.Debug("cache entry stored",
		logging.String("class", class),
		logging.String("fingerprint", fingerprint),
		logging.Int("bytes", len(data)))
	return nil
}

func validateKey(class, fingerprint string) error {
	if !validSegment(class) {
		return fmt.Errorf("%w: class %q", ErrInvalidKey, class)
	}
	if !validSegment(fingerprint) {
		return fmt.Errorf("%w: fingerprint %q", ErrInvalidKey, fingerprint)
	}
	return nil
}

func validSegment(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}
