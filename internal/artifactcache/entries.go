package artifactcache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Entry describes one cached artifact.
type Entry struct {
	Class       string
	Fingerprint string
	Path        string
	Size        int64
	ModTime     time.Time
}

// Entries lists cached artifacts, newest first.
func (s *Store) Entries() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read cache dir: %w", err)
	}
	var entries []Entry
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, entryExt) || strings.HasPrefix(name, ".") {
			continue
		}
		class, fingerprint, ok := strings.Cut(strings.TrimSuffix(name, entryExt), "_")
		if !ok || validateKey(class, fingerprint) != nil {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Class:       class,
			Fingerprint: fingerprint,
			Path:        filepath.Join(s.root, name),
			Size:        info.Size(),
			ModTime:     info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].Fingerprint < entries[j].Fingerprint
		}
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}
