package artifactcache

import (
	"context"
	"fmt"
)

// ComputeFunc produces the artifact bytes on a cache miss.
type ComputeFunc func(ctx context.Context) ([]byte, error)

// GetOrCompute returns the cached bytes for (class, fingerprint), computing and
// storing them on a miss. The boolean reports whether the value came from the
// cache. Concurrent callers for the same key compute at most once; a compute
// error stores nothing. Each call counts as exactly one cache lookup.
func (s *Store) GetOrCompute(ctx context.Context, class, fingerprint string, compute ComputeFunc) ([]byte, bool, error) {
	data, ok, err := s.read(class, fingerprint)
	if err != nil {
		return nil, false, err
	}
	if ok {
		recordLookup(class, true)
		return data, true, nil
	}

	release, err := s.Claim(ctx, class, fingerprint)
	if err != nil {
		return nil, false, err
	}
	defer release()

	// Another holder may have filled the entry while we waited.
	data, ok, err = s.read(class, fingerprint)
	if err != nil {
		return nil, false, err
	}
	recordLookup(class, ok)
	if ok {
		return data, true, nil
	}

	data, err = compute(ctx)
	if err != nil {
		return nil, false, err
	}
	if err := s.Put(class, fingerprint, data); err != nil {
		return nil, false, fmt.Errorf("store %s artifact: %w", class, err)
	}
	return data, false, nil
}
