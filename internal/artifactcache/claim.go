package artifactcache

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"kinetic/internal/logging"
)

const claimRetryDelay = 100 * time.Millisecond

// Claim blocks until this caller holds the compute lock for (class,
// fingerprint) or ctx is done. The returned release function is idempotent.
func (s *Store) Claim(ctx context.Context, class, fingerprint string) (func(), error) {
	if err := validateKey(class, fingerprint); err != nil {
		return nil, err
	}
	lockPath := filepath.Join(s.root, class+"_"+fingerprint+".lock")
	lock := flock.New(lockPath)

	ok, err := lock.TryLockContext(ctx, claimRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("claim %s: %w", filepath.Base(lockPath), err)
	}
	if !ok {
		return nil, fmt.Errorf("claim %s: lock not acquired", filepath.Base(lockPath))
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("cache claim release failed",
				logging.String(logging.FieldEventType, "cache_claim_release_failed"),
				logging.String("lock", lockPath),
				logging.Error(err))
		}
	}, nil
}
