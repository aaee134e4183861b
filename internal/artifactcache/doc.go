// Package artifactcache stores derived pipeline artifacts keyed by the
// content fingerprint of the source audio.
//
// Each entry is a single file named <class>_<fingerprint>.json under the cache
// root. Writes go through a temp file and rename, so a reader sees either the
// previous bytes or the new bytes, never a partial file. Entries are never
// evicted; removing the directory is the supported way to reset the cache.
//
// Claim takes a per-entry advisory file lock (<class>_<fingerprint>.lock) so at
// most one computation runs for a given fingerprint at a time, including across
// processes sharing the cache directory.
package artifactcache
