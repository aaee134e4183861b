// Package daemon coordinates the long-running kinetic process.
//
// It wires configuration, the record store, the job queue, and the workflow
// manager into a single lifecycle with flock-based locking to prevent multiple
// instances, and serves the HTTP API on the configured bind address. Status
// reporting aggregates worker state, engine dependency checks, and preflight
// results for API consumers.
//
// Keep orchestration logic here: pipeline stages live in internal/pipeline and
// job bookkeeping in internal/workflow while the daemon focuses on startup,
// shutdown, and high level coordination.
package daemon
