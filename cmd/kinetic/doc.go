// Command kinetic is the operator CLI for the kinetic daemon.
//
// Job, project, media, and status commands talk to the daemon's HTTP API
// (internal/api.Client). Configuration, dependency, and artifact cache
// commands work on local state and do not need a running daemon. The daemon
// itself can be run in the foreground with `kinetic daemon run` or launched in
// the background with `kinetic daemon start`.
package main
