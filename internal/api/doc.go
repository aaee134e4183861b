// Package api exposes kinetic over HTTP and provides the matching client.
//
// The router is built with go-chi and serves JSON under /api, a liveness probe
// at /healthz, and Prometheus metrics at /metrics. When an API token is
// configured every route except /healthz requires "Authorization: Bearer
// <token>". Payload types in this package are shared by the daemon and the
// CLI so both sides agree on the wire format.
package api
