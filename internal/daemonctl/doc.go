// Package daemonctl launches, stops, and inspects the kinetic daemon from the
// CLI side through its HTTP API.
package daemonctl
