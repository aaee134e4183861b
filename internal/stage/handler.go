package stage

import "context"

// Names of the pipeline stages, in execution order.
const (
	Fingerprint = "fingerprint"
	Transcript  = "transcript"
	Beats       = "beats"
	Render      = "render"
	Composite   = "composite"
)

// Ordered lists the stages in the order the executor runs them.
var Ordered = []string{Fingerprint, Transcript, Beats, Render, Composite}

// HealthChecker is implemented by every engine adapter the pipeline drives.
type HealthChecker interface {
	HealthCheck(context.Context) Health
}

// Health reports whether an engine adapter can run its stage.
type Health struct {
	Name   string
	Ready  bool
	Detail string
	// Binary is the resolved executable path; empty unless Ready.
	Binary string
}

// Healthy records a ready stage backed by the executable at binary.
func Healthy(name, binary string) Health {
	return Health{Name: name, Ready: true, Binary: binary}
}

// Unhealthy records a stage that cannot run, with the reason in detail.
func Unhealthy(name, detail string) Health {
	return Health{Name: name, Detail: detail}
}
