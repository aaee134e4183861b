package deps

import (
	"strings"

	"kinetic/internal/stage"
)

// Requirement defines an external engine kinetic relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries resolves each requirement on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		health := stage.CheckBinary(req.Name, req.Command)
		results = append(results, Status{
			Name:        req.Name,
			Command:     strings.TrimSpace(req.Command),
			Path:        health.Binary,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
			Available:   health.Ready,
			Detail:      health.Detail,
		})
	}
	return results
}

// Missing returns the required dependencies that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			out = append(out, status)
		}
	}
	return out
}
