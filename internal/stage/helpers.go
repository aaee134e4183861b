package stage

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CheckBinary reports whether binary resolves on PATH for the named stage.
func CheckBinary(name, binary string) Health {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return Unhealthy(name, "command not configured")
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return Unhealthy(name, fmt.Sprintf("binary %q not found", binary))
	}
	return Healthy(name, path)
}

// CollectHealth runs HealthCheck on each checker, skipping nil entries.
func CollectHealth(ctx context.Context, checkers ...HealthChecker) []Health {
	out := make([]Health, 0, len(checkers))
	for _, checker := range checkers {
		if checker == nil {
			continue
		}
		out = append(out, checker.HealthCheck(ctx))
	}
	return out
}

// AllReady reports whether every health record is ready.
func AllReady(records []Health) bool {
	for _, record := range records {
		if !record.Ready {
			return false
		}
	}
	return true
}
