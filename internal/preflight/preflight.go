package preflight

import (
	"context"
	"strings"

	"kinetic/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir),
		CheckFileReadable("Render scene", cfg.Render.SceneFile),
	}

	if strings.EqualFold(strings.TrimSpace(cfg.Queue.Backend), config.QueueBackendRedis) {
		results = append(results, CheckRedis(ctx, cfg.Queue.RedisAddr, cfg.Queue.RedisPassword, cfg.Queue.RedisDB))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
