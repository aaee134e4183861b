// Package manim wraps the Manim renderer that produces the kinetic text overlay.
//
// Manim cannot be told the exact output file name, so each render runs in its
// own working directory with its own media directory. The newest file matching
// the scene name under that directory is therefore the output of this render.
package manim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"kinetic/internal/services"
	"kinetic/internal/services/command"
	"kinetic/internal/stage"
)

// Defaults for the render stage.
const (
	DefaultBinary    = "manim"
	DefaultSceneName = "FarsiKinetic"
	DefaultQuality   = "h"

	// Environment variables the scene reads its inputs from.
	EnvSegments = "KINETIC_SEGMENTS"
	EnvBeats    = "KINETIC_BEATS"
)

var validQualities = map[string]struct{}{"l": {}, "m": {}, "h": {}, "p": {}, "k": {}}

// ValidQuality reports whether q is a Manim quality flag suffix.
func ValidQuality(q string) bool {
	_, ok := validQualities[q]
	return ok
}

// Config captures renderer settings.
type Config struct {
	Binary    string
	SceneFile string
	SceneName string
	Quality   string
}

// RenderRequest describes one render.
type RenderRequest struct {
	// WorkDir is the per-invocation working directory; media is written beneath it.
	WorkDir      string
	SegmentsPath string
	BeatsPath    string
}

// Service renders overlays with Manim.
type Service struct {
	cfg    Config
	runner command.Runner
}

// NewService creates a Manim service. A nil runner executes real processes.
func NewService(cfg Config, runner command.Runner) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if strings.TrimSpace(cfg.SceneName) == "" {
		cfg.SceneName = DefaultSceneName
	}
	if !ValidQuality(cfg.Quality) {
		cfg.Quality = DefaultQuality
	}
	return &Service{cfg: cfg, runner: command.Default(runner)}
}

// Render invokes Manim and returns the path of the rendered overlay.
func (s *Service) Render(ctx context.Context, req RenderRequest) (string, error) {
	if req.WorkDir == "" {
		return "", services.Wrap(services.ErrConfiguration, stage.Render, "render", "working directory required", nil)
	}
	if strings.TrimSpace(s.cfg.SceneFile) == "" {
		return "", services.Wrap(services.ErrConfiguration, stage.Render, "render", "scene file not configured", nil)
	}
	if err := os.MkdirAll(req.WorkDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, stage.Render, "ensure work dir", req.WorkDir, err)
	}

	mediaDir := filepath.Join(req.WorkDir, "media")
	cmd := command.Command{
		Name: s.cfg.Binary,
		Args: []string{
			"-q" + s.cfg.Quality,
			"-t",
			"--media_dir", mediaDir,
			s.cfg.SceneFile,
			s.cfg.SceneName,
		},
		Dir: req.WorkDir,
		Env: []string{
			EnvSegments + "=" + req.SegmentsPath,
			EnvBeats + "=" + req.BeatsPath,
		},
	}
	res, err := s.runner.Run(ctx, cmd)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, stage.Render, "run manim",
			"Overlay render failed", command.AsFailure("manim", cmd, res, err))
	}

	output, err := s.findOutput(mediaDir)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, stage.Render, "locate overlay", "", err)
	}
	return output, nil
}

// OutputPattern returns the glob Manim output is discovered with.
func (s *Service) OutputPattern(mediaDir string) string {
	stem := strings.TrimSuffix(filepath.Base(s.cfg.SceneFile), filepath.Ext(s.cfg.SceneFile))
	return filepath.Join(mediaDir, "videos", stem, "*", s.cfg.SceneName+".*")
}

func (s *Service) findOutput(mediaDir string) (string, error) {
	pattern := s.OutputPattern(mediaDir)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}
	type candidate struct {
		path string
		mod  int64
	}
	candidates := make([]candidate, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		candidates = append(candidates, candidate{path: match, mod: info.ModTime().UnixNano()})
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no render output matching %s", pattern)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].mod < candidates[j].mod })
	return candidates[len(candidates)-1].path, nil
}

// HealthCheck reports whether the Manim binary is resolvable and the scene exists.
func (s *Service) HealthCheck(context.Context) stage.Health {
	health := stage.CheckBinary(stage.Render, s.cfg.Binary)
	if !health.Ready {
		return health
	}
	if _, err := os.Stat(s.cfg.SceneFile); err != nil {
		return stage.Unhealthy(stage.Render, fmt.Sprintf("scene file %q not readable", s.cfg.SceneFile))
	}
	return health
}
