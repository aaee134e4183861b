// Package ffmpeg composites the rendered overlay onto the base video with the
// original audio track.
package ffmpeg

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"kinetic/internal/fileutil"
	"kinetic/internal/services"
	"kinetic/internal/services/command"
	"kinetic/internal/stage"
)

// DefaultBinary is the ffmpeg executable name.
const DefaultBinary = "ffmpeg"

// OverlayFilter centres the overlay over the (looped) base video.
const OverlayFilter = "[1:v]scale=iw:-1[fg];[0:v][fg]overlay=(W-w)/2:(H-h)/2:format=auto[vout]"

// CompositeRequest names the inputs and the output of one composite.
type CompositeRequest struct {
	BaseVideo string
	Overlay   string
	Audio     string
	Output    string
	// WorkDir, when set, is used as the process working directory.
	WorkDir string
}

// Service runs ffmpeg composites.
type Service struct {
	binary string
	runner command.Runner
}

// NewService creates an ffmpeg service. A nil runner executes real processes.
func NewService(binary string, runner command.Runner) *Service {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	return &Service{binary: binary, runner: command.Default(runner)}
}

// Composite writes req.Output and returns its path once it exists and is non-empty.
func (s *Service) Composite(ctx context.Context, req CompositeRequest) (string, error) {
	if req.BaseVideo == "" || req.Overlay == "" || req.Audio == "" || req.Output == "" {
		return "", services.Wrap(services.ErrValidation, stage.Composite, "composite", "base video, overlay, audio, and output are required", nil)
	}
	if err := os.MkdirAll(filepath.Dir(req.Output), 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, stage.Composite, "ensure output dir", filepath.Dir(req.Output), err)
	}

	cmd := command.Command{Name: s.binary, Args: BuildArgs(req), Dir: req.WorkDir}
	res, err := s.runner.Run(ctx, cmd)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, stage.Composite, "run ffmpeg",
			"Composite failed", command.AsFailure("ffmpeg", cmd, res, err))
	}
	if err := fileutil.RequireNonEmpty(req.Output); err != nil {
		return "", services.Wrap(services.ErrExternalTool, stage.Composite, "verify output", "", err)
	}
	return req.Output, nil
}

// BuildArgs returns the ffmpeg argument list for a composite.
func BuildArgs(req CompositeRequest) []string {
	return []string{
		"-y",
		"-stream_loop", "-1", "-i", req.BaseVideo,
		"-i", req.Overlay,
		"-i", req.Audio,
		"-filter_complex", OverlayFilter,
		"-map", "[vout]",
		"-map", "2:a",
		"-c:v", "libx264",
		"-c:a", "aac",
		"-shortest",
		req.Output,
	}
}

// HealthCheck reports whether the ffmpeg binary is resolvable.
func (s *Service) HealthCheck(context.Context) stage.Health {
	return stage.CheckBinary(stage.Composite, s.binary)
}
