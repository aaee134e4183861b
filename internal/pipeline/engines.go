package pipeline

import (
	"context"

	"kinetic/internal/config"
	"kinetic/internal/services/aubio"
	"kinetic/internal/services/command"
	"kinetic/internal/services/ffmpeg"
	"kinetic/internal/services/manim"
	"kinetic/internal/services/whisper"
	"kinetic/internal/stage"
)

// Transcriber produces a normalized transcript for an audio file.
type Transcriber interface {
	stage.HealthChecker
	Transcribe(ctx context.Context, audioPath, workDir string) (whisper.Transcript, error)
}

// BeatDetector produces sorted beat timestamps for an audio file.
type BeatDetector interface {
	stage.HealthChecker
	DetectBeats(ctx context.Context, audioPath, workDir string) (aubio.Beats, error)
}

// Renderer renders the overlay video and returns its path.
type Renderer interface {
	stage.HealthChecker
	Render(ctx context.Context, req manim.RenderRequest) (string, error)
}

// Compositor merges base video, overlay, and audio into the final video.
type Compositor interface {
	stage.HealthChecker
	Composite(ctx context.Context, req ffmpeg.CompositeRequest) (string, error)
}

// Engines bundles the external engine adapters.
type Engines struct {
	Transcriber  Transcriber
	BeatDetector BeatDetector
	Renderer     Renderer
	Compositor   Compositor
}

// NewEngines builds the adapters from configuration. A nil runner executes
// real processes.
func NewEngines(cfg *config.Config, runner command.Runner) Engines {
	return Engines{
		Transcriber: whisper.NewService(whisper.Config{
			Binary:   cfg.Transcription.Binary,
			Model:    cfg.Transcription.Model,
			Language: cfg.Transcription.Language,
		}, runner),
		BeatDetector: aubio.NewService(cfg.Beats.Binary, runner),
		Renderer: manim.NewService(manim.Config{
			Binary:    cfg.Render.Binary,
			SceneFile: cfg.Render.SceneFile,
			SceneName: cfg.Render.SceneName,
			Quality:   cfg.Render.Quality,
		}, runner),
		Compositor: ffmpeg.NewService(cfg.Composite.Binary, runner),
	}
}

// HealthCheckers returns the adapters in stage order.
func (e Engines) HealthCheckers() []stage.HealthChecker {
	return []stage.HealthChecker{e.Transcriber, e.BeatDetector, e.Renderer, e.Compositor}
}
