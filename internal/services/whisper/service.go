package whisper

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"kinetic/internal/services"
	"kinetic/internal/services/command"
	"kinetic/internal/stage"
)

// Transcript is the normalized result of one transcription.
type Transcript struct {
	Segments []Segment
	// Path is the Whisper JSON file the segments were read from.
	Path string
}

// Service provides Whisper transcription.
type Service struct {
	cfg    Config
	runner command.Runner
}

// NewService creates a Whisper service. A nil runner executes real processes.
func NewService(cfg Config, runner command.Runner) *Service {
	if strings.TrimSpace(cfg.Binary) == "" {
		cfg.Binary = DefaultBinary
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = DefaultLanguage
	}
	return &Service{cfg: cfg, runner: command.Default(runner)}
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Transcribe runs Whisper on audioPath, writing its output into workDir.
func (s *Service) Transcribe(ctx context.Context, audioPath, workDir string) (Transcript, error) {
	if strings.TrimSpace(audioPath) == "" {
		return Transcript{}, services.Wrap(services.ErrValidation, stage.Transcript, "transcribe", "audio path required", nil)
	}
	if workDir == "" {
		return Transcript{}, services.Wrap(services.ErrConfiguration, stage.Transcript, "transcribe", "working directory required", nil)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Transcript{}, services.Wrap(services.ErrConfiguration, stage.Transcript, "ensure work dir", workDir, err)
	}

	cmd := command.Command{Name: s.cfg.Binary, Args: s.buildArgs(audioPath, workDir), Dir: workDir}
	res, err := s.runner.Run(ctx, cmd)
	if err != nil {
		return Transcript{}, services.Wrap(services.ErrExternalTool, stage.Transcript, "run whisper",
			"Transcription engine failed", command.AsFailure("whisper", cmd, res, err))
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(workDir, stem+".json")
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return Transcript{}, services.Wrap(services.ErrExternalTool, stage.Transcript, "read whisper output",
			"Transcription output missing or unreadable", err)
	}
	return Transcript{Segments: segments, Path: jsonPath}, nil
}

// HealthCheck reports whether the Whisper binary is resolvable.
func (s *Service) HealthCheck(context.Context) stage.Health {
	return stage.CheckBinary(stage.Transcript, s.cfg.Binary)
}

func (s *Service) buildArgs(audioPath, outputDir string) []string {
	return []string{
		audioPath,
		"--model", s.cfg.Model,
		"--language", s.cfg.Language,
		"--task", Task,
		"--fp16", "False",
		"--output_format", OutputFormat,
		"--output_dir", outputDir,
	}
}
