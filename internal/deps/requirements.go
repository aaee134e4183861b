package deps

import "kinetic/internal/config"

// EngineRequirements lists the external engines the pipeline invokes.
func EngineRequirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	return []Requirement{
		{Name: "Whisper", Command: cfg.Transcription.Binary, Description: "Transcribes speech into timed segments"},
		{Name: "Aubio", Command: cfg.Beats.Binary, Description: "Detects beat timestamps"},
		{Name: "Manim", Command: cfg.Render.Binary, Description: "Renders the kinetic text overlay"},
		{Name: "FFmpeg", Command: cfg.Composite.Binary, Description: "Composites overlay, base video, and audio"},
	}
}
