// Package services defines shared utilities consumed by the pipeline stages
// and the external engine adapters beneath it.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that turn engine and input
//     failures into consistent, human-readable job error details.
//
// Engine adapters live in subpackages (command, whisper, aubio, manim,
// ffmpeg). Use these helpers when wiring new engine logic so operational
// behaviour stays uniform across the pipeline.
package services
