// Package whisper wraps the Whisper speech-to-text CLI.
//
// The service runs one transcription per invocation inside a caller-owned
// working directory, reads the JSON file Whisper writes next to the input stem,
// and normalizes it into ordered, trimmed segments. The canonical encoding of
// those segments is what the artifact cache stores and the renderer reads.
package whisper
