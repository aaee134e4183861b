package whisper

// Config captures runtime settings for Whisper invocations.
type Config struct {
	// Binary is the whisper executable (name on PATH or absolute path).
	Binary string
	// Model is the Whisper model name (e.g., "small").
	Model string
	// Language is the language hint passed to the model.
	Language string
}

// Whisper defaults.
const (
	DefaultBinary   = "whisper"
	DefaultModel    = "small"
	DefaultLanguage = "fa"
	OutputFormat    = "json"
	Task            = "transcribe"
)
