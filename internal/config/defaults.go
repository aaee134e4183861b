package config

const (
	defaultConfigPath          = "~/.config/kinetic/config.toml"
	defaultDataDir             = "~/.local/share/kinetic"
	defaultWorkDir             = "~/.local/share/kinetic/work"
	defaultOutputDir           = "~/.local/share/kinetic/output"
	defaultLogDir              = "~/.local/share/kinetic/logs"
	defaultAPIBind             = "127.0.0.1:7488"
	defaultTranscriptionBinary = "whisper"
	defaultTranscriptionModel  = "small"
	defaultTranscriptionLang   = "fa"
	defaultBeatsBinary         = "aubio"
	defaultRenderBinary        = "manim"
	defaultRenderSceneFile     = "~/.config/kinetic/motion.py"
	defaultRenderSceneName     = "FarsiKinetic"
	defaultRenderQuality       = "h"
	defaultCompositeBinary     = "ffmpeg"
	defaultQueueBackend        = QueueBackendMemory
	defaultRedisAddr           = "127.0.0.1:6379"
	defaultRedisKey            = "kinetic:jobs"
	defaultErrorRetryInterval  = 5
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogMaxSizeMB        = 50
	defaultLogMaxBackups       = 5
	defaultLogMaxAgeDays       = 30
)

// Queue backend identifiers.
const (
	QueueBackendMemory = "memory"
	QueueBackendRedis  = "redis"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			CacheDir:  defaultCacheDir(),
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Transcription: Transcription{
			Binary:   defaultTranscriptionBinary,
			Model:    defaultTranscriptionModel,
			Language: defaultTranscriptionLang,
		},
		Beats: Beats{
			Binary: defaultBeatsBinary,
		},
		Render: Render{
			Binary:    defaultRenderBinary,
			SceneFile: defaultRenderSceneFile,
			SceneName: defaultRenderSceneName,
			Quality:   defaultRenderQuality,
		},
		Composite: Composite{
			Binary: defaultCompositeBinary,
		},
		Queue: Queue{
			Backend:   defaultQueueBackend,
			RedisAddr: defaultRedisAddr,
			RedisKey:  defaultRedisKey,
		},
		Workflow: Workflow{
			ErrorRetryInterval: defaultErrorRetryInterval,
			RecoverOnStartup:   true,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
			Compress:   true,
		},
	}
}
