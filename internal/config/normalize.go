package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEngines()
	if err := c.normalizeRender(); err != nil {
		return err
	}
	c.normalizeQueue()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("KINETIC_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeEngines() {
	c.Transcription.Binary = strings.TrimSpace(c.Transcription.Binary)
	if c.Transcription.Binary == "" {
		c.Transcription.Binary = defaultTranscriptionBinary
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultTranscriptionModel
	}
	c.Transcription.Language = strings.ToLower(strings.TrimSpace(c.Transcription.Language))

	c.Beats.Binary = strings.TrimSpace(c.Beats.Binary)
	if c.Beats.Binary == "" {
		c.Beats.Binary = defaultBeatsBinary
	}
	c.Composite.Binary = strings.TrimSpace(c.Composite.Binary)
	if c.Composite.Binary == "" {
		c.Composite.Binary = defaultCompositeBinary
	}
}

func (c *Config) normalizeRender() error {
	var err error
	c.Render.Binary = strings.TrimSpace(c.Render.Binary)
	if c.Render.Binary == "" {
		c.Render.Binary = defaultRenderBinary
	}
	if strings.TrimSpace(c.Render.SceneFile) == "" {
		c.Render.SceneFile = defaultRenderSceneFile
	}
	if c.Render.SceneFile, err = expandPath(strings.TrimSpace(c.Render.SceneFile)); err != nil {
		return fmt.Errorf("render.scene_file: %w", err)
	}
	c.Render.SceneName = strings.TrimSpace(c.Render.SceneName)
	if c.Render.SceneName == "" {
		c.Render.SceneName = defaultRenderSceneName
	}
	c.Render.Quality = strings.ToLower(strings.TrimSpace(c.Render.Quality))
	if c.Render.Quality == "" {
		c.Render.Quality = defaultRenderQuality
	}
	return nil
}

func (c *Config) normalizeQueue() {
	c.Queue.Backend = strings.ToLower(strings.TrimSpace(c.Queue.Backend))
	if c.Queue.Backend == "" {
		c.Queue.Backend = defaultQueueBackend
	}
	c.Queue.RedisAddr = strings.TrimSpace(c.Queue.RedisAddr)
	if c.Queue.RedisAddr == "" {
		c.Queue.RedisAddr = defaultRedisAddr
	}
	c.Queue.RedisKey = strings.TrimSpace(c.Queue.RedisKey)
	if c.Queue.RedisKey == "" {
		c.Queue.RedisKey = defaultRedisKey
	}
	if c.Queue.RedisPassword == "" {
		if value, ok := os.LookupEnv("KINETIC_REDIS_PASSWORD"); ok {
			c.Queue.RedisPassword = value
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
}
