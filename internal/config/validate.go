package config

import (
	"errors"
	"fmt"
	"strings"
)

var validRenderQualities = map[string]struct{}{
	"l": {},
	"m": {},
	"h": {},
	"p": {},
	"k": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateQueue(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set")
	}
	if c.Paths.WorkDir == c.Paths.CacheDir {
		return errors.New("paths.work_dir and paths.cache_dir must differ (workspaces are removed after each job)")
	}
	return nil
}

func (c *Config) validateRender() error {
	if _, ok := validRenderQualities[c.Render.Quality]; !ok {
		return fmt.Errorf("render.quality must be one of l, m, h, p, k (got %q)", c.Render.Quality)
	}
	if strings.TrimSpace(c.Render.SceneName) == "" {
		return errors.New("render.scene_name must be set")
	}
	return nil
}

func (c *Config) validateQueue() error {
	switch c.Queue.Backend {
	case QueueBackendMemory:
		return nil
	case QueueBackendRedis:
		if strings.TrimSpace(c.Queue.RedisAddr) == "" {
			return errors.New("queue.redis_addr must be set when queue.backend is \"redis\"")
		}
		if c.Queue.RedisDB < 0 {
			return errors.New("queue.redis_db must be >= 0")
		}
		return nil
	default:
		return fmt.Errorf("queue.backend: unsupported value %q (use \"memory\" or \"redis\")", c.Queue.Backend)
	}
}

func (c *Config) validateWorkflow() error {
	return ensurePositiveMap(map[string]int{
		"workflow.error_retry_interval": c.Workflow.ErrorRetryInterval,
	})
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
