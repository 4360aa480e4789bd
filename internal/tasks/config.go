package tasks

import (
	"time"

	"github.com/mrlokans/curriculum/internal/config"
)

// Config holds configuration for the task queue system.
type Config struct {
	// TaskTimeout bounds a single import run. Default: 30m
	TaskTimeout time.Duration

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 1h
	ReleaseAfter time.Duration

	// CleanupInterval is how often to clean up completed tasks. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TaskTimeout:     30 * time.Minute,
		ReleaseAfter:    1 * time.Hour,
		CleanupInterval: 1 * time.Hour,
	}
}

// ConfigFrom maps application settings onto the queue, keeping defaults for unset values.
func ConfigFrom(cfg config.Tasks) Config {
	out := DefaultConfig()
	if cfg.TaskTimeout > 0 {
		out.TaskTimeout = cfg.TaskTimeout
	}
	if cfg.ReleaseAfter > 0 {
		out.ReleaseAfter = cfg.ReleaseAfter
	}
	if cfg.CleanupInterval > 0 {
		out.CleanupInterval = cfg.CleanupInterval
	}
	return out
}
