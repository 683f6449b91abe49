// Package config loads lexidex's tunables: queue capacity, worker count,
// initial bucket count, and the activity log path. It follows the
// teacher's config.go precedence pattern — defaults, then a project config
// file, then explicit CLI overrides — parsing the file as JSON-with-
// comments via hujson, same as the original .tk.json loader.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"
)

// FileName is the default project config file name.
const FileName = ".lexidex.json"

// ErrConfigFileNotFound is returned when an explicitly named config file
// does not exist.
var ErrConfigFileNotFound = errors.New("config file not found")

// Config holds all tunable options, with JSON tags for the on-disk
// representation.
type Config struct {
	QueueCapacity             int     `json:"queue_capacity,omitempty"`
	QueueBackpressureWarnSecs float64 `json:"queue_backpressure_warn_secs,omitempty"`
	Workers                   int     `json:"workers,omitempty"`
	InitialBuckets            int     `json:"initial_buckets,omitempty"`
	ActivityLogPath           string  `json:"activity_log_path,omitempty"`
}

// Default returns the baseline configuration; zero fields let downstream
// packages (queue, pool, index) apply their own defaults.
func Default() Config {
	return Config{
		ActivityLogPath: "activity.log",
	}
}

// BackpressureWarnEvery converts QueueBackpressureWarnSecs to a
// time.Duration, or zero if unset.
func (c Config) BackpressureWarnEvery() time.Duration {
	if c.QueueBackpressureWarnSecs <= 0 {
		return 0
	}

	return time.Duration(c.QueueBackpressureWarnSecs * float64(time.Second))
}

// Load reads configuration with precedence (highest wins): defaults, then
// the project config file at workDir/.lexidex.json (or the explicit
// configPath, if non-empty, which must then exist).
func Load(workDir, configPath string) (Config, error) {
	cfg := Default()

	fileCfg, loaded, err := loadFile(workDir, configPath)
	if err != nil {
		return Config{}, err
	}
	if loaded {
		cfg = merge(cfg, fileCfg)
	}

	return cfg, nil
}

func loadFile(workDir, configPath string) (Config, bool, error) {
	mustExist := configPath != ""

	path := configPath
	if path == "" {
		path = filepath.Join(workDir, FileName)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}
		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}

		return Config{}, false, nil
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("config %s: invalid JSONC: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("config %s: invalid JSON: %w", path, err)
	}

	return cfg, true, nil
}

func merge(base, overlay Config) Config {
	if overlay.QueueCapacity != 0 {
		base.QueueCapacity = overlay.QueueCapacity
	}
	if overlay.QueueBackpressureWarnSecs != 0 {
		base.QueueBackpressureWarnSecs = overlay.QueueBackpressureWarnSecs
	}
	if overlay.Workers != 0 {
		base.Workers = overlay.Workers
	}
	if overlay.InitialBuckets != 0 {
		base.InitialBuckets = overlay.InitialBuckets
	}
	if overlay.ActivityLogPath != "" {
		base.ActivityLogPath = overlay.ActivityLogPath
	}

	return base
}
