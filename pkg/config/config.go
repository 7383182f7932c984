// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/twinpane/pkg/fserr"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultParallelism = 4
	DefaultMaxThreads  = 255
	DefaultSettleDelay = "100ms"
	DefaultLogLevel    = "info"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete configuration
type Config struct {
	Parallelism   int    `json:"parallelism,omitempty" yaml:"parallelism,omitempty" hcl:"parallelism,optional"`
	MaxThreads    int    `json:"max_threads,omitempty" yaml:"max_threads,omitempty" hcl:"max_threads,optional"`
	SettleDelay   string `json:"settle_delay,omitempty" yaml:"settle_delay,omitempty" hcl:"settle_delay,optional"`
	HideHidden    bool   `json:"hide_hidden,omitempty" yaml:"hide_hidden,omitempty" hcl:"hide_hidden,optional"`
	StagingDir    string `json:"staging_dir,omitempty" yaml:"staging_dir,omitempty" hcl:"staging_dir,optional"`
	LeftPath      string `json:"left_path,omitempty" yaml:"left_path,omitempty" hcl:"left_path,optional"`
	RightPath     string `json:"right_path,omitempty" yaml:"right_path,omitempty" hcl:"right_path,optional"`
	PreserveTimes bool   `json:"preserve_times,omitempty" yaml:"preserve_times,omitempty" hcl:"preserve_times,optional"`
	TrashDir      string `json:"trash_dir,omitempty" yaml:"trash_dir,omitempty" hcl:"trash_dir,optional"`
	LogLevel      string `json:"log_level,omitempty" yaml:"log_level,omitempty" hcl:"log_level,optional"`
	Async         bool   `json:"async,omitempty" yaml:"async,omitempty" hcl:"async,optional"`
	MetricsAddr   string `json:"metrics_addr,omitempty" yaml:"metrics_addr,omitempty" hcl:"metrics_addr,optional"`

	settle   time.Duration
	level    zerolog.Level
	location string
}

// 🏭 Default returns the configuration used when no file is found
func Default() *Config {
	cfg := &Config{}
	// defaults always validate
	_ = cfg.Validate()
	return cfg
}

// CandidateNames are the file names Discover looks for, in order.
var CandidateNames = []string{"twinpane.yaml", "twinpane.yml", "twinpane.hcl", "twinpane.json"}

// 🔍 Discover returns the first config file found in dir, then in the user
// config directory, or "" when there is none
func Discover(dir string) string {
	dirs := []string{dir}
	if ucd, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(ucd, "twinpane"))
	}
	for _, d := range dirs {
		if d == "" {
			continue
		}
		for _, name := range CandidateNames {
			p := filepath.Join(d, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
	}
	return ""
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	cfg.location = path

	return cfg, nil
}

// LoadOrDefault loads path, or the discovered file when path is empty, or
// the defaults when nothing is found.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path == "" {
		wd, _ := os.Getwd()
		path = Discover(wd)
	}
	if path == "" {
		zerolog.Ctx(ctx).Debug().Msg("no configuration file, using defaults")
		return Default(), nil
	}
	return Load(ctx, path)
}

// 🔍 Validate fills defaults and checks ranges. Out of range values are
// rejected rather than clamped.
func (cfg *Config) Validate() error {
	if cfg.MaxThreads == 0 {
		cfg.MaxThreads = DefaultMaxThreads
	}
	if cfg.MaxThreads < 1 || cfg.MaxThreads > DefaultMaxThreads {
		return invalid("max_threads", errors.Errorf("must be between 1 and %d, got %d", DefaultMaxThreads, cfg.MaxThreads))
	}

	if cfg.Parallelism == 0 {
		cfg.Parallelism = min(DefaultParallelism, cfg.MaxThreads)
	}
	if cfg.Parallelism < 1 || cfg.Parallelism > cfg.MaxThreads {
		return invalid("parallelism", errors.Errorf("must be between 1 and %d, got %d", cfg.MaxThreads, cfg.Parallelism))
	}

	if cfg.SettleDelay == "" {
		cfg.SettleDelay = DefaultSettleDelay
	}
	settle, err := time.ParseDuration(cfg.SettleDelay)
	if err != nil {
		return invalid("settle_delay", err)
	}
	if settle < 0 {
		return invalid("settle_delay", errors.Errorf("must not be negative, got %s", settle))
	}
	cfg.settle = settle

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		return invalid("log_level", err)
	}
	cfg.level = level

	for _, p := range []*string{&cfg.StagingDir, &cfg.LeftPath, &cfg.RightPath, &cfg.TrashDir} {
		if *p != "" {
			*p = filepath.Clean(*p)
		}
	}

	return nil
}

func invalid(field string, err error) error {
	return fserr.New(fserr.KindInvalidParameter, field, "", err)
}

// Settle returns the parsed settle delay.
func (cfg *Config) Settle() time.Duration {
	return cfg.settle
}

// Level returns the parsed log level.
func (cfg *Config) Level() zerolog.Level {
	return cfg.level
}

// Location is the file the config was loaded from, empty for defaults.
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	left, right := cfg.LeftPath, cfg.RightPath
	if left == "" {
		left = "<drives>"
	}
	if right == "" {
		right = "<drives>"
	}
	return fmt.Sprintf("%s | %s (threads %d/%d, settle %s)", left, right, cfg.Parallelism, cfg.MaxThreads, cfg.SettleDelay)
}
