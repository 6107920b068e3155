// Copyright 2025 Wayfarer AI
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

// Package config provides the reasoning and orchestration core's
// configuration type, loaded from YAML with environment variable
// expansion.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Interface is implemented by every configuration type in this package.
type Interface interface {
	Validate() error
	SetDefaults()
}

// Provider identifies an upstream provider family for rate limiting and
// client dispatch purposes.
type Provider string

const (
	ProviderWeather    Provider = "weather"
	ProviderPOI        Provider = "poi"
	ProviderNavigation Provider = "navigation"
	ProviderTraffic    Provider = "traffic"
	ProviderGeocode    Provider = "geocode"
	ProviderHints      Provider = "hints"
	ProviderCrowd      Provider = "crowd"
)

// AllProviders lists every provider family that may carry its own
// per-provider QPS setting.
var AllProviders = []Provider{
	ProviderWeather, ProviderPOI, ProviderNavigation,
	ProviderTraffic, ProviderGeocode, ProviderHints, ProviderCrowd,
}

// Config is the process-wide configuration for the core.
type Config struct {
	// Region is the metropolitan region this deployment serves. Required.
	Region string `yaml:"region"`

	// DefaultDays is used when the utterance doesn't specify a duration.
	DefaultDays int `yaml:"default_days,omitempty"`

	// MaxDays bounds the parsed trip duration.
	MaxDays int `yaml:"max_days,omitempty"`

	// PerProviderQPS overrides the default 3 req/s cap per provider.
	PerProviderQPS map[Provider]int `yaml:"per_provider_qps,omitempty"`

	// PerCallTimeoutMs bounds a single upstream call's wall time.
	PerCallTimeoutMs int `yaml:"per_call_timeout_ms,omitempty"`

	// HintsTimeoutMs overrides PerCallTimeoutMs for InputHints calls.
	HintsTimeoutMs int `yaml:"hints_timeout_ms,omitempty"`

	// MaxHistoryTurns bounds session history length.
	MaxHistoryTurns int `yaml:"max_history_turns,omitempty"`

	// MaxConcurrentRequestsPerUser bounds in-flight Handle calls per user.
	MaxConcurrentRequestsPerUser int `yaml:"max_concurrent_requests_per_user,omitempty"`

	// Logging configures the process logger.
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// LoggingConfig configures the slog logger built by the logger package.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Validate implements Interface.
func (c *Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.DefaultDays < 1 {
		return fmt.Errorf("default_days must be >= 1")
	}
	if c.MaxDays < c.DefaultDays {
		return fmt.Errorf("max_days must be >= default_days")
	}
	for p, qps := range c.PerProviderQPS {
		if qps <= 0 {
			return fmt.Errorf("per_provider_qps[%s] must be positive", p)
		}
	}
	if c.PerCallTimeoutMs <= 0 {
		return fmt.Errorf("per_call_timeout_ms must be positive")
	}
	if c.HintsTimeoutMs <= 0 {
		return fmt.Errorf("hints_timeout_ms must be positive")
	}
	if c.MaxHistoryTurns <= 0 {
		return fmt.Errorf("max_history_turns must be positive")
	}
	if c.MaxConcurrentRequestsPerUser <= 0 {
		return fmt.Errorf("max_concurrent_requests_per_user must be positive")
	}
	return nil
}

// SetDefaults implements Interface.
func (c *Config) SetDefaults() {
	if c.DefaultDays == 0 {
		c.DefaultDays = 1
	}
	if c.MaxDays == 0 {
		c.MaxDays = 7
	}
	if c.PerProviderQPS == nil {
		c.PerProviderQPS = make(map[Provider]int, len(AllProviders))
	}
	for _, p := range AllProviders {
		if _, ok := c.PerProviderQPS[p]; !ok {
			c.PerProviderQPS[p] = 3
		}
	}
	if c.PerCallTimeoutMs == 0 {
		c.PerCallTimeoutMs = 10000
	}
	if c.HintsTimeoutMs == 0 {
		c.HintsTimeoutMs = 5000
	}
	if c.MaxHistoryTurns == 0 {
		c.MaxHistoryTurns = 10
	}
	if c.MaxConcurrentRequestsPerUser == 0 {
		c.MaxConcurrentRequestsPerUser = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

// PerCallTimeout returns the configured per-call timeout as a duration.
func (c *Config) PerCallTimeout() time.Duration {
	return time.Duration(c.PerCallTimeoutMs) * time.Millisecond
}

// HintsTimeout returns the configured InputHints timeout as a duration.
func (c *Config) HintsTimeout() time.Duration {
	return time.Duration(c.HintsTimeoutMs) * time.Millisecond
}

// Load reads and parses a YAML config file from path, expanding
// environment variables in raw string values before unmarshaling, then
// applies defaults and validates.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse parses raw YAML bytes into a validated Config.
func Parse(raw []byte) (*Config, error) {
	expanded := expandEnvVars(string(raw))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
