// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package config decodes the optional YAML file that overrides a
// lint's enabled state or severity. Lints are looked up by name, so
// this package has no dependency on the lint package itself - only
// lint/manager.go's RunDiagnostics (which src/driver passes the config
// to) knows both.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Level mirrors lint.Level as plain text so this package stays free of
// a dependency on the lint package.
type Level string

const (
	LevelError   Level = "Error"
	LevelWarning Level = "Warning"
	LevelInfo    Level = "Info"
	LevelHint    Level = "Hint"
)

// CheckConfig overrides one lint's enabled state and, optionally, its
// severity.
type CheckConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
	Level   Level `yaml:"level,omitempty"`
}

// Config is the root of the YAML document accepted by --config. An
// absent check name falls back to that lint's built-in default.
type Config struct {
	Checks map[string]CheckConfig `yaml:"checks"`
}

// Default returns the empty configuration: every lint runs at its
// built-in default severity.
func Default() *Config {
	return &Config{Checks: map[string]CheckConfig{}}
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if c.Checks == nil {
		c.Checks = map[string]CheckConfig{}
	}
	return &c, nil
}

// Enabled reports whether the named lint should run. A lint not
// mentioned in the config is enabled by default.
func (c *Config) Enabled(name string) bool {
	if c == nil {
		return true
	}
	cc, ok := c.Checks[name]
	if !ok || cc.Enabled == nil {
		return true
	}
	return *cc.Enabled
}

// LevelOverride reports the severity override for the named lint, if
// the config specifies one.
func (c *Config) LevelOverride(name string) (Level, bool) {
	if c == nil {
		return "", false
	}
	cc, ok := c.Checks[name]
	if !ok || cc.Level == "" {
		return "", false
	}
	return cc.Level, true
}
