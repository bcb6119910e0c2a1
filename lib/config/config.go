// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/presence-monitor/lib/secret"
)

// Format identifies a configuration file syntax.
type Format string

const (
	// TOML is the default format.
	TOML Format = "toml"
	// YAML is selected by the .yaml and .yml extensions.
	YAML Format = "yaml"
	// JSONC is selected by the .json and .jsonc extensions.
	JSONC Format = "jsonc"
)

// Config is the presence monitor configuration.
type Config struct {
	// ServerURL is the base URL of the Matrix homeserver, for example
	// "https://matrix.example.org". Required.
	ServerURL string `toml:"server_url" yaml:"server_url" json:"server_url"`

	// AccessToken is the pre-provisioned access token. Opaque; never
	// logged. Exactly one of AccessToken and AccessTokenFile is required.
	AccessToken string `toml:"access_token" yaml:"access_token" json:"access_token"`

	// AccessTokenFile is a path to a file holding the access token, or
	// "-" for stdin.
	AccessTokenFile string `toml:"access_token_file" yaml:"access_token_file" json:"access_token_file"`
}

// FormatFor returns the format LoadFile uses for path.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	case ".json", ".jsonc":
		return JSONC
	default:
		return TOML
	}
}

// LoadFile reads, expands, and validates the configuration at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format. It does not expand variables
// or validate; LoadFile does both.
func Parse(data []byte, format Format) (*Config, error) {
	var cfg Config
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	case JSONC:
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return nil, err
		}
	case TOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// server URL and token file path.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.ServerURL = expandVars(c.ServerURL, vars)
	c.AccessTokenFile = expandVars(c.AccessTokenFile, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.ServerURL == "" {
		errs = append(errs, fmt.Errorf("server_url is required"))
	} else if parsed, err := url.Parse(c.ServerURL); err != nil {
		errs = append(errs, fmt.Errorf("server_url: %w", err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Errorf("server_url must be an http or https URL, got %q", c.ServerURL))
	} else if parsed.Host == "" {
		errs = append(errs, fmt.Errorf("server_url has no host: %q", c.ServerURL))
	}

	switch {
	case c.AccessToken == "" && c.AccessTokenFile == "":
		errs = append(errs, fmt.Errorf("access_token (or access_token_file) is required"))
	case c.AccessToken != "" && c.AccessTokenFile != "":
		errs = append(errs, fmt.Errorf("access_token and access_token_file are mutually exclusive"))
	}

	return errors.Join(errs...)
}

// Token returns the access token in protected memory. The caller must
// close the returned buffer.
func (c *Config) Token() (*secret.Buffer, error) {
	if c.AccessTokenFile != "" {
		buffer, err := secret.ReadFromPath(c.AccessTokenFile)
		if err != nil {
			return nil, fmt.Errorf("config: reading access_token_file: %w", err)
		}
		return buffer, nil
	}
	buffer, err := secret.NewFromString(c.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("config: protecting access token: %w", err)
	}
	return buffer, nil
}

// LogValue implements slog.LogValuer. The access token is never
// included.
func (c *Config) LogValue() slog.Value {
	token := "[REDACTED]"
	if c.AccessTokenFile != "" {
		token = "file:" + c.AccessTokenFile
	}
	return slog.GroupValue(
		slog.String("server_url", c.ServerURL),
		slog.String("access_token", token),
	)
}
