// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the presence monitor's configuration file.
//
// Configuration comes from a single file named on the command line.
// There are no fallbacks, no ~/.config discovery, and no environment
// overrides of individual fields. The file format is chosen by
// extension:
//
//   - .yaml, .yml -- gopkg.in/yaml.v3
//   - .json, .jsonc -- JSON with comments (github.com/tidwall/jsonc)
//   - anything else -- TOML (github.com/pelletier/go-toml/v2)
//
// Two fields are required: server_url and an access token, given
// either inline as access_token or as a path in access_token_file.
// ${VAR} and ${VAR:-default} patterns are expanded in server_url and
// access_token_file; the inline token is never expanded or logged.
//
// Key exports:
//
//   - [Config] -- the loaded configuration, immutable after LoadFile
//   - [LoadFile] -- parse, expand, and validate a file
//   - [Config.Token] -- move the token into a secret.Buffer
package config
