// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// maxTokenFileSize bounds how much of a token file is read. Matrix
// access tokens are well under a kilobyte.
const maxTokenFileSize = 64 << 10

// ReadFromPath loads an access token into a Buffer. path names a token
// file (the config's access_token_file); "-" reads the first line of
// stdin instead, so the token can be piped from a password manager.
//
// Surrounding whitespace is trimmed. The token must be non-empty and
// must not contain inner whitespace: a file holding two lines is
// rejected rather than sent as one malformed token. Intermediate copies
// are zeroed. The caller must close the returned Buffer.
func ReadFromPath(path string) (*Buffer, error) {
	source := "access token file " + path
	var reader io.Reader
	if path == "-" {
		source = "stdin"
		reader = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("secret: %w", err)
		}
		defer file.Close()
		reader = file
	}

	raw, err := io.ReadAll(io.LimitReader(reader, maxTokenFileSize+1))
	defer Zero(raw)
	if err != nil {
		return nil, fmt.Errorf("secret: reading %s: %w", source, err)
	}
	if len(raw) > maxTokenFileSize {
		return nil, fmt.Errorf("secret: %s exceeds %d bytes", source, maxTokenFileSize)
	}

	token := raw
	if path == "-" {
		token, _, _ = bytes.Cut(raw, []byte("\n"))
	}
	token = bytes.TrimSpace(token)
	switch {
	case len(token) == 0:
		return nil, fmt.Errorf("secret: %s is empty", source)
	case bytes.ContainsAny(token, " \t\r\n"):
		return nil, errors.New("secret: " + source + " holds more than one token")
	}

	return NewFromBytes(token)
}
