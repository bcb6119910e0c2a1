// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers for the Matrix client.
//
// [ReadResponse] bounds response body reads at [MaxResponseSize] so a
// misbehaving homeserver cannot exhaust memory. [RedactURLError] strips
// credential query parameters from transport errors, because
// net/http embeds the full request URL in every *url.Error and the
// client-server API accepts the access token as a query parameter.
package netutil

import (
	"io"
	"net/url"
	"strings"
)

// MaxResponseSize is the bound on JSON API response body reads: 64 MB.
// A /sync response for a single account is orders of magnitude smaller.
const MaxResponseSize int64 = 64 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// RedactURLError returns err with the values of the named query
// parameters in its URL replaced by "REDACTED". err must be the error
// exactly as net/http returned it: a *url.Error is rebuilt with the
// redacted URL and the same cause, and anything else (including an
// error that already wraps a *url.Error, whose message is fixed) is
// returned unchanged. Redact before wrapping.
func RedactURLError(err error, parameters ...string) error {
	urlErr, ok := err.(*url.Error)
	if !ok {
		return err
	}
	return &url.Error{
		Op:  urlErr.Op,
		URL: RedactQuery(urlErr.URL, parameters...),
		Err: urlErr.Err,
	}
}

// RedactQuery replaces the values of the named query parameters in
// rawURL with "REDACTED". If rawURL does not parse, the whole query
// string is dropped.
func RedactQuery(rawURL string, parameters ...string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		before, _, _ := strings.Cut(rawURL, "?")
		return before
	}
	query := parsed.Query()
	changed := false
	for _, name := range parameters {
		if query.Has(name) {
			query.Set(name, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
