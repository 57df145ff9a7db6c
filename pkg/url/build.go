// Copyright (c) Kusari <https://www.kusari.dev/>
// SPDX-License-Identifier: MIT

package url

import (
	"fmt"
	"net/url"
)

// Build joins pathSegments onto baseURL, which must be absolute.
func Build(baseURL string, pathSegments ...string) (string, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("failed to parse base URL: %q is not absolute", baseURL)
	}

	if len(pathSegments) > 0 {
		parsedURL = parsedURL.JoinPath(pathSegments...)
	}
	return parsedURL.String(), nil
}

// BuildWithQuery is Build followed by setting every entry of query on the
// result.
func BuildWithQuery(baseURL string, query url.Values, pathSegments ...string) (string, error) {
	full, err := Build(baseURL, pathSegments...)
	if err != nil {
		return "", err
	}
	if len(query) == 0 {
		return full, nil
	}

	parsedURL, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("failed to parse built URL: %w", err)
	}
	values := parsedURL.Query()
	for key, vals := range query {
		values[key] = vals
	}
	parsedURL.RawQuery = values.Encode()
	return parsedURL.String(), nil
}
