// Utilities for parsing cURL commands.
//
// Self-hosted MyFoil instances frequently sit behind an authenticating
// reverse proxy. Rather than model every auth scheme, the client accepts a
// browser "Copy as cURL" export and replays its headers on every request.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// CurlHeaders represents headers and cookies parsed from a cURL command.
type CurlHeaders struct {
	Headers map[string]string
	Cookie  string
}

var (
	curlHeaderRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	curlCookieRegex = regexp.MustCompile(`-b\s+'([^']+)'|-b\s+"([^"]+)"`)
)

// ParseCurlFile reads a .sh file containing a cURL command and extracts headers.
func ParseCurlFile(path string) (*CurlHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts its -H headers
// and -b cookie. A "Cookie:" header counts as the cookie when no -b flag is
// present.
func ParseCurlCommand(data []byte) (*CurlHeaders, error) {
	cmd := strings.ReplaceAll(string(data), "\\\n", " ")
	cmd = strings.ReplaceAll(cmd, "\\", "")

	headers := make(map[string]string)
	var cookie string

	for _, match := range curlHeaderRegex.FindAllStringSubmatch(cmd, -1) {
		line := match[1]
		if line == "" {
			line = match[2]
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if strings.EqualFold(key, "cookie") {
			if cookie == "" {
				cookie = value
			}
			continue
		}
		headers[key] = value
	}

	if match := curlCookieRegex.FindStringSubmatch(cmd); len(match) > 1 {
		if match[1] != "" {
			cookie = match[1]
		} else if match[2] != "" {
			cookie = match[2]
		}
	}

	if len(headers) == 0 && cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return &CurlHeaders{Headers: headers, Cookie: cookie}, nil
}
