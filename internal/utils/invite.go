package utils

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

var urlRegex = regexp.MustCompile(`https?://[^\s]+`)

var inviteRegex = regexp.MustCompile(`discord(?:\.gg|app\.com/invite)/([a-zA-Z0-9\-]+)`)

// ExtractURLs returns every http(s) URL found in content.
func ExtractURLs(content string) []string {
	return urlRegex.FindAllString(content, -1)
}

// NormalizeURL lowercases and IDN-normalizes the host and strips
// fragments and user info, returning the rebuilt URL and its host.
func NormalizeURL(raw string) (string, string, error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}

	host := strings.ToLower(parsed.Hostname())
	asciiHost, err := idna.ToASCII(host)
	if err == nil {
		host = asciiHost
	}

	parsed.Host = host
	parsed.Fragment = ""
	parsed.User = nil

	return parsed.String(), host, nil
}

// ExtractInviteCodes returns the invite codes present in content.
// Bare discord.gg/... mentions match directly; full URLs are normalized
// first so mixed-case or decorated hosts still match.
func ExtractInviteCodes(content string) []string {
	var codes []string
	seen := make(map[string]struct{})

	add := func(matches [][]string) {
		for _, match := range matches {
			code := match[1]
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}

	add(inviteRegex.FindAllStringSubmatch(content, -1))
	for _, raw := range ExtractURLs(content) {
		normalized, _, err := NormalizeURL(raw)
		if err != nil {
			continue
		}
		add(inviteRegex.FindAllStringSubmatch(normalized, -1))
	}
	return codes
}
