// Package secrets masks consumer keys, token secrets and signed request
// parameters before they reach the terminal or the debug log.
package secrets

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Style selects how a value is masked.
type Style string

const (
	StyleFull    Style = "full"
	StylePartial Style = "partial"
	StyleHash    Style = "hash"
)

// Masking configures MaskValue.
type Masking struct {
	Style            Style
	PartialShowChars int
	Replacement      string
}

// DefaultMasking shows the first four characters.
var DefaultMasking = &Masking{Style: StylePartial, PartialShowChars: 4, Replacement: "***"}

// SensitiveParams are the query parameters hidden by MaskURL.
var SensitiveParams = []string{"oauth_signature", "oauth_token", "oauth_verifier", "access_token"}

// MaskValue masks a sensitive value using the configured style.
func MaskValue(value string, config *Masking) string {
	if config == nil {
		config = DefaultMasking
	}

	switch config.Style {
	case StyleFull:
		return fullMask(config.Replacement)
	case StyleHash:
		return hashMask(value)
	default:
		return partialMask(value, config.PartialShowChars, config.Replacement)
	}
}

func fullMask(replacement string) string {
	if replacement == "" {
		return "***"
	}
	return replacement
}

// partialMask shows the first N characters and masks the rest.
func partialMask(value string, showChars int, replacement string) string {
	if replacement == "" {
		replacement = "***"
	}
	if len(value) <= showChars {
		return replacement
	}
	return value[:showChars] + replacement
}

// hashMask keeps a short sha256 prefix so equal values stay comparable.
func hashMask(value string) string {
	hash := sha256.Sum256([]byte(value))
	return "sha256:" + hex.EncodeToString(hash[:])[:16]
}

// MaskURL masks the sensitive query parameters of a signed URL. Strings
// that do not parse as URLs are returned unchanged.
func MaskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}

	parts := strings.Split(u.RawQuery, "&")
	for i, part := range parts {
		key, value, found := strings.Cut(part, "=")
		if !found || !isSensitive(key) {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		parts[i] = key + "=" + MaskValue(value, DefaultMasking)
	}
	u.RawQuery = strings.Join(parts, "&")
	return u.String()
}

func isSensitive(key string) bool {
	for _, p := range SensitiveParams {
		if key == p {
			return true
		}
	}
	return false
}
