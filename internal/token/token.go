// Package token decodes the registry bearer token's payload segment to
// recover a display username. It does not verify the signature; the
// registry itself accepts or rejects the token on the first request.
package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrDecode = errors.New("unable to decode token")
	ErrNoName = errors.New("unable to extract username")
)

type payload struct {
	Name string `json:"name"`
}

// Username extracts the name field from the token's payload segment.
// The token is expected to be three dot-delimited base64 segments; only
// the middle one is consumed.
func Username(raw string) (string, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return "", ErrDecode
	}

	decoded, err := decodeSegment(parts[1])
	if err != nil {
		return "", ErrDecode
	}

	text := strings.TrimSpace(string(decoded))
	if !strings.HasPrefix(text, "{") || !strings.HasSuffix(text, "}") {
		return "", ErrDecode
	}

	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return "", ErrDecode
	}
	if p.Name == "" {
		return "", ErrNoName
	}
	return p.Name, nil
}

// decodeSegment restores base64 padding (groups of 4) and decodes.
// Tokens normally use the URL-safe alphabet; the standard alphabet is
// accepted as a fallback.
func decodeSegment(seg string) ([]byte, error) {
	if rem := len(seg) % 4; rem != 0 {
		seg += strings.Repeat("=", 4-rem)
	}
	decoded, err := base64.URLEncoding.DecodeString(seg)
	if err == nil {
		return decoded, nil
	}
	return base64.StdEncoding.DecodeString(seg)
}
