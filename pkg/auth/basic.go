package auth

import (
	"encoding/base64"
	"strings"
)

const basicScheme = "Basic "

// ParseBasic decodes an Authorization header of the form
// "Basic base64(identity:secret)". The decoded value is split on the first
// colon and both parts must be non-empty. Any other shape reports ok=false
// without saying which part was wrong.
func ParseBasic(header string) (identity, secret string, ok bool) {
	header = strings.TrimSpace(header)
	if len(header) < len(basicScheme) || !strings.EqualFold(header[:len(basicScheme)], basicScheme) {
		return "", "", false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(basicScheme):]))
	if err != nil {
		return "", "", false
	}

	identity, secret, found := strings.Cut(string(decoded), ":")
	if !found || identity == "" || secret == "" {
		return "", "", false
	}

	return identity, secret, true
}

// EncodeBasic builds the header value ParseBasic accepts.
func EncodeBasic(identity, secret string) string {
	return basicScheme + base64.StdEncoding.EncodeToString([]byte(identity+":"+secret))
}
