package session

import (
	"net/http"
	"strings"
)

// Transport defines how session tokens travel on requests.
type Transport interface {
	// GetToken extracts the session token from the request.
	GetToken(r *http.Request) (string, error)
}

// HeaderTransport reads the token from a single request header.
type HeaderTransport struct {
	headerName string
	prefix     string
}

// HeaderOption is a functional option for HeaderTransport.
type HeaderOption func(*HeaderTransport)

// WithHeaderPrefix strips prefix (for example "Bearer ") from the header value.
func WithHeaderPrefix(prefix string) HeaderOption {
	return func(t *HeaderTransport) {
		t.prefix = prefix
	}
}

// NewHeaderTransport creates a transport for headerName (default "X-Token").
func NewHeaderTransport(headerName string, opts ...HeaderOption) *HeaderTransport {
	if headerName == "" {
		headerName = DefaultConfig().HeaderName
	}
	t := &HeaderTransport{headerName: headerName}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// GetToken returns ErrNoToken when the header is absent or blank.
func (t *HeaderTransport) GetToken(r *http.Request) (string, error) {
	value := strings.TrimSpace(r.Header.Get(t.headerName))
	if t.prefix != "" {
		value = strings.TrimSpace(strings.TrimPrefix(value, t.prefix))
	}
	if value == "" {
		return "", ErrNoToken
	}
	return value, nil
}

// HeaderName returns the header the transport reads.
func (t *HeaderTransport) HeaderName() string {
	return t.headerName
}
