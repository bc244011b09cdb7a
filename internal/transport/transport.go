package transport

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrBodyTooLarge     = errors.New("response body too large")
	ErrInvalidURL       = errors.New("invalid url")
)

// Transport fetches the document at url
type Transport interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Response is a completed round trip. Body is already decoded.
type Response struct {
	URL        string // final url after redirects
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Func adapts a function to Transport
type Func func(ctx context.Context, url string) (*Response, error)

// Fetch calls f
func (f Func) Fetch(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}
