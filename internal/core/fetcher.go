// internal/core/fetcher.go
package core

import (
	"context"
	"net/http"
)

// Response is a single decoded HTTP reply. Body is already decompressed.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// Fetcher issues one GET against a fully-qualified URL. Implementations must
// not retry and must report transport problems as errors wrapping
// ErrNetworkTimeout, ErrNetworkError or ErrDecode.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (*Response, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (*Response, error) {
	return f(ctx, url)
}
