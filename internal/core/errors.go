// internal/core/errors.go
package core

import "errors"

// Define custom errors for better error handling and classification
var (
	ErrNetworkTimeout = errors.New("network request timed out")
	ErrNetworkError   = errors.New("network error occurred")
	ErrDecode         = errors.New("failed to decode response body")
	ErrInvalidTarget  = errors.New("invalid target URL")
	ErrUnknownCheck   = errors.New("unknown check")
	ErrOutputFormat   = errors.New("unsupported output format")
	ErrFileWrite      = errors.New("failed to write to file")
	ErrInvalidConfig  = errors.New("invalid configuration")
)
