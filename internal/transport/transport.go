package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/webgen/internal/model"
)

// Transport sends a generation request to the remote generation service.
type Transport interface {
	// Submit sends the request and returns the generated HTML artifact. The
	// context is the cancellation token of the request.
	Submit(ctx context.Context, req model.GenerationRequest) (artifact string, err error)
}

var (
	// ErrCancelled is returned when the request was cancelled before resolving.
	ErrCancelled = errors.New("request cancelled")
	// ErrTimeout is returned when the request did not resolve in time.
	ErrTimeout = errors.New("request timed out")
	// ErrMalformedResponse is returned when the response has no HTML artifact.
	ErrMalformedResponse = errors.New("no HTML content received")
)

// HTTPStatusError is returned when the generation service answers with a non
// success HTTP status.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error status: %d", e.StatusCode)
}

// StatusCode returns the HTTP status code of an error chain, 0 if there is none.
func StatusCode(err error) int {
	var herr *HTTPStatusError
	if errors.As(err, &herr) {
		return herr.StatusCode
	}
	return 0
}

// ContextError classifies an error produced while the context was done. If the
// context is not done it returns the original error.
func ContextError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return ErrCancelled
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	default:
		return err
	}
}
