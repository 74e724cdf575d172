package fake

import (
	"context"
	"fmt"
	"html"
	"sync/atomic"
	"time"

	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/transport"
)

// TransportConfig is the configuration for the fake transport.
type TransportConfig struct {
	// Delay is the time the fake generation takes.
	Delay time.Duration
	// Artifact is returned on success, if empty a page with the prompt is generated.
	Artifact string
	// FailStatus makes every request fail with this HTTP status code.
	FailStatus int
	Logger     log.Logger
}

func (c *TransportConfig) defaults() error {
	if c.Delay < 0 {
		return fmt.Errorf("delay can't be negative")
	}
	if c.FailStatus != 0 && (c.FailStatus < 100 || c.FailStatus > 599) {
		return fmt.Errorf("invalid fail status %d", c.FailStatus)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "transport.Fake"})
	return nil
}

// Transport is a fake implementation of the transport.Transport interface.
// It simulates the generation service without any network access.
type Transport struct {
	delay      time.Duration
	artifact   string
	failStatus int
	calls      atomic.Int64
	logger     log.Logger
}

// NewTransport creates a new fake transport.
func NewTransport(cfg TransportConfig) (*Transport, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Transport{
		delay:      cfg.Delay,
		artifact:   cfg.Artifact,
		failStatus: cfg.FailStatus,
		logger:     cfg.Logger,
	}, nil
}

var _ transport.Transport = (*Transport)(nil)

// Submit waits the configured delay and returns the fake result.
func (t *Transport) Submit(ctx context.Context, req model.GenerationRequest) (string, error) {
	t.calls.Add(1)

	timer := time.NewTimer(t.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", transport.ContextError(ctx, ctx.Err())
	case <-timer.C:
	}

	if t.failStatus != 0 {
		t.logger.Debugf("Failing fake generation %s with status %d", req.ID, t.failStatus)
		return "", &transport.HTTPStatusError{StatusCode: t.failStatus}
	}

	t.logger.Infof("Generated fake website for request %s", req.ID)
	if t.artifact != "" {
		return t.artifact, nil
	}

	return Page(req.Prompt), nil
}

// Calls returns the number of submitted requests.
func (t *Transport) Calls() int {
	return int(t.calls.Load())
}

// Page returns a minimal HTML document for a prompt.
func Page(prompt string) string {
	p := html.EscapeString(prompt)
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>%s</title></head>
<body><main><h1>%s</h1></main></body>
</html>
`, p, p)
}
