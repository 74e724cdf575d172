package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/slok/webgen/internal/log"
	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/transport"
)

const (
	// DefaultEndpoint is the default website generation service endpoint.
	DefaultEndpoint = "https://webgen-backend.vercel.app/"
	// DefaultArtifactField is the response JSON field that holds the generated HTML.
	DefaultArtifactField = "code"

	maxResponseBytes = 32 << 20
)

// TransportConfig is the configuration for the HTTP API transport.
type TransportConfig struct {
	// Endpoint is the generation service URL the prompts are POSTed to.
	Endpoint string
	// ArtifactField is the response JSON field with the generated HTML.
	ArtifactField string
	// HTTPClient is the HTTP client used for the requests.
	HTTPClient *http.Client
	// Logger for logging.
	Logger log.Logger
}

func (c *TransportConfig) defaults() error {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.ArtifactField == "" {
		c.ArtifactField = DefaultArtifactField
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "transport.API"})
	return nil
}

// Transport implements transport.Transport using the website generation HTTP API.
type Transport struct {
	endpoint   string
	httpClient *http.Client
	validator  *responseValidator
	logger     log.Logger
}

// NewTransport creates a new HTTP API transport.
func NewTransport(cfg TransportConfig) (*Transport, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	validator, err := newResponseValidator(cfg.ArtifactField)
	if err != nil {
		return nil, fmt.Errorf("could not create response validator: %w", err)
	}

	return &Transport{
		endpoint:   cfg.Endpoint,
		httpClient: cfg.HTTPClient,
		validator:  validator,
		logger:     cfg.Logger,
	}, nil
}

var _ transport.Transport = (*Transport)(nil)

type requestJSON struct {
	Prompt string `json:"prompt"`
}

// Submit POSTs the prompt to the generation service and returns the generated HTML.
func (t *Transport) Submit(ctx context.Context, req model.GenerationRequest) (string, error) {
	logger := t.logger.WithValues(log.Kv{"request-id": req.ID})

	body, err := json.Marshal(requestJSON{Prompt: req.Prompt})
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	logger.Debugf("Sending generation request to %s", t.endpoint)
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return "", transport.ContextError(ctx, fmt.Errorf("executing request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", &transport.HTTPStatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", transport.ContextError(ctx, fmt.Errorf("reading response: %w", err))
	}

	artifact, err := t.validator.artifact(data)
	if err != nil {
		// The detail is only for debugging, users get the plain malformed error.
		logger.Debugf("Invalid response: %s", err)
		return "", transport.ErrMalformedResponse
	}

	logger.Debugf("Received %d bytes of HTML", len(artifact))
	return artifact, nil
}
