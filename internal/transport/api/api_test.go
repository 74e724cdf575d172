package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/webgen/internal/model"
	"github.com/slok/webgen/internal/transport"
	"github.com/slok/webgen/internal/transport/api"
)

func newTestTransport(t *testing.T, h http.Handler, field string) *api.Transport {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	tr, err := api.NewTransport(api.TransportConfig{
		Endpoint:      srv.URL,
		ArtifactField: field,
		HTTPClient:    srv.Client(),
	})
	require.NoError(t, err)

	return tr
}

func TestTransportSubmit(t *testing.T) {
	tests := map[string]struct {
		field       string
		handler     http.HandlerFunc
		expArtifact string
		expErr      error
		expStatus   int
	}{
		"A valid response should return the artifact untouched.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"code": "<html>...</html>"})
			},
			expArtifact: "<html>...</html>",
		},

		"A custom artifact field should be used.": {
			field: "html",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"html": "<html>ok</html>"})
			},
			expArtifact: "<html>ok</html>",
		},

		"A server error should return an HTTP status error.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expStatus: 500,
		},

		"A not found should return an HTTP status error.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			expStatus: 404,
		},

		"A response without the artifact field should be malformed.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"other": "<html></html>"})
			},
			expErr: transport.ErrMalformedResponse,
		},

		"A response with an empty artifact should be malformed.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"code": ""})
			},
			expErr: transport.ErrMalformedResponse,
		},

		"A response with a non string artifact should be malformed.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]int{"code": 42})
			},
			expErr: transport.ErrMalformedResponse,
		},

		"A non JSON response should be malformed.": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>not json</html>"))
			},
			expErr: transport.ErrMalformedResponse,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			tr := newTestTransport(t, test.handler, test.field)

			got, err := tr.Submit(context.Background(), model.GenerationRequest{ID: "1", Prompt: "x", Attempt: 1})

			switch {
			case test.expStatus != 0:
				require.Error(t, err)
				assert.Equal(t, test.expStatus, transport.StatusCode(err))
			case test.expErr != nil:
				// The validation detail never reaches the caller.
				assert.Equal(t, test.expErr, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, test.expArtifact, got)
			}
		})
	}
}

func TestTransportSubmitSendsPrompt(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody map[string]any

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "<html></html>"})
	})
	tr := newTestTransport(t, h, "")

	_, err := tr.Submit(context.Background(), model.GenerationRequest{Prompt: "Create a modern landing page for a coffee shop"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, map[string]any{"prompt": "Create a modern landing page for a coffee shop"}, gotBody)
}

func TestTransportSubmitCancellation(t *testing.T) {
	release := make(chan struct{})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Reading the body lets the server notice the client disconnect.
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	tr := newTestTransport(t, h, "")
	// Registered after the server so it runs before the server close.
	t.Cleanup(func() { close(release) })

	tests := map[string]struct {
		ctx    func() (context.Context, context.CancelFunc)
		expErr error
	}{
		"A cancelled request should return cancelled.": {
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				time.AfterFunc(20*time.Millisecond, cancel)
				return ctx, cancel
			},
			expErr: transport.ErrCancelled,
		},

		"A request that exceeds its deadline should return timeout.": {
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 20*time.Millisecond)
			},
			expErr: transport.ErrTimeout,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := test.ctx()
			defer cancel()

			_, err := tr.Submit(ctx, model.GenerationRequest{Prompt: "x"})
			assert.ErrorIs(t, err, test.expErr)
		})
	}
}
