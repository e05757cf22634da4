package replace

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Transport is the narrow request/response collaborator the state
// machine depends on: an HTTP client abstracted behind a function
// taking method, path, body, and content type, and returning status
// plus body. Tests substitute a fake to drive the NETWORK_ERR and
// HTTP_ERR branches without a live server.
type Transport interface {
	Do(ctx context.Context, method, path string, body []byte, contentType string) (status int, respBody []byte, err error)
}

// HTTPTransport is the default Transport: a *http.Client with an
// explicit timeout rather than the zero-value client's unbounded wait.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport builds an HTTPTransport against baseURL with a 60
// second request timeout.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (t *HTTPTransport) Do(ctx context.Context, method, path string, body []byte, contentType string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("replace: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("replace: transport: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("replace: read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
