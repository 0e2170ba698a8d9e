// Package api implements the outbound request to the chat inference endpoint.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	apierrors "github.com/ecrypto/chatclient/internal/errors"
)

const (
	// DefaultTimeout matches the transport default used when no timeout is configured
	DefaultTimeout = 300 * time.Second

	maxBodySize      = 4 << 20
	maxErrorBodySize = 4096
)

// HTTPDoer is the subset of tls_client.HttpClient used by Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChatClientInterface is what the dispatcher needs from the endpoint client
type ChatClientInterface interface {
	Post(ctx context.Context, endpointURL, message string) (string, error)
}

// Client posts chat messages to an endpoint speaking the {message} -> {response} contract
type Client struct {
	httpClient HTTPDoer
	timeout    time.Duration
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithTimeout sets the transport timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the TLS client, mostly useful for tests
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = doer
	}
}

var _ ChatClientInterface = (*Client)(nil)

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Timeout returns the configured transport timeout
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

type chatRequest struct {
	Message string `json:"message"`
}

// Post sends message to endpointURL and returns the "response" field of the reply.
// Any transport failure, non-2xx status or malformed body is returned as an error.
func (c *Client) Post(ctx context.Context, endpointURL, message string) (string, error) {
	payload, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(ctx, endpointURL, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return "", apierrors.NewAPIErrorWithBody(
			resp.StatusCode,
			endpointURL,
			errorMessage(resp.StatusCode, errorBody),
			string(errorBody),
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", classifyTransportError(ctx, endpointURL, err)
	}

	return ParseResponse(body)
}

// ParseResponse extracts the reply text from a response body.
// The body must be a JSON object whose "response" field is a string.
func ParseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response body is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return "", apierrors.NewParseError("response body is not a JSON object", "")
	}

	field := parsed.Get(PathResponse)
	if !field.Exists() {
		return "", apierrors.NewParseError("field is missing", PathResponse)
	}
	if field.Type != gjson.String {
		return "", apierrors.NewParseError(fmt.Sprintf("field has type %s, want string", field.Type), PathResponse)
	}

	return field.String(), nil
}

// classifyTransportError maps a transport failure to a timeout or network error
func classifyTransportError(ctx context.Context, endpointURL string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(endpointURL, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apierrors.NewTimeoutError(endpointURL, err)
	}

	return apierrors.NewNetworkError("post", endpointURL, err)
}
