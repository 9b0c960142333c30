package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultEndpoint is used when no results URL is configured.
const DefaultEndpoint = "http://localhost:8080/api/test-results"

// Client posts records to the results endpoint. It never retries.
type Client struct {
	endpoint string
	http     *http.Client
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the client's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("component", "submit").Logger() }
}

// NewClient creates a Client for endpoint. An empty endpoint uses
// DefaultEndpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		http:     http.DefaultClient,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Endpoint returns the URL records are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Submit posts rec with token as bearer credentials. It resolves once with
// an Ack or one of ErrAuthMissing, ErrTransport, ErrMalformedResponse.
func (c *Client) Submit(ctx context.Context, rec Record, token string) (*Ack, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &ErrAuthMissing{UserID: rec.UserID}
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &ErrTransport{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("test_type", rec.TestType).Msg("submit failed")
		return nil, &ErrTransport{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrTransport{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tErr := &ErrTransport{StatusCode: resp.StatusCode, Message: serverError(raw)}
		c.log.Warn().Int("status", resp.StatusCode).Str("error", tErr.Message).Msg("results server rejected record")
		return nil, tErr
	}

	var ack Ack
	if err := json.Unmarshal(raw, &ack); err != nil {
		return nil, &ErrMalformedResponse{StatusCode: resp.StatusCode, Body: raw, Err: err}
	}
	c.log.Info().Str("id", ack.ID).Str("test_type", rec.TestType).Int("test_number", rec.TestNumber).Msg("result submitted")
	return &ack, nil
}

func serverError(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Error
}

// IsAuthMissing reports whether err is an ErrAuthMissing.
func IsAuthMissing(err error) bool {
	var e *ErrAuthMissing
	return errors.As(err, &e)
}
