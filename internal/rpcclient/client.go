// Package rpcclient is the device-side boundary to the procedure backend.
// Transport failures never surface as Go errors: they come back as a
// synthetic NETWORK_ERROR envelope so callers handle every failure through
// the same envelope path.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/ahmetcoskunkizilkaya/journey/internal/logging"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
	"github.com/tidwall/gjson"
)

const (
	DefaultTimeout     = 10 * time.Second
	DevelopmentBaseURL = "http://localhost:8081"

	maxResponseBytes = 4 << 20
)

var ErrBaseURLUnset = errors.New("rpcclient: API_BASE_URL is not set")

// ResolveBaseURL picks the backend address. An explicit URL always wins;
// development falls back to the local server; any other mode is an error.
func ResolveBaseURL(explicit, mode string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return strings.TrimRight(explicit, "/"), nil
	}
	if mode == config.EnvDevelopment {
		return DevelopmentBaseURL, nil
	}
	return "", ErrBaseURLUnset
}

type Options struct {
	BaseURL     string
	Timeout     time.Duration
	Token       string
	HTTPClient  *http.Client
	Transformer trpc.Transformer
	Logger      *slog.Logger
}

type Client struct {
	baseURL     string
	timeout     time.Duration
	token       string
	http        *http.Client
	transformer trpc.Transformer
	log         *slog.Logger
}

func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, ErrBaseURLUnset
	}
	c := &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		timeout:     opts.Timeout,
		token:       opts.Token,
		http:        opts.HTTPClient,
		transformer: opts.Transformer,
		log:         logging.OrDefault(opts.Logger),
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.transformer == nil {
		c.transformer = trpc.SuperJSON{}
	}
	return c, nil
}

// NewFromConfig resolves the base URL from API_BASE_URL and APP_ENV.
func NewFromConfig(cfg *config.Config, log *slog.Logger) (*Client, error) {
	base, err := ResolveBaseURL(cfg.APIBaseURL, cfg.AppEnv)
	if err != nil {
		return nil, err
	}
	return New(Options{BaseURL: base, Timeout: cfg.RPCTimeout, Logger: log})
}

// Response is one procedure result. StatusCode is 503 for synthetic
// network failures.
type Response struct {
	StatusCode int
	Envelope   trpc.Envelope

	transformer trpc.Transformer
}

// Err returns the envelope's error, or nil on success.
func (r *Response) Err() *trpc.Error {
	return r.Envelope.Err()
}

// Decode unwraps the result data into out. It returns the envelope's
// *trpc.Error when the call failed.
func (r *Response) Decode(out any) error {
	if te := r.Err(); te != nil {
		return te
	}
	if r.Envelope.Result == nil {
		return errors.New("rpcclient: response has no result")
	}
	return r.transformer.Deserialize(r.Envelope.Result.Data, out)
}

// Query calls a read procedure with GET.
func (c *Client) Query(ctx context.Context, procedure string, input any) (*Response, error) {
	return c.call(ctx, http.MethodGet, procedure, input)
}

// Mutate calls a write procedure with POST.
func (c *Client) Mutate(ctx context.Context, procedure string, input any) (*Response, error) {
	return c.call(ctx, http.MethodPost, procedure, input)
}

// call returns an error only when input cannot be serialized.
func (c *Client) call(ctx context.Context, method, procedure string, input any) (*Response, error) {
	var payload []byte
	if input != nil {
		raw, err := c.transformer.Serialize(input)
		if err != nil {
			return nil, fmt.Errorf("serialize %s input: %w", procedure, err)
		}
		payload = raw
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + "/api/trpc/" + url.PathEscape(procedure)
	var body io.Reader
	if method == http.MethodGet {
		if payload != nil {
			target += "?input=" + url.QueryEscape(string(payload))
		}
	} else {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return c.networkFailure(procedure, fmt.Errorf("failed to create request: %w", err)), nil
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return c.networkFailure(procedure, fmt.Errorf("request timed out after %s", c.timeout)), nil
		}
		return c.networkFailure(procedure, err), nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.networkFailure(procedure, fmt.Errorf("failed to read response: %w", err)), nil
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok && !isErrorEnvelope(raw) {
		return c.networkFailure(procedure, fmt.Errorf("unexpected status %d", resp.StatusCode)), nil
	}

	var env trpc.Envelope
	if err := json.Unmarshal(raw, &env); err != nil || (ok && env.Result == nil && env.Error == nil) {
		return c.networkFailure(procedure, errors.New("malformed response envelope")), nil
	}

	c.log.Debug("procedure called",
		"procedure", procedure, "method", method, "status", resp.StatusCode, "elapsed", time.Since(start))
	return &Response{StatusCode: resp.StatusCode, Envelope: env, transformer: c.transformer}, nil
}

func (c *Client) networkFailure(procedure string, err error) *Response {
	c.log.Warn("procedure call failed", "procedure", procedure, "error", err)
	return &Response{
		StatusCode:  http.StatusServiceUnavailable,
		Envelope:    trpc.NetworkErrorEnvelope(err.Error()),
		transformer: c.transformer,
	}
}

// isErrorEnvelope reports whether body is a well-formed procedure error.
func isErrorEnvelope(body []byte) bool {
	if !gjson.ValidBytes(body) {
		return false
	}
	e := gjson.GetBytes(body, "error")
	return e.IsObject() && e.Get("code").Type == gjson.String && e.Get("message").Type == gjson.String
}
