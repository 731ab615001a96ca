// Package gateway is the REST client for the clinic backend. Every call
// issues exactly one HTTP request and folds the answer into either a Result
// (mutations) or a non-nil listing plus an error (reads).
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/clinic-dashboard/internal/observability/metrics"
	"github.com/wolfman30/clinic-dashboard/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// FilterEncoding selects how doctor filter criteria travel to the backend.
type FilterEncoding string

const (
	// EncodePath uses /doctor/filter/{name}/{time}/{specialty} with the
	// NoConstraint sentinel for absent dimensions.
	EncodePath FilterEncoding = "path"
	// EncodeQuery uses query parameters, where absence is true absence.
	EncodeQuery FilterEncoding = "query"
)

// Client is an HTTP client for the clinic backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.GatewayMetrics
	tracer     trace.Tracer
	encoding   FilterEncoding
	now        func() time.Time
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client-side timeout applied to every call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records per-operation counters and latencies.
func WithMetrics(m *metrics.GatewayMetrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithFilterEncoding picks the doctor filter wire format.
func WithFilterEncoding(enc FilterEncoding) ClientOption {
	return func(c *Client) {
		if enc == EncodeQuery {
			c.encoding = EncodeQuery
		} else {
			c.encoding = EncodePath
		}
	}
}

// NewClient creates a backend client rooted at baseURL
// (e.g. "http://localhost:8080").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.Default(),
		tracer:     otel.Tracer("clinic.internal.gateway"),
		encoding:   EncodePath,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Component("gateway")
	return c
}

// response is a fully read HTTP answer.
type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool { return r.status >= 200 && r.status <= 299 }

func (r *response) rejected() bool {
	return r.status == http.StatusUnauthorized || r.status == http.StatusForbidden
}

// message extracts the server's "message" or "error" field.
func (r *response) message() string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(r.body) == 0 || json.Unmarshal(r.body, &payload) != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// do issues one request. A non-nil error always wraps ErrTransport; HTTP
// status handling is left to the callers.
func (c *Client) do(ctx context.Context, op, method, path, token string, body any) (*response, error) {
	ctx, span := c.tracer.Start(ctx, "clinic.gateway."+op)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("clinic.operation", op),
	)

	start := c.now()
	resp, err := c.roundTrip(ctx, method, path, token, body)
	elapsed := c.now().Sub(start).Seconds()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.metrics.ObserveRequest(op, "transport_error", elapsed)
		c.logger.Warn("backend request failed", "op", op, "method", method, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrTransport, op, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.status))
	outcome := "ok"
	switch {
	case resp.rejected():
		outcome = "expired"
	case !resp.ok():
		outcome = "app_error"
	}
	if outcome != "ok" {
		span.SetStatus(codes.Error, outcome)
		c.logger.Warn("backend non-2xx response", "op", op, "status", resp.status, "body", truncate(string(resp.body), maxLoggedBody))
	}
	c.metrics.ObserveRequest(op, outcome, elapsed)
	return resp, nil
}

const maxLoggedBody = 300

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, body any) (*response, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &response{status: resp.StatusCode, body: respBody}, nil
}

// read performs a GET and decodes a 2xx body into out.
func (c *Client) read(ctx context.Context, op, path, token string, out any) error {
	resp, err := c.do(ctx, op, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	if resp.rejected() && token != "" {
		return fmt.Errorf("%s: %w", op, ErrSessionExpired)
	}
	if !resp.ok() {
		return &APIError{Status: resp.status, Message: resp.message()}
	}
	if len(resp.body) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("gateway: %s: decode response: %w", op, err)
	}
	return nil
}

// mutate performs a write and folds every outcome into a Result.
func (c *Client) mutate(ctx context.Context, op, method, path, token string, body any) Result {
	resp, err := c.do(ctx, op, method, path, token, body)
	if err != nil {
		return failure(MsgNetwork)
	}
	res := Result{
		Success: resp.ok(),
		Status:  resp.status,
		Message: resp.message(),
		Expired: resp.rejected() && token != "",
	}
	if !res.Success && res.Message == "" {
		res.Message = MsgGeneric
	}
	return res
}

func seg(value string) string { return url.PathEscape(value) }
