package frappe

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

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
	"github.com/SscSPs/ledger_bridge/internal/platform/metrics"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxFailures     = 5
	defaultOpenTimeout     = 30 * time.Second
	maxErrorBodyBytes      = 64 << 10
	breakerName            = "ledger"
	messageCircuitOpen     = "ledger is unavailable (circuit breaker open)"
	messageInvalidResponse = "invalid response body"
)

// Config holds the connection settings of the remote ledger.
type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
	// BearerToken takes precedence over APIKey/APISecret when set.
	BearerToken        string
	Timeout            time.Duration
	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

// DefaultHeadersTransport adds token authentication and JSON headers to every request.
type DefaultHeadersTransport struct {
	APIKey    string
	APISecret string
	T         http.RoundTripper
}

func (t *DefaultHeadersTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", t.APIKey, t.APISecret))
	}
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return t.T.RoundTrip(req)
}

// Client talks to a Frappe/ERPNext REST API.
// Every call goes through one circuit breaker; the client never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	metrics    metrics.Collector
}

// NewClient creates a ledger client. A nil collector disables metrics.
func NewClient(cfg Config, collector metrics.Collector) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("ledger base URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid ledger base URL %q: %w", cfg.BaseURL, err)
	}
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BreakerMaxFailures == 0 {
		cfg.BreakerMaxFailures = defaultMaxFailures
	}
	if cfg.BreakerOpenTimeout <= 0 {
		cfg.BreakerOpenTimeout = defaultOpenTimeout
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: newHTTPClient(cfg),
		metrics:    collector,
	}

	maxFailures := cfg.BreakerMaxFailures
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			collector.RecordCircuitState(name, circuitState(to))
		},
	})
	collector.RecordCircuitState(breakerName, metrics.CircuitClosed)

	return c, nil
}

func newHTTPClient(cfg Config) *http.Client {
	headers := &DefaultHeadersTransport{T: http.DefaultTransport}
	if cfg.BearerToken == "" {
		headers.APIKey = cfg.APIKey
		headers.APISecret = cfg.APISecret
		return &http.Client{Timeout: cfg.Timeout, Transport: headers}
	}

	base := &http.Client{Timeout: cfg.Timeout, Transport: headers}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: cfg.BearerToken,
		TokenType:   "Bearer",
	}))
	client.Timeout = cfg.Timeout
	return client
}

// isBreakerSuccess keeps requests the ledger rejected on their merits (4xx) from tripping the breaker.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var gwErr *apperrors.GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.StatusCode >= 400 && gwErr.StatusCode < 500
	}
	return false
}

func circuitState(s gobreaker.State) metrics.CircuitState {
	switch s {
	case gobreaker.StateOpen:
		return metrics.CircuitOpen
	case gobreaker.StateHalfOpen:
		return metrics.CircuitHalfOpen
	default:
		return metrics.CircuitClosed
	}
}

// call describes one request to the ledger.
type call struct {
	operation string
	docType   string
	method    string
	path      string
	query     url.Values
	body      any
}

// do executes c through the breaker and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, req call, out any) error {
	start := time.Now()
	_, err := c.cb.Execute(func() (any, error) {
		return nil, c.roundTrip(ctx, req, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = &apperrors.GatewayError{Operation: req.operation, DocType: req.docType, Message: messageCircuitOpen}
	}

	duration := time.Since(start)
	c.metrics.RecordGatewayCall(req.operation, req.docType, err == nil, duration)

	logger := middleware.GetLoggerFromCtx(ctx)
	if err != nil {
		logger.Warn("Ledger call failed",
			slog.String("operation", req.operation),
			slog.String("doc_type", req.docType),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()),
		)
		return err
	}
	logger.Debug("Ledger call finished",
		slog.String("operation", req.operation),
		slog.String("doc_type", req.docType),
		slog.Duration("duration", duration),
	)
	return nil
}

func (c *Client) roundTrip(ctx context.Context, req call, out any) error {
	gatewayErr := func(status int, msg string) error {
		return &apperrors.GatewayError{Operation: req.operation, DocType: req.docType, StatusCode: status, Message: msg}
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", req.operation, err)
		}
		body = bytes.NewReader(payload)
	}

	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", req.operation, err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return gatewayErr(0, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		msg := remoteErrorMessage(raw)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return gatewayErr(resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return gatewayErr(resp.StatusCode, fmt.Sprintf("%s: %s", messageInvalidResponse, err.Error()))
	}
	return nil
}

// remoteErrorMessage extracts the human readable message from a Frappe error body.
// _server_messages is a JSON-encoded list of JSON-encoded objects.
func remoteErrorMessage(raw []byte) string {
	var body struct {
		Exception      string `json:"exception"`
		ServerMessages string `json:"_server_messages"`
		Message        any    `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}

	if body.ServerMessages != "" {
		var encoded []string
		if err := json.Unmarshal([]byte(body.ServerMessages), &encoded); err == nil {
			msgs := make([]string, 0, len(encoded))
			for _, e := range encoded {
				var m struct {
					Message string `json:"message"`
				}
				if err := json.Unmarshal([]byte(e), &m); err == nil && m.Message != "" {
					msgs = append(msgs, m.Message)
				} else if e != "" {
					msgs = append(msgs, e)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if body.Exception != "" {
		return body.Exception
	}
	if s, ok := body.Message.(string); ok {
		return s
	}
	return ""
}
