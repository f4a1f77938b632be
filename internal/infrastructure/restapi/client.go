// Package restapi is the typed client for the storefront REST API.
//
// Every failure surfaces as *domain.APIError: non-2xx responses carry their
// status and the server's message, transport failures carry status 0.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/metrics"
)

const (
	tracerName       = "github.com/digitalgoods/storefront/internal/infrastructure/restapi"
	maxErrorBodySize = 1 << 20
	headerRequestID  = "X-Request-ID"
)

// Config captures the settings for talking to the REST collaborator.
type Config struct {
	BaseURL string
	// Timeout bounds a whole request. Zero leaves it to the transport.
	Timeout time.Duration
	// Transport overrides http.DefaultTransport (tests).
	Transport http.RoundTripper
}

// Client is the typed wrapper over the storefront REST API. Session cookies
// set by the server are kept in the client's jar and attached to every
// request; their contents are never inspected.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     zerolog.Logger
	tracer  trace.Tracer
}

// New builds a Client with an empty cookie jar.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("restapi: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("restapi: base url %q must be absolute", cfg.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("restapi: cookie jar: %w", err)
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Jar:       jar,
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		log:    log.With().Str("component", "restapi").Logger(),
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Auth returns the customer-session endpoints.
func (c *Client) Auth() *AuthClient { return &AuthClient{c: c} }

// Admin returns the back-office session and user endpoints.
func (c *Client) Admin() *AdminClient { return &AdminClient{c: c} }

// Products returns the catalog endpoints.
func (c *Client) Products() *ProductClient { return &ProductClient{c: c} }

// Cart returns the cart endpoints.
func (c *Client) Cart() *CartClient { return &CartClient{c: c} }

// Orders returns the customer order endpoints.
func (c *Client) Orders() *OrderClient { return &OrderClient{c: c} }

// AdminOrders returns the back-office order endpoints.
func (c *Client) AdminOrders() *AdminOrderClient { return &AdminOrderClient{c: c} }

// Ping checks that the API answers at all. Any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL.String()+"/products", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	return nil
}

// call describes one request. route is the endpoint template used for metric
// and span names; path is the concrete path.
type call struct {
	method string
	route  string
	path   string
	query  url.Values
	body   any
	form   *multipartForm
	silent bool
}

// do performs the call and decodes a successful JSON response into out (when
// non-nil). Every failure is returned as *domain.APIError.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	ctx, span := c.tracer.Start(ctx, cl.method+" "+cl.route, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req, err := c.newRequest(ctx, cl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return &domain.APIError{Message: "could not build request", Cause: err}
	}

	requestID := uuid.NewString()
	req.Header.Set(headerRequestID, requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	span.SetAttributes(
		attribute.String("http.method", cl.method),
		attribute.String("http.route", cl.route),
		attribute.String("request.id", requestID),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(cl.route).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(cl.route, cl.method, "network").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		apiErr := &domain.APIError{Message: err.Error(), Cause: err}
		if !cl.silent {
			c.log.Error().Err(err).
				Str("method", cl.method).
				Str("path", cl.path).
				Str("request_id", requestID).
				Msg("api request failed")
		}
		return apiErr
	}
	defer resp.Body.Close()

	metrics.UpstreamRequestsTotal.WithLabelValues(cl.route, cl.method, outcome(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		apiErr := decodeError(resp.StatusCode, body)
		span.SetStatus(codes.Error, apiErr.Message)
		if !cl.silent {
			ev := c.log.Warn()
			if resp.StatusCode >= 500 {
				ev = c.log.Error()
			}
			ev.Int("status", resp.StatusCode).
				Str("method", cl.method).
				Str("path", cl.path).
				Str("request_id", requestID).
				Str("message", apiErr.Message).
				Msg("api request rejected")
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		span.RecordError(err)
		return &domain.APIError{
			StatusCode: resp.StatusCode,
			Message:    "malformed response body",
			Cause:      fmt.Errorf("decode %s %s: %w", cl.method, cl.path, err),
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	target := c.baseURL.String() + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var (
		body        io.Reader
		contentType = "application/json"
	)
	switch {
	case cl.form != nil:
		buf, ct, err := cl.form.encode()
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case cl.body != nil:
		raw, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func outcome(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
