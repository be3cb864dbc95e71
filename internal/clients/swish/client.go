package swish

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samandr77/microservices/swish/internal/entity"
	"github.com/samandr77/microservices/swish/pkg/idgen"
	"github.com/samandr77/microservices/swish/pkg/logger"
	"github.com/samandr77/microservices/swish/pkg/transport"
)

type IDGenerator interface {
	Next() (string, error)
}

// Client talks to the Swish payment request API over mutual TLS.
// It never retries and has no timeout of its own: every call is bounded by its context.
type Client struct {
	baseURL string
	c       *http.Client
	ids     IDGenerator
}

type Option func(c *Client)

// WithHTTPClient replaces the mutual TLS client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.c = hc
	}
}

func WithIDGenerator(ids IDGenerator) Option {
	return func(c *Client) {
		c.ids = ids
	}
}

func NewClient(baseURL string, tlsCfg *tls.Config, opts ...Option) *Client {
	t := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert
	t.TLSClientConfig = tlsCfg

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		c: &http.Client{
			Transport: transport.NewLoggingRoundTripper(t),
		},
		ids: idgen.New(nil),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CreatePaymentRequest submits a new payment request and fetches its state once.
//
// A rejection by Swish is returned as an ERROR state with a nil error. When the request was
// accepted but the follow-up fetch failed, a PENDING state with the location is returned
// together with the error so the caller can resume polling.
func (c *Client) CreatePaymentRequest(
	ctx context.Context,
	in entity.PaymentRequestInput,
) (entity.PaymentRequestState, error) {
	id, err := c.ids.Next()
	if err != nil {
		return entity.PaymentRequestState{}, fmt.Errorf("generate payment request id: %w", err)
	}

	ctx = logger.WithPaymentRequestID(ctx, id)

	b, err := json.Marshal(NewPaymentRequestBody(in))
	if err != nil {
		return entity.PaymentRequestState{}, fmt.Errorf("marshal request: %w", err)
	}

	reqURL := c.baseURL + "/paymentrequests/" + id

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, bytes.NewReader(b))
	if err != nil {
		return entity.PaymentRequestState{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, body, err := c.do(req)
	if err != nil {
		return entity.PaymentRequestState{}, err
	}

	if !isSuccess(resp.StatusCode) {
		apiErr, err := parseErrors(resp.StatusCode, body)
		if err != nil {
			return entity.PaymentRequestState{}, err
		}

		slog.WarnContext(ctx, "payment request rejected", "code", apiErr.ErrorCode, "status", resp.StatusCode)

		return entity.PaymentRequestState{
			ID:           id,
			StatusCode:   resp.StatusCode,
			Status:       entity.StatusError,
			ErrorCode:    apiErr.ErrorCode,
			ErrorMessage: apiErr.ErrorMessage,
		}, nil
	}

	loc, err := resp.Location()
	if err != nil {
		return entity.PaymentRequestState{}, fmt.Errorf("%w: http %d without location: %w",
			entity.ErrProtocol, resp.StatusCode, err)
	}

	location := loc.String()

	state, err := c.PaymentRequest(ctx, location)
	if err != nil {
		pending := entity.PaymentRequestState{
			ID:         id,
			Location:   location,
			StatusCode: resp.StatusCode,
			Status:     entity.StatusPending,
		}

		return pending, fmt.Errorf("fetch created payment request: %w", err)
	}

	return state, nil
}

// PaymentRequest fetches the current state behind a location returned on creation.
func (c *Client) PaymentRequest(ctx context.Context, location string) (entity.PaymentRequestState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return entity.PaymentRequestState{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, body, err := c.do(req)
	if err != nil {
		return entity.PaymentRequestState{}, err
	}

	if !isSuccess(resp.StatusCode) {
		apiErr, err := parseErrors(resp.StatusCode, body)
		if err != nil {
			return entity.PaymentRequestState{}, err
		}

		return entity.PaymentRequestState{
			ID:           idFromLocation(location),
			Location:     location,
			StatusCode:   resp.StatusCode,
			Status:       entity.StatusError,
			ErrorCode:    apiErr.ErrorCode,
			ErrorMessage: apiErr.ErrorMessage,
		}, nil
	}

	state, err := parseState(body)
	if err != nil {
		return entity.PaymentRequestState{}, err
	}

	state.Location = location
	state.StatusCode = resp.StatusCode

	return state, nil
}

func (c *Client) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.c.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s %s: %w", entity.ErrConnectivity, req.Method, req.URL.Redacted(), err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read response: %w", entity.ErrConnectivity, err)
	}

	return resp, body, nil
}

func isSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

func idFromLocation(location string) string {
	location = strings.TrimRight(location, "/")

	return location[strings.LastIndex(location, "/")+1:]
}
