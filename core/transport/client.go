// Package transport is the REST layer between the swap engine and the
// platform API. It returns raw response bytes on purpose: several endpoints
// answer with oneOf-style polymorphic bodies, and the caller has to branch on
// a discriminator before committing to a strict decode.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "X-Idempotency-Key"
	HeaderCorrelationID  = "Correlation-Id"
)

// Client is the minimal surface the swap engine needs from the REST layer:
// send a request, get back raw JSON or a typed error. Retry policy lives
// behind this interface, never in front of it.
type Client interface {
	Do(ctx context.Context, method string, path string, idempotencyKey string, body interface{}) ([]byte, error)
}

// APIError is a non-2xx answer from the platform API.
type APIError struct {
	StatusCode    int    `json:"-"`
	ErrorType     string `json:"errorType"`
	ErrorMessage  string `json:"errorMessage"`
	CorrelationID string `json:"correlationId"`
}

func (e *APIError) Error() string {
	if e.ErrorType == "" {
		return fmt.Sprintf("api error: http %d", e.StatusCode)
	}
	return fmt.Sprintf("api error %s (http %d): %s", e.ErrorType, e.StatusCode, e.ErrorMessage)
}

// RestClient implements Client on top of resty. Safe for concurrent use;
// independent swaps share one client.
type RestClient struct {
	client  *resty.Client
	baseURL string
	auth    *AuthKey
	logger  *zap.Logger
}

func NewRestClient(baseURL string, auth *AuthKey, logger *zap.Logger) *RestClient {
	client := resty.New()
	client.SetTimeout(1 * time.Minute)
	client.SetBaseURL(baseURL)

	if logger == nil {
		logger = zap.NewNop()
	}

	return &RestClient{
		client:  client,
		baseURL: baseURL,
		auth:    auth,
		logger:  logger,
	}
}

func (c *RestClient) Do(ctx context.Context, method string, path string, idempotencyKey string, body interface{}) ([]byte, error) {
	requestID := ulid.Make().String()

	request := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderCorrelationID, requestID)

	if idempotencyKey != "" {
		request.SetHeader(HeaderIdempotencyKey, idempotencyKey)
	}

	if body != nil {
		request.SetBody(body)
	}

	if c.auth != nil {
		token, err := c.auth.BearerToken(method, c.baseURL+path)
		if err != nil {
			return nil, fmt.Errorf("cannot build auth token: %w", err)
		}
		request.SetAuthToken(token)
	}

	started := time.Now()
	resp, err := request.Execute(method, path)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return nil, err
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(started)))

	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		// body may be non-JSON on proxy-level failures; the status code
		// alone still makes a usable error
		_ = json.Unmarshal(resp.Body(), apiErr)
		if apiErr.CorrelationID == "" {
			apiErr.CorrelationID = requestID
		}
		return nil, apiErr
	}

	return resp.Body(), nil
}
