package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"labprobe/utils"
)

// Response is the decoded outcome of one backend call.
type Response struct {
	Status  int
	Body    []byte
	Headers http.Header
	Latency time.Duration
}

// Envelope parses the response body as a standard backend envelope.
func (r Response) Envelope() (Envelope, error) {
	return ParseEnvelope(r.Body)
}

// Request describes one backend call. Body, when non-nil, is marshalled as JSON.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
	Token  string

	// Base overrides the executor's default base URL, for the membership host.
	Base string
}

// Executor issues requests against the diagnostics backend.
type Executor interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// HTTPExecutor is the production Executor. It throttles outbound calls,
// stamps each with a request id, and logs request/response pairs.
type HTTPExecutor struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPExecutor builds an executor for the given base URL. requestsPerMin
// bounds the outbound call rate across all goroutines sharing the executor.
func NewHTTPExecutor(baseURL string, timeout time.Duration, requestsPerMin int) *HTTPExecutor {
	if requestsPerMin <= 0 {
		requestsPerMin = 100
	}
	return &HTTPExecutor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMin)/60.0), requestsPerMin),
	}
}

// Do executes the request, returning the raw response. Non-2xx statuses are
// returned as an *APIError with the envelope msg when one can be parsed; the
// Response is still populated so callers can inspect conflict payloads.
func (e *HTTPExecutor) Do(ctx context.Context, req Request) (Response, error) {
	logger := utils.GetLogger()

	if err := e.limiter.Wait(ctx); err != nil {
		return Response{}, fmt.Errorf("rate limiter: %w", err)
	}

	base := req.Base
	if base == "" {
		base = e.baseURL
	}
	fullURL := base + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return Response{}, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	requestID := uuid.New().String()
	httpReq.Header.Set("X-Request-Id", requestID)
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		logger.Error("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return Response{}, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response body: %w", err)
	}

	out := Response{
		Status:  resp.StatusCode,
		Body:    body,
		Headers: resp.Header,
		Latency: time.Since(start),
	}

	logger.Debug("request completed",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", out.Latency),
		zap.String("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Path: req.Path}
		if env, perr := ParseEnvelope(body); perr == nil {
			apiErr.Msg = env.Msg
		}
		return out, apiErr
	}
	return out, nil
}
