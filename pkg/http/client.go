package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given status code.
func IsStatus(err error, status int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == status
}

// Client represents an HTTP client with configuration options.
type Client struct {
	baseURL            string
	client             *http.Client
	followRedirect     bool
	dismiss404         bool
	defaultHeaders     map[string]string
	defaultContentType string
	backoff            *BackoffConfig
	logger             HTTPLogger
}

// ClientOptions represents the configuration options for the HTTP client.
type ClientOptions struct {
	FollowRedirect      bool
	Dismiss404          bool
	DefaultHeaders      map[string]string
	DefaultContentType  string
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	ConnectionTimeout   time.Duration
	ReadTimeout         time.Duration
	// Backoff is the default retry policy, nil disables retries
	Backoff *BackoffConfig
	// Logger receives request and response events, nil disables logging
	Logger HTTPLogger
	// Transport replaces the pooled transport built from the options above
	Transport http.RoundTripper
}

// NewHttpClient creates a new HTTP client with the given base URL and configuration options.
func NewHttpClient(baseURL string, opts ClientOptions) *Client {
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 200
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 20
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 60 * time.Second
	}
	if opts.DefaultContentType == "" {
		opts.DefaultContentType = "application/json"
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			MaxIdleConns:        opts.MaxIdleConns,
			MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
			IdleConnTimeout:     opts.IdleConnTimeout,
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.ReadTimeout,
	}

	if !opts.FollowRedirect {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Client{
		baseURL:            strings.TrimRight(baseURL, "/"),
		client:             client,
		followRedirect:     opts.FollowRedirect,
		dismiss404:         opts.Dismiss404,
		defaultHeaders:     opts.DefaultHeaders,
		defaultContentType: opts.DefaultContentType,
		backoff:            opts.Backoff,
		logger:             opts.Logger,
	}
}

// Request creates a new Request object for the client.
func (hc *Client) Request() *Request {
	return NewHttpClientRequest(hc)
}

// doRequestWithBackoff sends the request, retrying with the request backoff or the client default.
func (hc *Client) doRequestWithBackoff(ctx context.Context, method, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any, backoff *BackoffConfig) (any, any, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if backoff == nil {
		backoff = hc.backoff
	}

	payload, contentType, err := hc.encodeBody(body)
	if err != nil {
		return nil, nil, 0, err
	}

	target := hc.buildURL(path)
	if len(queryParams) > 0 {
		target += "?" + buildQueryString(queryParams)
	}

	maxRetries := 0
	if backoff != nil {
		maxRetries = backoff.MaxRetries
	}

	for attempt := 0; ; attempt++ {
		result := hc.doRequest(ctx, method, target, headers, payload, contentType, successResp, errorResp)

		if attempt >= maxRetries || !backoff.shouldRetry(method, result.status, result.transportErr) {
			return result.success, result.errorResp, result.status, result.err
		}

		if hc.logger != nil {
			hc.logger.LogRequestRetry(method, target, result.headers, string(payload), result.status, result.body, result.latency, result.err, attempt+1, maxRetries)
		}

		select {
		case <-ctx.Done():
			return nil, nil, result.status, ctx.Err()
		case <-time.After(backoff.delay(attempt)):
		}
	}
}

type attemptResult struct {
	success      any
	errorResp    any
	status       int
	err          error
	transportErr error
	headers      map[string]string
	body         string
	latency      int64
}

// doRequest performs a single attempt and decodes the response into successResp or errorResp.
func (hc *Client) doRequest(ctx context.Context, method, target string, headers map[string]string, payload []byte, contentType string, successResp any, errorResp any) attemptResult {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return attemptResult{err: err}
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range hc.defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	requestHeaders := flattenHeaders(req.Header)
	if hc.logger != nil {
		hc.logger.LogRequest(method, target, requestHeaders, string(payload))
	}

	start := time.Now()
	resp, err := hc.client.Do(req)
	if err != nil {
		latency := time.Since(start).Milliseconds()
		if hc.logger != nil {
			hc.logger.LogResponseError(method, target, requestHeaders, string(payload), 0, "", latency, err)
		}
		return attemptResult{err: err, transportErr: err, headers: requestHeaders, latency: latency}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return attemptResult{status: resp.StatusCode, err: err, transportErr: err, headers: requestHeaders, latency: latency}
	}

	result := attemptResult{
		status:  resp.StatusCode,
		headers: requestHeaders,
		body:    string(bodyBytes),
		latency: latency,
	}

	respContentType := resp.Header.Get("Content-Type")
	if respContentType == "" {
		respContentType = hc.defaultContentType
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if hc.logger != nil {
			hc.logger.LogResponseSuccess(method, target, requestHeaders, string(payload), resp.StatusCode, result.body, latency)
		}
		if successResp != nil && len(bodyBytes) > 0 {
			if err := hc.unmarshalResponse(bodyBytes, respContentType, successResp); err != nil {
				result.err = fmt.Errorf("failed to decode response: %w", err)
				return result
			}
		}
		result.success = successResp
		return result
	}

	result.err = &StatusError{StatusCode: resp.StatusCode, Body: result.body}
	if hc.logger != nil {
		hc.logger.LogResponseError(method, target, requestHeaders, string(payload), resp.StatusCode, result.body, latency, result.err)
	}

	if resp.StatusCode == http.StatusNotFound && hc.dismiss404 {
		result.err = nil
		return result
	}

	if errorResp != nil && len(bodyBytes) > 0 {
		if err := hc.unmarshalResponse(bodyBytes, respContentType, errorResp); err == nil {
			result.errorResp = errorResp
		}
	}
	return result
}

// encodeBody serializes body once so that retries can resend the same bytes.
func (hc *Client) encodeBody(body any) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}

	switch body := body.(type) {
	case string:
		return []byte(body), "text/plain", nil
	case []byte:
		return body, "application/octet-stream", nil
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body to JSON: %w", err)
	}
	return jsonBody, "application/json", nil
}

// unmarshalResponse decodes JSON bodies. A *string target receives text/plain bodies verbatim.
func (hc *Client) unmarshalResponse(bodyBytes []byte, contentType string, target any) error {
	mainContentType := strings.TrimSpace(strings.Split(contentType, ";")[0])

	if strPtr, ok := target.(*string); ok && mainContentType == "text/plain" {
		*strPtr = string(bodyBytes)
		return nil
	}
	return json.Unmarshal(bodyBytes, target)
}

// buildURL builds a normalized URL by properly handling baseURL and path
func (hc *Client) buildURL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return hc.baseURL + path
}

// buildQueryString builds an encoded query string sorted by key
func buildQueryString(params map[string]string) string {
	values := url.Values{}
	for key, value := range params {
		values.Set(key, value)
	}
	return values.Encode()
}

func flattenHeaders(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for k := range header {
		flat[k] = header.Get(k)
	}
	return flat
}
