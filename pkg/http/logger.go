package http

import (
	"todo-api/pkg/log"

	"go.uber.org/zap"
)

// HTTPLogger interface defines methods for logging HTTP requests and responses
type HTTPLogger interface {
	// LogRequest is called before the request is sent with all request data formed
	LogRequest(method, url string, headers map[string]string, body string)

	// LogResponseSuccess is called immediately after receiving a successful response (non-error HTTP status)
	LogResponseSuccess(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64)

	// LogResponseError is called immediately after receiving an error response (error HTTP status)
	LogResponseError(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error)

	// LogRequestRetry is called when backoff exists and a retry attempt is about to be made
	LogRequestRetry(method, url string, headers map[string]string, body string, httpStatus int, responseBody string, latency int64, err error, retryCount, maxRetries int)
}

// ZapHTTPLogger writes HTTP events through pkg/log. Bodies are only logged at debug level.
type ZapHTTPLogger struct{}

var _ HTTPLogger = ZapHTTPLogger{}

func NewZapHTTPLogger() ZapHTTPLogger {
	return ZapHTTPLogger{}
}

func (ZapHTTPLogger) LogRequest(method, url string, _ map[string]string, body string) {
	log.Debug("http request", zap.String("method", method), zap.String("url", url), zap.String("body", body))
}

func (ZapHTTPLogger) LogResponseSuccess(method, url string, _ map[string]string, _ string, httpStatus int, responseBody string, latency int64) {
	log.Debug("http response",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latencyMs", latency),
		zap.String("responseBody", responseBody))
}

func (ZapHTTPLogger) LogResponseError(method, url string, _ map[string]string, _ string, httpStatus int, _ string, latency int64, err error) {
	log.Warn("http request failed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int64("latencyMs", latency),
		zap.Error(err))
}

func (ZapHTTPLogger) LogRequestRetry(method, url string, _ map[string]string, _ string, httpStatus int, _ string, _ int64, err error, retryCount, maxRetries int) {
	log.Warn("http request retry",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", httpStatus),
		zap.Int("retry", retryCount),
		zap.Int("maxRetries", maxRetries),
		zap.Error(err))
}
