package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/thedracle/openai-chat/internal/logging"
)

// loggingTransport records each round trip at debug level.
// Headers are never logged; the request body is only inspected for the
// model name and message count.
type loggingTransport struct {
	base   http.RoundTripper
	logger *logging.Logger
}

func newLoggingTransport(base http.RoundTripper, logger *logging.Logger) *loggingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &loggingTransport{base: base, logger: logger}
}

// RoundTrip implements http.RoundTripper
func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if !t.logger.Enabled(ctx, slog.LevelDebug) {
		return t.base.RoundTrip(req)
	}

	attrs := []any{"method", req.Method, "path", req.URL.Path}
	attrs = append(attrs, requestSummary(req)...)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	attrs = append(attrs, "duration", time.Since(start))

	if err != nil {
		t.logger.DebugContext(ctx, "api request failed", append(attrs, "error", err)...)
		return nil, err
	}

	t.logger.DebugContext(ctx, "api request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}

// requestSummary extracts loggable fields from a JSON request body
// without consuming it.
func requestSummary(req *http.Request) []any {
	if req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil || !gjson.ValidBytes(data) {
		return nil
	}

	summary := []any{
		"model", gjson.GetBytes(data, PathReqModel).String(),
		"messages", gjson.GetBytes(data, PathReqMessageCount).Int(),
	}
	if roles := gjson.GetBytes(data, PathReqRoles).Array(); len(roles) > 0 {
		summary = append(summary, "last_role", roles[len(roles)-1].String())
	}
	return summary
}
