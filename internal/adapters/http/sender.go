// Package http implements ports.Transport on top of net/http.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/policeoffice/policeoffice/internal/ports"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 1 << 20

// JSONSender implements ports.Transport using an HTTP client.
type JSONSender struct {
	client ports.HTTPClient
	logger ports.Logger
}

// NewJSONSender creates a new HTTP transport.
func NewJSONSender(client ports.HTTPClient, logger ports.Logger) *JSONSender {
	return &JSONSender{
		client: client,
		logger: logger,
	}
}

// Do sends req and returns the status code and body.
// Non-2xx statuses are not errors at this layer.
func (s *JSONSender) Do(ctx context.Context, req ports.Request) (ports.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return ports.Response{}, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return ports.Response{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return ports.Response{}, fmt.Errorf("read response: %w", err)
	}

	s.logger.Debug("report endpoint responded",
		ports.String("url", req.URL),
		ports.Int("status", resp.StatusCode),
		ports.Int("bytes", len(body)),
		ports.Duration("elapsed", time.Since(start)))

	return ports.Response{StatusCode: resp.StatusCode, Body: body}, nil
}
