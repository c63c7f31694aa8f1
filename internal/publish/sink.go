package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/coe-acad/p2p-solar-trade/pkg/types"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Sink delivers a submission batch to the trade-acceptance endpoint.
type Sink interface {
	Submit(ctx context.Context, req *types.SubmissionRequest) error
}

// HTTPSink posts submissions to a remote trade-acceptance endpoint.
type HTTPSink struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPSink creates a sink targeting url.
func NewHTTPSink(url string, timeout time.Duration, logger *zap.Logger) *HTTPSink {
	return &HTTPSink{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Submit posts the batch. A non-2xx status is an error; the caller decides
// whether that aborts anything.
func (s *HTTPSink) Submit(ctx context.Context, req *types.SubmissionRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	s.logger.Debug("submitting-trades",
		zap.String("url", s.url),
		zap.Int("trades", len(req.Trades)))

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
