package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"onboarding/internal/platform/requestctx"
)

var ErrUnexpectedStatus = errors.New("webhook returned unexpected status")

// Poster delivers a JSON payload to an external integration endpoint.
type Poster interface {
	Post(ctx context.Context, payload any) error
}

type noopPoster struct{}

func (noopPoster) Post(ctx context.Context, payload any) error {
	return nil
}

type httpPoster struct {
	url    string
	client *http.Client
}

// New returns a poster for url. An empty url disables delivery.
func New(url string, timeout time.Duration) Poster {
	if strings.TrimSpace(url) == "" {
		return noopPoster{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpPoster{url: url, client: &http.Client{Timeout: timeout}}
}

func (p *httpPoster) Post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID := requestctx.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}
