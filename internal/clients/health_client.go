// internal/clients/health_client.go
package clients

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HealthClient checks that a ShareIt server or gateway is serving.
type HealthClient struct {
	base
}

func NewHealthClient(baseURL string, hc *http.Client) *HealthClient {
	return &HealthClient{base: newBase(baseURL, hc)}
}

// Check calls GET /health once.
func (c *HealthClient) Check(ctx context.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", uuid.Nil, nil, &body); err != nil {
		return err
	}
	if body.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", body.Status)
	}
	return nil
}

// WaitReady retries Check every interval until it succeeds or ctx is done.
func (c *HealthClient) WaitReady(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := c.Check(ctx)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s not ready: %w", c.baseURL, err)
		case <-ticker.C:
		}
	}
}
