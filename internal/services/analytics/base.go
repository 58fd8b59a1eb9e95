package analytics

import (
    "context"
    "fmt"
    "time"

    "AgroPulse/pkg/config"
    xhttp "AgroPulse/pkg/http"
)

// HTTPServiceBase centralizes client construction and JSON POST handling for remote providers.
type HTTPServiceBase struct {
    baseURL string
    client  *xhttp.Client
}

// NewHTTPServiceBase builds a retrying HTTP client from the predictions config.
func NewHTTPServiceBase(cfg *config.Config) *HTTPServiceBase {
    timeout := cfg.Predictions.Timeout
    if timeout <= 0 {
        timeout = 5 * time.Second
    }
    return &HTTPServiceBase{
        baseURL: cfg.Predictions.RemoteURL,
        client: xhttp.NewClient(
            xhttp.WithTimeout(timeout),
            xhttp.WithRetries(cfg.Predictions.Retries, 100*time.Millisecond),
        ),
    }
}

// PostJSON posts payload to path under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
    if b.client == nil || b.baseURL == "" {
        return fmt.Errorf("prediction http client not initialized")
    }
    if err := b.client.PostJSON(ctx, b.baseURL+path, payload, dest); err != nil {
        return fmt.Errorf("post %s: %w", path, err)
    }
    return nil
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
    if d <= 0 {
        return ctx.Err()
    }
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return ctx.Err()
    case <-t.C:
        return nil
    }
}
