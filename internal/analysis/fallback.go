package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Hints give the fallback service context that improves its guesses:
// bookmaker names the user already tracks and recent bet events.
type Hints struct {
	Bookmakers   []string `json:"bookmakers,omitempty"`
	RecentEvents []string `json:"recent_events,omitempty"`
}

// RemoteFields is the fallback service's best-effort structured guess.
type RemoteFields struct {
	Bookmaker string   `json:"bookmaker"`
	Stake     *float64 `json:"stake"`
	Odds      *float64 `json:"odds"`
	Market    string   `json:"market"`
	Event     string   `json:"event"`
	Date      string   `json:"date"`
	Promotion string   `json:"promotion"`
	Status    string   `json:"status"`
}

// FallbackClient is the external AI collaborator. Rate limiting must be
// reported as ErrRateLimited so the orchestrator can run its single
// delayed retry.
type FallbackClient interface {
	Extract(ctx context.Context, image []byte, hints Hints) (*RemoteFields, error)
}

// FallbackConfig holds HTTP fallback client settings.
type FallbackConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64 // requests per second
}

// HTTPFallbackClient calls the AI extraction service over HTTP. Its
// retry layer handles transient network errors only; the rate-limit
// retry policy belongs to the orchestrator.
type HTTPFallbackClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	config  FallbackConfig
	logger  *logrus.Logger
}

// NewHTTPFallbackClient creates a fallback client.
func NewHTTPFallbackClient(cfg FallbackConfig, logger *logrus.Logger) *HTTPFallbackClient {
	client := retryablehttp.NewClient()
	client.HTTPClient.Timeout = cfg.Timeout
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil
	client.CheckRetry = fallbackRetryPolicy

	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 1
	}

	return &HTTPFallbackClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		config:  cfg,
		logger:  logger,
	}
}

// fallbackRetryPolicy retries transient failures and 5xx responses but
// never 429: the orchestrator owns rate-limit handling.
func fallbackRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp != nil && resp.StatusCode >= 500 {
		return true, nil
	}
	return false, nil
}

type fallbackRequest struct {
	ImageBase64 string `json:"image_base64"`
	Hints       Hints  `json:"hints"`
}

type fallbackResponse struct {
	Fields *RemoteFields `json:"fields"`
}

// Extract asks the AI service for a structured guess at the slip.
func (c *HTTPFallbackClient) Extract(ctx context.Context, image []byte, hints Hints) (*RemoteFields, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFallbackUnavailable, err)
	}

	start := time.Now()
	defer func() {
		FallbackLatency.Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(fallbackRequest{
		ImageBase64: base64.StdEncoding.EncodeToString(image),
		Hints:       hints,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/v1/extract", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFallbackUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).Warn("AI fallback request failed")
		return nil, fmt.Errorf("%w: %v", ErrFallbackUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFallbackUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	var parsed fallbackResponse
	if err := json.Unmarshal(data, &parsed); err != nil || parsed.Fields == nil {
		return nil, fmt.Errorf("%w: unparsable payload", ErrInvalidResponse)
	}
	return parsed.Fields, nil
}
