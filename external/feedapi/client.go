package feedapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
	"github.com/matchdayhq/squad-engine/internal/domain/round"
	"github.com/matchdayhq/squad-engine/internal/platform/logging"
	"github.com/matchdayhq/squad-engine/internal/platform/resilience"
	"github.com/matchdayhq/squad-engine/internal/usecase"
)

const (
	defaultTimeout     = 20 * time.Second
	maxResponseBody    = 6 << 20
	playersPathPattern = "/v1/leagues/%s/players"
	roundsPathPattern  = "/v1/leagues/%s/rounds"
)

var errFeedTransient = crerr.New("feed transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls the player and round catalog from the upstream feed API.
// It implements usecase.CatalogProvider.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	return &Client{
		httpClient: &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBody,
		},
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     maxRetries(cfg.MaxRetries),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

func (c *Client) FetchPlayers(ctx context.Context, leagueID string) ([]player.Player, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("league id is required")
	}

	var envelope playersEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf(playersPathPattern, leagueID), &envelope); err != nil {
		return nil, fmt.Errorf("fetch players league_id=%s: %w", leagueID, err)
	}

	out := make([]player.Player, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped, ok := mapFeedPlayer(leagueID, item)
		if !ok {
			c.logger.WarnContext(ctx, "skip malformed feed player",
				"league_id", leagueID,
				"player_id", item.ID,
				"position", item.Position,
			)
			continue
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (c *Client) FetchRounds(ctx context.Context, leagueID string) ([]round.Round, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("league id is required")
	}

	var envelope roundsEnvelope
	if err := c.doJSON(ctx, fmt.Sprintf(roundsPathPattern, leagueID), &envelope); err != nil {
		return nil, fmt.Errorf("fetch rounds league_id=%s: %w", leagueID, err)
	}

	out := make([]round.Round, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		mapped, err := mapFeedRound(leagueID, item)
		if err != nil {
			c.logger.WarnContext(ctx, "skip malformed feed round",
				"league_id", leagueID,
				"round_id", item.ID,
				"error", err,
			)
			continue
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: catalog feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isFeedCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := c.doOnce(fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !stderrors.Is(err, errFeedTransient) {
			return nil, err
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) doOnce(fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+c.token)
	}

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errFeedTransient, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		body := abbreviateBody(resp.Body())
		if isRetryableStatus(status) {
			return nil, fmt.Errorf("%w: feed status=%d body=%s", errFeedTransient, status, body)
		}
		return nil, fmt.Errorf("feed status=%d body=%s", status, body)
	}

	// The response buffer is pooled, copy before release.
	return append([]byte(nil), resp.Body()...), nil
}

func isFeedCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errFeedTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const max = 512
	text := strings.TrimSpace(string(raw))
	if len(text) <= max {
		return text
	}
	return text[:max] + "...(truncated)"
}

func maxRetries(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
