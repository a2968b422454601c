package jobqueue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matchdayhq/squad-engine/internal/usecase"
)

type PublisherConfig struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// Publisher pushes transfer penalty events to the scoring settlement queue.
// Delivery is at-least-once; the deduplication id keeps replays idempotent
// on the consumer side.
type Publisher struct {
	client   *http.Client
	endpoint string
	token    string
	logger   *slog.Logger
}

type penaltyEventPayload struct {
	SquadID     string `json:"squad_id"`
	UserID      string `json:"user_id"`
	LeagueID    string `json:"league_id"`
	RoundID     string `json:"round_id"`
	PlayerOutID string `json:"player_out_id"`
	PlayerInID  string `json:"player_in_id"`
	Points      int    `json:"points"`
	OccurredAt  string `json:"occurred_at_utc"`
}

func NewPublisher(cfg PublisherConfig, logger *slog.Logger) (*Publisher, error) {
	endpoint, err := validateHTTPEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid EVENT_QUEUE_ENDPOINT")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		token:    strings.TrimSpace(cfg.Token),
		logger:   logger,
	}, nil
}

func (p *Publisher) PublishTransferPenalty(ctx context.Context, event usecase.TransferPenaltyEvent) error {
	payload := penaltyEventPayload{
		SquadID:     event.SquadID,
		UserID:      event.UserID,
		LeagueID:    event.LeagueID,
		RoundID:     event.RoundID,
		PlayerOutID: event.PlayerOutID,
		PlayerInID:  event.PlayerInID,
		Points:      event.Points,
		OccurredAt:  event.OccurredAt.UTC().Format(time.RFC3339),
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return crerr.Wrap(err, "marshal penalty event")
	}

	deduplicationID := penaltyDeduplicationID(event)
	curlPreview := buildCurlPreview(p.endpoint, deduplicationID, string(body), p.token != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("jobqueue.endpoint", p.endpoint),
			attribute.String("jobqueue.deduplication_id", deduplicationID),
			attribute.String("jobqueue.request_curl_preview", curlPreview),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create penalty event request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Deduplication-Id", deduplicationID)
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("publish penalty event squad_id=%s: %w", event.SquadID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf(
			"publish penalty event status=%d squad_id=%s body=%s",
			resp.StatusCode,
			event.SquadID,
			strings.TrimSpace(string(raw)),
		)
	}

	p.logger.InfoContext(ctx, "penalty event published",
		"squad_id", event.SquadID,
		"round_id", event.RoundID,
		"deduplication_id", deduplicationID,
	)
	return nil
}

// One transfer produces one penalty event; replaying the same transfer
// keys to the same id.
func penaltyDeduplicationID(event usecase.TransferPenaltyEvent) string {
	return fmt.Sprintf("penalty:%s:%s:%s:%s", event.SquadID, event.RoundID, event.PlayerOutID, event.PlayerInID)
}

func validateHTTPEndpoint(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildCurlPreview(endpoint string, deduplicationID string, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(endpoint))
	appendHeader("Content-Type: application/json")
	appendHeader("X-Deduplication-Id: " + deduplicationID)
	if withToken {
		appendHeader("Authorization: Bearer ***")
	}
	appendPart("-d")
	appendPart(shellQuote(truncateForLog(body, 4096)))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
