package jobqueue

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/matchdayhq/squad-engine/internal/usecase"
)

func testEvent() usecase.TransferPenaltyEvent {
	return usecase.TransferPenaltyEvent{
		SquadID:     "squad-1",
		UserID:      "user-1",
		LeagueID:    "wc-2026",
		RoundID:     "round-2",
		PlayerOutID: "pl-4",
		PlayerInID:  "pl-9",
		Points:      -4,
		OccurredAt:  time.Date(2026, 6, 21, 10, 30, 0, 0, time.UTC),
	}
}

func TestPublisher_PublishTransferPenalty(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		headers http.Header
		body    []byte
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		mu.Lock()
		headers = r.Header.Clone()
		body = raw
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	publisher, err := NewPublisher(PublisherConfig{
		Endpoint: server.URL,
		Token:    "queue-token",
		Timeout:  2 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := publisher.PublishTransferPenalty(context.Background(), testEvent()); err != nil {
		t.Fatalf("unexpected publish error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if got := headers.Get("Authorization"); got != "Bearer queue-token" {
		t.Fatalf("expected bearer token header, got=%q", got)
	}
	if got := headers.Get("X-Deduplication-Id"); got != "penalty:squad-1:round-2:pl-4:pl-9" {
		t.Fatalf("unexpected deduplication id %q", got)
	}

	var payload penaltyEventPayload
	if err := sonic.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.SquadID != "squad-1" || payload.Points != -4 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.OccurredAt != "2026-06-21T10:30:00Z" {
		t.Fatalf("unexpected occurred_at %q", payload.OccurredAt)
	}
}

func TestPublisher_NonSuccessStatusIsError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue full", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher, err := NewPublisher(PublisherConfig{Endpoint: server.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := publisher.PublishTransferPenalty(context.Background(), testEvent()); err == nil {
		t.Fatalf("expected error for 503 response")
	}
}

func TestNewPublisher_RejectsBadEndpoint(t *testing.T) {
	t.Parallel()

	cases := []string{"", "ftp://queue.example.com", "://broken"}
	for _, endpoint := range cases {
		if _, err := NewPublisher(PublisherConfig{Endpoint: endpoint}, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
			t.Fatalf("expected endpoint %q to be rejected", endpoint)
		}
	}
}
