package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/matchdayhq/squad-engine/internal/domain/user"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.GetMySquad", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
		{name: "validation helper span", in: "httpapi.validateRequest", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSquadMutation_SingleHandlerSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	router, verifier := newTestRouter(t)
	token := verifier.Issue(user.Principal{UserID: "user-1"})

	ids := make([]string, 0, 15)
	for _, p := range routerCatalog() {
		ids = append(ids, `"`+p.ID+`"`)
	}
	createPayload := `{"league_id":"league-1","team_name":"Trace FC","player_ids":[` + strings.Join(ids, ",") + `]}`
	createReq := httptest.NewRequest(http.MethodPost, "/v1/squads", strings.NewReader(createPayload))
	createReq.Header.Set("Authorization", "Bearer "+token)
	createRec := httptest.NewRecorder()
	router.ServeHTTP(createRec, createReq)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create squad failed: %d %s", createRec.Code, createRec.Body.String())
	}

	req := httptest.NewRequest(http.MethodPut, "/v1/squads/me/team-name", strings.NewReader(`{"league_id":"league-1","team_name":"Renamed FC"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update team name failed: %d %s", rec.Code, rec.Body.String())
	}

	var handlerSpan sdktrace.ReadOnlySpan
	for _, span := range recorder.Ended() {
		if span.Name() == "httpapi.Handler.UpdateTeamName" {
			handlerSpan = span
		}
	}
	if handlerSpan == nil {
		t.Fatal("handler span not recorded")
	}

	traceID := handlerSpan.SpanContext().TraceID()
	handlerSpans := 0
	var usecaseParent trace.SpanContext
	for _, span := range recorder.Ended() {
		if span.SpanContext().TraceID() != traceID {
			continue
		}
		if strings.HasPrefix(span.Name(), "httpapi.Handler.") {
			handlerSpans++
		}
		if span.Name() == "usecase.SquadService.UpdateTeamName" {
			usecaseParent = span.Parent()
		}
	}
	if handlerSpans != 1 {
		t.Fatalf("expected exactly one handler span in the request trace, got %d", handlerSpans)
	}
	if usecaseParent.SpanID() != handlerSpan.SpanContext().SpanID() {
		t.Fatal("usecase span is not a direct child of the handler span")
	}
}
