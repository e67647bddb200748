package services

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/witherow/biostack/internal/models"
)

type fakeInteractionRuleReader struct {
	rules []models.InteractionRule
	calls int
}

func (reader *fakeInteractionRuleReader) FindInteractionRules(_ context.Context, _ []uint) ([]models.InteractionRule, error) {
	reader.calls++
	return reader.rules, nil
}

type fakeRatioRuleReader struct {
	rules []models.RatioRule
	calls int
}

func (reader *fakeRatioRuleReader) FindRatioRules(_ context.Context, _ []uint) ([]models.RatioRule, error) {
	reader.calls++
	return reader.rules, nil
}

func newTestLocalAnalyzer(interactionRules []models.InteractionRule, ratioRules []models.RatioRule) (*LocalAnalyzer, *fakeInteractionRuleReader, *fakeRatioRuleReader) {
	interactions := &fakeInteractionRuleReader{rules: interactionRules}
	ratios := &fakeRatioRuleReader{rules: ratioRules}
	timing := NewTimingService(&fakeTimingRuleReader{}, &fakeConflictLogReader{})
	return NewLocalAnalyzer(interactions, ratios, timing), interactions, ratios
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testInputs() []DosageInput {
	return []DosageInput{
		{SupplementID: 1, Dosage: 30, Unit: models.UnitMilligram},
		{SupplementID: 2, Dosage: 1, Unit: models.UnitMilligram},
	}
}

func TestFallbackAnalyzerUsesEngineResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Service-Key") != "secret" {
			t.Errorf("missing service key header")
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Errorf("missing request id header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"warning","warnings":[{"ruleId":1,"sourceSupplementId":1,"targetSupplementId":2,"type":"competition","severity":"critical"}],"synergies":null,"ratioWarnings":null,"ratioEvaluationGaps":null}`))
	}))
	defer server.Close()

	engine := NewEngineClient(server.URL, "secret", time.Second)
	local, interactions, _ := newTestLocalAnalyzer(nil, nil)
	analyzer := NewFallbackAnalyzer(engine, local, discardLogger())

	outcome, err := analyzer.AnalyzeSet(context.Background(), Identity{UserID: 7}, testInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Source != SourceEngine {
		t.Fatalf("expected engine source, got %s", outcome.Source)
	}
	if outcome.FallbackReason != "" {
		t.Fatalf("expected no fallback reason, got %s", outcome.FallbackReason)
	}
	if len(outcome.Interactions) != 1 || outcome.Interactions[0].RuleID != 1 {
		t.Fatalf("unexpected interactions: %+v", outcome.Interactions)
	}
	// Null wire arrays must arrive as empty slices, not nil.
	if outcome.Synergies == nil || outcome.RatioWarnings == nil || outcome.RatioGaps == nil {
		t.Fatalf("null wire arrays must be normalized to empty slices")
	}
	if interactions.calls != 0 {
		t.Fatalf("local rules must not be queried on the engine path")
	}
}

func TestFallbackAnalyzerTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	engine := NewEngineClient(server.URL, "secret", 30*time.Millisecond)
	local, _, _ := newTestLocalAnalyzer([]models.InteractionRule{
		{ID: 1, SourceSupplementID: 1, TargetSupplementID: 2, Type: models.InteractionCompetition, Severity: models.SeverityCritical},
	}, nil)
	analyzer := NewFallbackAnalyzer(engine, local, discardLogger())

	outcome, err := analyzer.AnalyzeSet(context.Background(), Identity{UserID: 7}, testInputs())
	if err != nil {
		t.Fatalf("engine timeout must not surface: %v", err)
	}
	if outcome.Source != SourceLocal {
		t.Fatalf("expected local source, got %s", outcome.Source)
	}
	if outcome.FallbackReason != FallbackTimeout {
		t.Fatalf("expected timeout reason, got %s", outcome.FallbackReason)
	}
	if len(outcome.Interactions) != 1 {
		t.Fatalf("expected the full local result after fallback, got %d interactions", len(outcome.Interactions))
	}
}

func TestFallbackAnalyzerServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	engine := NewEngineClient(server.URL, "secret", time.Second)
	local, _, _ := newTestLocalAnalyzer(nil, nil)
	analyzer := NewFallbackAnalyzer(engine, local, discardLogger())

	outcome, err := analyzer.AnalyzeSet(context.Background(), Identity{UserID: 7}, testInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.FallbackReason != FallbackNetworkError {
		t.Fatalf("expected network_error for 5xx, got %s", outcome.FallbackReason)
	}
}

func TestFallbackAnalyzerUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	engine := NewEngineClient(server.URL, "secret", time.Second)
	local, _, _ := newTestLocalAnalyzer(nil, nil)
	analyzer := NewFallbackAnalyzer(engine, local, discardLogger())

	outcome, err := analyzer.AnalyzeSet(context.Background(), Identity{UserID: 7}, testInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.FallbackReason != FallbackInvalidResponse {
		t.Fatalf("expected invalid_response, got %s", outcome.FallbackReason)
	}
}

func TestFallbackAnalyzerNotConfiguredSkipsRemote(t *testing.T) {
	engine := NewEngineClient("", "", time.Second)
	local, _, _ := newTestLocalAnalyzer(nil, nil)
	analyzer := NewFallbackAnalyzer(engine, local, discardLogger())

	outcome, err := analyzer.AnalyzeSet(context.Background(), Identity{UserID: 7}, testInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Source != SourceLocal || outcome.FallbackReason != FallbackNotConfigured {
		t.Fatalf("expected local/not_configured, got %s/%s", outcome.Source, outcome.FallbackReason)
	}
}

func TestFallbackAnalyzerNoSessionSkipsRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("remote engine must not be called without a session")
	}))
	defer server.Close()

	engine := NewEngineClient(server.URL, "secret", time.Second)
	local, _, _ := newTestLocalAnalyzer(nil, nil)
	analyzer := NewFallbackAnalyzer(engine, local, discardLogger())

	outcome, err := analyzer.AnalyzeSet(context.Background(), Identity{}, testInputs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.FallbackReason != FallbackNoSession {
		t.Fatalf("expected no_session, got %s", outcome.FallbackReason)
	}
}

func TestLocalAnalyzerSmallSetSkipsRuleQueries(t *testing.T) {
	local, interactions, ratios := newTestLocalAnalyzer(nil, nil)

	outcome, err := local.AnalyzeSet(context.Background(), Identity{UserID: 7}, []DosageInput{{SupplementID: 1, Dosage: 10}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcome.Interactions) != 0 || len(outcome.RatioWarnings) != 0 {
		t.Fatalf("expected empty outcome for a single supplement")
	}
	if interactions.calls != 0 || ratios.calls != 0 {
		t.Fatalf("rule catalog must not be queried for fewer than two supplements")
	}
}

func TestClassifyEngineFailure(t *testing.T) {
	cases := []struct {
		err      error
		expected string
	}{
		{context.DeadlineExceeded, FallbackTimeout},
		{&EngineStatusError{StatusCode: 503}, FallbackNetworkError},
		{&EngineStatusError{StatusCode: 401}, FallbackInvalidResponse},
		{errInvalidEngineResponse, FallbackInvalidResponse},
		{errors.New("something odd"), FallbackUnknown},
	}
	for _, testCase := range cases {
		if got := ClassifyEngineFailure(testCase.err); got != testCase.expected {
			t.Fatalf("classify(%v): expected %s, got %s", testCase.err, testCase.expected, got)
		}
	}
}
