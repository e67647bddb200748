package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// The remote engine may cold-start; its calls are allowed materially longer
// than an in-process evaluation before the local fallback takes over.
const defaultEngineTimeout = 6 * time.Second

// EngineClient talks to the remote rule-evaluation engine over HTTP. It is
// transport only: responses are translated into the same domain types the
// local evaluators produce.
type EngineClient struct {
	baseURL    string
	serviceKey string
	timeout    time.Duration
	httpClient *http.Client
}

func NewEngineClient(baseURL string, serviceKey string, timeout time.Duration) *EngineClient {
	if timeout <= 0 {
		timeout = defaultEngineTimeout
	}
	return &EngineClient{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		serviceKey: strings.TrimSpace(serviceKey),
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

func (client *EngineClient) Configured() bool {
	return client != nil && client.baseURL != ""
}

// EngineStatusError is a non-2xx engine response. It yields "no result",
// never a caller-visible failure.
type EngineStatusError struct {
	StatusCode int
	Body       string
}

func (e *EngineStatusError) Error() string {
	return fmt.Sprintf("engine responded status=%d", e.StatusCode)
}

type engineAnalyzeRequest struct {
	SupplementIDs []uint             `json:"supplementIds"`
	Dosages       map[string]float64 `json:"dosages,omitempty"`
}

type engineInteraction struct {
	RuleID             uint   `json:"ruleId"`
	SourceSupplementID uint   `json:"sourceSupplementId"`
	TargetSupplementID uint   `json:"targetSupplementId"`
	Type               string `json:"type"`
	Severity           string `json:"severity"`
	Mechanism          string `json:"mechanism"`
	ResearchURL        string `json:"researchUrl"`
	Suggestion         string `json:"suggestion"`
}

type engineRatioWarning struct {
	RuleID             uint     `json:"ruleId"`
	SourceSupplementID uint     `json:"sourceSupplementId"`
	TargetSupplementID uint     `json:"targetSupplementId"`
	Ratio              float64  `json:"ratio"`
	MinRatio           *float64 `json:"minRatio"`
	MaxRatio           *float64 `json:"maxRatio"`
	OptimalRatio       *float64 `json:"optimalRatio"`
	Severity           string   `json:"severity"`
	Message            string   `json:"message"`
	ResearchURL        string   `json:"researchUrl"`
}

type engineRatioGap struct {
	RuleID              uint   `json:"ruleId"`
	PresentSupplementID uint   `json:"presentSupplementId"`
	MissingSupplementID uint   `json:"missingSupplementId"`
	Severity            string `json:"severity"`
	Message             string `json:"message"`
}

type engineAnalyzeResponse struct {
	Status              string               `json:"status"`
	Warnings            []engineInteraction  `json:"warnings"`
	Synergies           []engineInteraction  `json:"synergies"`
	RatioWarnings       []engineRatioWarning `json:"ratioWarnings"`
	RatioEvaluationGaps []engineRatioGap     `json:"ratioEvaluationGaps"`
}

type engineTimingRequest struct {
	UserID       uint      `json:"userId"`
	SupplementID uint      `json:"supplementId"`
	LoggedAt     time.Time `json:"loggedAt"`
}

type engineTimingWarning struct {
	RuleID             uint    `json:"ruleId"`
	SourceSupplementID uint    `json:"sourceSupplementId"`
	TargetSupplementID uint    `json:"targetSupplementId"`
	MinHoursApart      float64 `json:"minHoursApart"`
	ActualHoursApart   float64 `json:"actualHoursApart"`
	Severity           string  `json:"severity"`
	Reason             string  `json:"reason"`
}

type engineTimingResponse struct {
	Warnings []engineTimingWarning `json:"warnings"`
}

// Analyze asks the engine for interaction + ratio evaluation of a
// supplement set. Wire arrays may be null to mean empty; they are
// normalized at this boundary so no evaluator logic null-checks.
func (client *EngineClient) Analyze(ctx context.Context, caller Identity, inputs []DosageInput) (AnalysisOutcome, error) {
	request := engineAnalyzeRequest{
		SupplementIDs: make([]uint, 0, len(inputs)),
		Dosages:       make(map[string]float64, len(inputs)),
	}
	for _, input := range inputs {
		request.SupplementIDs = append(request.SupplementIDs, input.SupplementID)
		if input.Dosage > 0 {
			request.Dosages[strconv.FormatUint(uint64(input.SupplementID), 10)] = input.Dosage
		}
	}

	var response engineAnalyzeResponse
	if err := client.postJSON(ctx, caller, "/api/analyze", request, &response); err != nil {
		return AnalysisOutcome{}, err
	}

	outcome := emptyOutcome(SourceEngine, "")
	for _, warning := range response.Warnings {
		outcome.Interactions = append(outcome.Interactions, interactionFromWire(warning))
	}
	for _, synergy := range response.Synergies {
		outcome.Synergies = append(outcome.Synergies, interactionFromWire(synergy))
	}
	for _, warning := range response.RatioWarnings {
		outcome.RatioWarnings = append(outcome.RatioWarnings, RatioWarning{
			RuleID:             warning.RuleID,
			SourceSupplementID: warning.SourceSupplementID,
			TargetSupplementID: warning.TargetSupplementID,
			Ratio:              warning.Ratio,
			MinRatio:           warning.MinRatio,
			MaxRatio:           warning.MaxRatio,
			OptimalRatio:       warning.OptimalRatio,
			Severity:           warning.Severity,
			Message:            warning.Message,
			ResearchURL:        warning.ResearchURL,
		})
	}
	for _, gap := range response.RatioEvaluationGaps {
		outcome.RatioGaps = append(outcome.RatioGaps, RatioGap{
			RuleID:              gap.RuleID,
			PresentSupplementID: gap.PresentSupplementID,
			MissingSupplementID: gap.MissingSupplementID,
			Severity:            gap.Severity,
			Message:             gap.Message,
		})
	}
	return outcome, nil
}

// CheckTiming asks the engine for timing-window evaluation. The engine does
// not echo the conflicting log entry, so ConflictLogID/ConflictLoggedAt stay
// zero on this path.
func (client *EngineClient) CheckTiming(ctx context.Context, caller Identity, supplementID uint, loggedAt time.Time) ([]TimingWarning, error) {
	request := engineTimingRequest{
		UserID:       caller.UserID,
		SupplementID: supplementID,
		LoggedAt:     loggedAt,
	}

	var response engineTimingResponse
	if err := client.postJSON(ctx, caller, "/api/timing", request, &response); err != nil {
		return nil, err
	}

	warnings := make([]TimingWarning, 0, len(response.Warnings))
	for _, warning := range response.Warnings {
		warnings = append(warnings, TimingWarning{
			RuleID:             warning.RuleID,
			SourceSupplementID: warning.SourceSupplementID,
			TargetSupplementID: warning.TargetSupplementID,
			MinHoursApart:      warning.MinHoursApart,
			ActualHoursApart:   warning.ActualHoursApart,
			Severity:           warning.Severity,
			Reason:             warning.Reason,
		})
	}
	return warnings, nil
}

func (client *EngineClient) postJSON(ctx context.Context, caller Identity, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode engine request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(callCtx, http.MethodPost, client.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build engine request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("X-Service-Key", client.serviceKey)
	request.Header.Set("X-Caller-Id", strconv.FormatUint(uint64(caller.UserID), 10))
	request.Header.Set("X-Request-Id", uuid.NewString())

	response, err := client.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return &EngineStatusError{StatusCode: response.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s", errInvalidEngineResponse, err)
	}
	return nil
}

func interactionFromWire(wire engineInteraction) InteractionWarning {
	return InteractionWarning{
		RuleID:             wire.RuleID,
		SourceSupplementID: wire.SourceSupplementID,
		TargetSupplementID: wire.TargetSupplementID,
		Type:               wire.Type,
		Severity:           wire.Severity,
		Mechanism:          wire.Mechanism,
		ResearchURL:        wire.ResearchURL,
		Suggestion:         wire.Suggestion,
	}
}
