package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/witherow/biostack/internal/models"
)

// Why evaluation fell back to the local strategy. The first two are
// expected configuration states, the rest classify a failed engine call.
const (
	FallbackNotConfigured   = "not_configured"
	FallbackNoSession       = "no_session"
	FallbackTimeout         = "timeout"
	FallbackNetworkError    = "network_error"
	FallbackInvalidResponse = "invalid_response"
	FallbackUnknown         = "unknown"
)

var errInvalidEngineResponse = errors.New("invalid engine response")

// ClassifyEngineFailure maps a failed engine call onto the fallback
// taxonomy. 5xx statuses count as transient alongside timeouts and
// connection resets; 4xx and undecodable bodies count as invalid responses.
func ClassifyEngineFailure(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FallbackTimeout
	}

	var statusErr *EngineStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= 500 {
			return FallbackNetworkError
		}
		return FallbackInvalidResponse
	}
	if errors.Is(err, errInvalidEngineResponse) {
		return FallbackInvalidResponse
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FallbackTimeout
		}
		return FallbackNetworkError
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return FallbackNetworkError
	}

	return FallbackUnknown
}

// RuleAnalyzer evaluates a supplement set against the interaction, ratio
// and timing catalogs. Remote and local strategies implement the same
// port; callers cannot tell which one served a request except through the
// outcome's Source/FallbackReason telemetry.
type RuleAnalyzer interface {
	AnalyzeSet(ctx context.Context, caller Identity, inputs []DosageInput) (AnalysisOutcome, error)
	CheckTimingFor(ctx context.Context, caller Identity, supplementID uint, loggedAt time.Time, excludeLogID uint) ([]TimingWarning, error)
}

type InteractionRuleReader interface {
	FindInteractionRules(ctx context.Context, supplementIDs []uint) ([]models.InteractionRule, error)
}

type RatioRuleReader interface {
	FindRatioRules(ctx context.Context, supplementIDs []uint) ([]models.RatioRule, error)
}

// LocalAnalyzer runs the in-process evaluators against the rule catalog.
// Behaviorally equivalent to the remote engine for ratio and interaction
// semantics.
type LocalAnalyzer struct {
	interactions InteractionRuleReader
	ratios       RatioRuleReader
	timing       *TimingService
}

func NewLocalAnalyzer(interactions InteractionRuleReader, ratios RatioRuleReader, timing *TimingService) *LocalAnalyzer {
	return &LocalAnalyzer{interactions: interactions, ratios: ratios, timing: timing}
}

func (analyzer *LocalAnalyzer) AnalyzeSet(ctx context.Context, caller Identity, inputs []DosageInput) (AnalysisOutcome, error) {
	if len(inputs) < 2 {
		return emptyOutcome(SourceLocal, ""), nil
	}

	supplementIDs := make([]uint, 0, len(inputs))
	for _, input := range inputs {
		supplementIDs = append(supplementIDs, input.SupplementID)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	var interactionRules []models.InteractionRule
	var ratioRules []models.RatioRule
	group.Go(func() error {
		rules, err := analyzer.interactions.FindInteractionRules(groupCtx, supplementIDs)
		if err != nil {
			return fmt.Errorf("load interaction rules: %w", err)
		}
		interactionRules = rules
		return nil
	})
	group.Go(func() error {
		rules, err := analyzer.ratios.FindRatioRules(groupCtx, supplementIDs)
		if err != nil {
			return fmt.Errorf("load ratio rules: %w", err)
		}
		ratioRules = rules
		return nil
	})
	if err := group.Wait(); err != nil {
		return AnalysisOutcome{}, err
	}

	outcome := emptyOutcome(SourceLocal, "")
	outcome.Interactions, outcome.Synergies = MatchInteractions(supplementIDs, interactionRules)
	outcome.RatioWarnings, outcome.RatioGaps = EvaluateRatios(inputs, ratioRules)
	return outcome, nil
}

func (analyzer *LocalAnalyzer) CheckTimingFor(ctx context.Context, caller Identity, supplementID uint, loggedAt time.Time, excludeLogID uint) ([]TimingWarning, error) {
	return analyzer.timing.CheckTiming(ctx, caller.UserID, supplementID, loggedAt, excludeLogID)
}

// FallbackAnalyzer prefers the remote engine and degrades to the local
// strategy. Every remote-path error is recovered locally and never
// surfaces; local-path errors propagate, since there is nothing further to
// fall back to.
type FallbackAnalyzer struct {
	engine *EngineClient
	local  *LocalAnalyzer
	logger *log.Logger
}

func NewFallbackAnalyzer(engine *EngineClient, local *LocalAnalyzer, logger *log.Logger) *FallbackAnalyzer {
	if logger == nil {
		logger = log.Default()
	}
	return &FallbackAnalyzer{engine: engine, local: local, logger: logger}
}

// skipReason reports why the remote call must not even be attempted:
// missing endpoint configuration or missing caller identity. Both are
// expected states, not failures.
func (analyzer *FallbackAnalyzer) skipReason(caller Identity) string {
	if !analyzer.engine.Configured() {
		return FallbackNotConfigured
	}
	if caller.UserID == 0 {
		return FallbackNoSession
	}
	return ""
}

func (analyzer *FallbackAnalyzer) AnalyzeSet(ctx context.Context, caller Identity, inputs []DosageInput) (AnalysisOutcome, error) {
	if reason := analyzer.skipReason(caller); reason != "" {
		return analyzer.analyzeLocally(ctx, caller, inputs, reason)
	}

	start := time.Now()
	outcome, err := analyzer.engine.Analyze(ctx, caller, inputs)
	if err == nil {
		return outcome, nil
	}
	if ctx.Err() != nil {
		// The initiating request was cancelled; discard rather than
		// compute a partial local result.
		return AnalysisOutcome{}, ctx.Err()
	}

	reason := ClassifyEngineFailure(err)
	analyzer.logger.Printf("engine analyze failed reason=%s duration=%s: %v", reason, time.Since(start).Round(time.Millisecond), err)
	return analyzer.analyzeLocally(ctx, caller, inputs, reason)
}

func (analyzer *FallbackAnalyzer) analyzeLocally(ctx context.Context, caller Identity, inputs []DosageInput, reason string) (AnalysisOutcome, error) {
	outcome, err := analyzer.local.AnalyzeSet(ctx, caller, inputs)
	if err != nil {
		return AnalysisOutcome{}, err
	}
	outcome.FallbackReason = reason
	return outcome, nil
}

func (analyzer *FallbackAnalyzer) CheckTimingFor(ctx context.Context, caller Identity, supplementID uint, loggedAt time.Time, excludeLogID uint) ([]TimingWarning, error) {
	if reason := analyzer.skipReason(caller); reason == "" {
		start := time.Now()
		warnings, err := analyzer.engine.CheckTiming(ctx, caller, supplementID, loggedAt)
		if err == nil {
			return warnings, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		analyzer.logger.Printf("engine timing failed reason=%s duration=%s: %v", ClassifyEngineFailure(err), time.Since(start).Round(time.Millisecond), err)
	}
	return analyzer.local.CheckTimingFor(ctx, caller, supplementID, loggedAt, excludeLogID)
}
