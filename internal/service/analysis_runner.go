package service

import (
	"context"
	"errors"
	"time"

	"session-insight-be/internal/dto"
	"session-insight-be/internal/entity"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/internal/pkg/metrics"
	"session-insight-be/pkg/analysis"
	"session-insight-be/pkg/lifecycle"
)

// analysisRunner is shared by the session and patient flows: it calls the
// provider and turns its answer into a history entry stamped at ingestion.
type analysisRunner struct {
	provider analysis.Provider
	metrics  metrics.Provider
	clock    lifecycle.Clock
}

func (r *analysisRunner) validate(scope, text string) error {
	if err := analysis.ValidateText(text); err != nil {
		r.metrics.IncAnalyses(scope, metrics.OutcomeRejected)
		return err
	}
	return nil
}

func (r *analysisRunner) run(ctx context.Context, scope, text string) (entity.AnalysisResult, error) {
	start := time.Now()
	res, err := r.provider.Analyze(ctx, text)
	r.metrics.ObserveUpstreamDuration(time.Since(start))
	if err != nil {
		r.metrics.IncAnalyses(scope, metrics.OutcomeUpstream)
		if !errors.Is(err, apperror.ErrUpstreamUnavailable) {
			err = apperror.Upstream(err)
		}
		return entity.AnalysisResult{}, err
	}

	scores := make([]entity.ConfidenceScore, 0, len(res.ConfidenceScores))
	for _, s := range res.ConfidenceScores {
		scores = append(scores, entity.ConfidenceScore{Label: s.Label, Score: s.Score})
	}
	return entity.AnalysisResult{
		Text:             text,
		TopPattern:       res.TopPattern,
		ConfidenceScores: scores,
		CreatedAt:        r.clock.Now(),
	}, nil
}

// outcome records the result of a store step that followed validation.
func (r *analysisRunner) outcome(scope string, err error) {
	switch {
	case err == nil:
		r.metrics.IncAnalyses(scope, metrics.OutcomeOK)
	case errors.Is(err, apperror.ErrNotFound):
		r.metrics.IncAnalyses(scope, metrics.OutcomeMissing)
	}
}

func toAnalysisResponse(a entity.AnalysisResult) dto.AnalysisResponse {
	scores := make([]dto.ConfidenceScoreResponse, 0, len(a.ConfidenceScores))
	for _, s := range a.ConfidenceScores {
		scores = append(scores, dto.ConfidenceScoreResponse{Label: s.Label, Score: s.Score})
	}
	return dto.AnalysisResponse{
		Text:             a.Text,
		TopPattern:       a.TopPattern,
		ConfidenceScores: scores,
		CreatedAt:        a.CreatedAt,
	}
}

func toAnalysisResponses(history []entity.AnalysisResult) []dto.AnalysisResponse {
	out := make([]dto.AnalysisResponse, 0, len(history))
	for _, a := range history {
		out = append(out, toAnalysisResponse(a))
	}
	return out
}
