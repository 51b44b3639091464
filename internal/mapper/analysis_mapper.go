package mapper

import (
	"session-insight-be/internal/entity"
	"session-insight-be/internal/model"
)

func toAnalysisEntries(in []entity.AnalysisResult) []model.AnalysisEntry {
	out := make([]model.AnalysisEntry, len(in))
	for i, a := range in {
		scores := make([]model.ConfidenceScore, len(a.ConfidenceScores))
		for j, s := range a.ConfidenceScores {
			scores[j] = model.ConfidenceScore{Label: s.Label, Score: s.Score}
		}
		out[i] = model.AnalysisEntry{
			Text:             a.Text,
			TopPattern:       a.TopPattern,
			ConfidenceScores: scores,
			CreatedAt:        a.CreatedAt,
		}
	}
	return out
}

func toAnalysisResults(in []model.AnalysisEntry) []entity.AnalysisResult {
	out := make([]entity.AnalysisResult, len(in))
	for i, a := range in {
		scores := make([]entity.ConfidenceScore, len(a.ConfidenceScores))
		for j, s := range a.ConfidenceScores {
			scores[j] = entity.ConfidenceScore{Label: s.Label, Score: s.Score}
		}
		out[i] = entity.AnalysisResult{
			Text:             a.Text,
			TopPattern:       a.TopPattern,
			ConfidenceScores: scores,
			CreatedAt:        a.CreatedAt,
		}
	}
	return out
}
