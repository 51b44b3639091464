package entity

import "time"

type ConfidenceScore struct {
	Label string
	Score float64
}

// AnalysisResult is immutable once appended to a history.
type AnalysisResult struct {
	Text             string
	TopPattern       string
	ConfidenceScores []ConfidenceScore
	CreatedAt        time.Time
}

func cloneAnalyses(in []AnalysisResult) []AnalysisResult {
	if in == nil {
		return nil
	}
	out := make([]AnalysisResult, len(in))
	for i, a := range in {
		out[i] = a
		if a.ConfidenceScores != nil {
			out[i].ConfidenceScores = append([]ConfidenceScore(nil), a.ConfidenceScores...)
		}
	}
	return out
}
