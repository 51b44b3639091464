package model

import "time"

// AnalysisEntry is the stored shape of one analysis, shared by the patient
// history jsonb column and the serialized session documents.
type AnalysisEntry struct {
	Text             string            `json:"text"`
	TopPattern       string            `json:"topPattern"`
	ConfidenceScores []ConfidenceScore `json:"confidenceScores"`
	CreatedAt        time.Time         `json:"createdAt"`
}

type ConfidenceScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
