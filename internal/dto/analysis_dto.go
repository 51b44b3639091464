package dto

import "time"

type AnalyzeRequest struct {
	Text string `json:"text" validate:"required"`
}

type ConfidenceScoreResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type AnalysisResponse struct {
	Text             string                    `json:"text"`
	TopPattern       string                    `json:"topPattern"`
	ConfidenceScores []ConfidenceScoreResponse `json:"confidenceScores"`
	CreatedAt        time.Time                 `json:"createdAt"`
}
