package analysis

import (
	"context"
	"strings"
	"unicode/utf8"

	"session-insight-be/internal/pkg/apperror"
)

// MinTextLength is the shortest trimmed note accepted for analysis.
const MinTextLength = 5

// Score is one label of the distribution returned by the analysis service.
type Score struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Result is the analysis service payload, passed through untouched.
type Result struct {
	TopPattern       string  `json:"topPattern"`
	ConfidenceScores []Score `json:"confidenceScores"`
}

// Provider classifies a note. Implementations must fail with
// apperror.ErrUpstreamUnavailable on any upstream problem.
type Provider interface {
	Analyze(ctx context.Context, text string) (*Result, error)
}

// ValidateText rejects notes that are too short to be worth a round trip.
func ValidateText(text string) error {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinTextLength {
		return apperror.InvalidInput("text is too short")
	}
	return nil
}
