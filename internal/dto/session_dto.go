package dto

// CreateSessionRequest resumes SessionId when given, otherwise a new id is
// generated.
type CreateSessionRequest struct {
	SessionId string `json:"sessionId" validate:"omitempty,max=128"`
}

type SessionResponse struct {
	SessionId string `json:"sessionId"`
}

type SessionAnalyzeResponse struct {
	Analysis  AnalysisResponse `json:"analysis"`
	SessionId string           `json:"sessionId"`
}

type SessionHistoryResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
}
