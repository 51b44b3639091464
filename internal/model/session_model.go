package model

import "time"

// Session is the serialized anonymous session kept in Redis.
type Session struct {
	Id           string          `json:"sessionId"`
	Analyses     []AnalysisEntry `json:"analyses"`
	LastAccessed time.Time       `json:"lastAccessed"`
	CreatedAt    time.Time       `json:"createdAt"`
}
