package entity

import "time"

// AnonymousSession belongs to whoever holds its Id.
type AnonymousSession struct {
	Id           string
	Analyses     []AnalysisResult // newest first
	LastAccessed time.Time
	CreatedAt    time.Time
}

func (s *AnonymousSession) Clone() *AnonymousSession {
	if s == nil {
		return nil
	}
	c := *s
	c.Analyses = cloneAnalyses(s.Analyses)
	return &c
}
