package mapper

import (
	"session-insight-be/internal/entity"
	"session-insight-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.AnonymousSession {
	if s == nil {
		return nil
	}
	return &entity.AnonymousSession{
		Id:           s.Id,
		Analyses:     toAnalysisResults(s.Analyses),
		LastAccessed: s.LastAccessed,
		CreatedAt:    s.CreatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.AnonymousSession) *model.Session {
	if s == nil {
		return nil
	}
	return &model.Session{
		Id:           s.Id,
		Analyses:     toAnalysisEntries(s.Analyses),
		LastAccessed: s.LastAccessed,
		CreatedAt:    s.CreatedAt,
	}
}
