package service

import (
	"context"
	"errors"
	"strings"

	"session-insight-be/internal/dto"
	"session-insight-be/internal/entity"
	"session-insight-be/internal/pkg/apperror"
	"session-insight-be/internal/pkg/logger"
	"session-insight-be/internal/pkg/metrics"
	"session-insight-be/internal/repository/contract"
	"session-insight-be/pkg/analysis"
	"session-insight-be/pkg/events"
	"session-insight-be/pkg/lifecycle"

	"github.com/google/uuid"
)

const sessionIdPrefix = "session_"

type ISessionService interface {
	GetOrCreate(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Analyze(ctx context.Context, sessionId string, req *dto.AnalyzeRequest) (*dto.SessionAnalyzeResponse, error)
	History(ctx context.Context, sessionId string) (*dto.SessionHistoryResponse, error)
	Delete(ctx context.Context, sessionId string) error
}

type sessionService struct {
	repo         contract.SessionRepository
	runner       *analysisRunner
	publisher    IPublisherService
	historyLimit int
	clock        lifecycle.Clock
	log          logger.ILogger
}

func NewSessionService(
	repo contract.SessionRepository,
	provider analysis.Provider,
	publisher IPublisherService,
	metricsProvider metrics.Provider,
	historyLimit int,
	clock lifecycle.Clock,
	log logger.ILogger,
) ISessionService {
	if historyLimit <= 0 {
		historyLimit = lifecycle.DefaultSessionHistoryLimit
	}
	return &sessionService{
		repo:         repo,
		runner:       &analysisRunner{provider: provider, metrics: metricsProvider, clock: clock},
		publisher:    publisher,
		historyLimit: historyLimit,
		clock:        clock,
		log:          log,
	}
}

func (s *sessionService) GetOrCreate(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	id := strings.TrimSpace(req.SessionId)
	if id != "" {
		_, err := s.repo.Update(ctx, id, nil)
		if err == nil {
			return &dto.SessionResponse{SessionId: id}, nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
	} else {
		id = sessionIdPrefix + uuid.NewString()
	}

	err := s.repo.Create(ctx, &entity.AnonymousSession{Id: id})
	if errors.Is(err, apperror.ErrConflict) {
		// Another request created it first; join that session.
		if _, err := s.repo.Update(ctx, id, nil); err != nil {
			return nil, err
		}
		return &dto.SessionResponse{SessionId: id}, nil
	}
	if err != nil {
		return nil, err
	}

	s.log.Debug("SESSION", "Session created", nil)
	return &dto.SessionResponse{SessionId: id}, nil
}

func (s *sessionService) Analyze(ctx context.Context, sessionId string, req *dto.AnalyzeRequest) (*dto.SessionAnalyzeResponse, error) {
	if err := s.runner.validate(metrics.ScopeSession, req.Text); err != nil {
		return nil, err
	}

	// Fail fast on unknown sessions before paying for an upstream call.
	if _, err := s.repo.Update(ctx, sessionId, nil); err != nil {
		s.runner.outcome(metrics.ScopeSession, err)
		return nil, err
	}

	result, err := s.runner.run(ctx, metrics.ScopeSession, req.Text)
	if err != nil {
		s.log.Warn("SESSION", "Analysis failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	updated, err := s.repo.Update(ctx, sessionId, func(session *entity.AnonymousSession) error {
		session.Analyses = lifecycle.Prepend(session.Analyses, result, s.historyLimit)
		return nil
	})
	s.runner.outcome(metrics.ScopeSession, err)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.AnalysisRecorded(metrics.ScopeSession, "", result.TopPattern, len(updated.Analyses), s.clock.Now()))

	return &dto.SessionAnalyzeResponse{
		Analysis:  toAnalysisResponse(result),
		SessionId: sessionId,
	}, nil
}

func (s *sessionService) History(ctx context.Context, sessionId string) (*dto.SessionHistoryResponse, error) {
	session, err := s.repo.Update(ctx, sessionId, nil)
	if err != nil {
		return nil, err
	}
	return &dto.SessionHistoryResponse{Analyses: toAnalysisResponses(session.Analyses)}, nil
}

func (s *sessionService) Delete(ctx context.Context, sessionId string) error {
	if err := s.repo.Delete(ctx, sessionId); err != nil {
		return err
	}
	s.emit(ctx, events.SessionDeleted(s.clock.Now()))
	return nil
}

func (s *sessionService) emit(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("SESSION", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
