package service

import (
	"context"
	"strings"
	"time"

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

type IPatientService interface {
	GetAll(ctx context.Context, ownerId uuid.UUID) ([]*dto.PatientResponse, error)
	Create(ctx context.Context, ownerId uuid.UUID, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	Analyze(ctx context.Context, ownerId, patientId uuid.UUID, req *dto.AnalyzeRequest) (*dto.PatientAnalyzeResponse, error)
	Delete(ctx context.Context, ownerId, patientId uuid.UUID) error
}

type patientService struct {
	repo      contract.PatientRepository
	runner    *analysisRunner
	publisher IPublisherService
	policy    lifecycle.Policy
	clock     lifecycle.Clock
	log       logger.ILogger
}

func NewPatientService(
	repo contract.PatientRepository,
	provider analysis.Provider,
	publisher IPublisherService,
	metricsProvider metrics.Provider,
	retention time.Duration,
	clock lifecycle.Clock,
	log logger.ILogger,
) IPatientService {
	if retention <= 0 {
		retention = lifecycle.DefaultPatientHorizon
	}
	return &patientService{
		repo:      repo,
		runner:    &analysisRunner{provider: provider, metrics: metricsProvider, clock: clock},
		publisher: publisher,
		policy:    lifecycle.FixedHorizon{Horizon: retention},
		clock:     clock,
		log:       log,
	}
}

func toPatientResponse(p *entity.PatientRecord) *dto.PatientResponse {
	return &dto.PatientResponse{
		Id:        p.Id,
		Name:      p.Name,
		CreatedBy: p.CreatedBy,
		History:   toAnalysisResponses(p.History),
		ExpiresAt: p.ExpiresAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (s *patientService) GetAll(ctx context.Context, ownerId uuid.UUID) ([]*dto.PatientResponse, error) {
	patients, err := s.repo.FindAllByOwner(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PatientResponse, 0, len(patients))
	for _, p := range patients {
		res = append(res, toPatientResponse(p))
	}
	return res, nil
}

func (s *patientService) Create(ctx context.Context, ownerId uuid.UUID, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.InvalidInput("name is required")
	}

	now := s.clock.Now()
	patient := &entity.PatientRecord{
		Id:        uuid.New(),
		Name:      name,
		CreatedBy: ownerId,
		History:   []entity.AnalysisResult{},
		ExpiresAt: s.policy.Deadline(now, now),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}

	s.emit(ctx, events.PatientCreated(patient.Id.String(), ownerId.String(), patient.ExpiresAt, now))
	return toPatientResponse(patient), nil
}

func (s *patientService) Analyze(ctx context.Context, ownerId, patientId uuid.UUID, req *dto.AnalyzeRequest) (*dto.PatientAnalyzeResponse, error) {
	if err := s.runner.validate(metrics.ScopePatient, req.Text); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindOne(ctx, patientId, ownerId); err != nil {
		s.runner.outcome(metrics.ScopePatient, err)
		return nil, err
	}

	entry, err := s.runner.run(ctx, metrics.ScopePatient, req.Text)
	if err != nil {
		s.log.Warn("PATIENT", "Analysis failed", map[string]interface{}{
			"patient_id": patientId,
			"error":      err.Error(),
		})
		return nil, err
	}

	record, err := s.repo.Update(ctx, patientId, ownerId, func(p *entity.PatientRecord) error {
		p.History = lifecycle.Prepend(p.History, entry, 0)
		return nil
	})
	s.runner.outcome(metrics.ScopePatient, err)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.AnalysisRecorded(metrics.ScopePatient, patientId.String(), entry.TopPattern, len(record.History), s.clock.Now()))

	return &dto.PatientAnalyzeResponse{
		Entry:  toAnalysisResponse(entry),
		Record: *toPatientResponse(record),
	}, nil
}

func (s *patientService) Delete(ctx context.Context, ownerId, patientId uuid.UUID) error {
	if err := s.repo.Delete(ctx, patientId, ownerId); err != nil {
		return err
	}
	s.emit(ctx, events.PatientDeleted(patientId.String(), ownerId.String(), s.clock.Now()))
	return nil
}

func (s *patientService) emit(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("PATIENT", "Failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
