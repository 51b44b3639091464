package service

import (
	"context"

	"session-insight-be/internal/pkg/logger"
	"session-insight-be/internal/pkg/metrics"
	"session-insight-be/pkg/events"
	"session-insight-be/pkg/lifecycle"
)

type IRetentionService interface {
	// OnPurge is handed to lifecycle sweepers.
	OnPurge(ctx context.Context, collection string, purged int64)
}

type retentionService struct {
	publisher IPublisherService
	metrics   metrics.Provider
	clock     lifecycle.Clock
	log       logger.ILogger
}

func NewRetentionService(publisher IPublisherService, metricsProvider metrics.Provider, clock lifecycle.Clock, log logger.ILogger) IRetentionService {
	return &retentionService{
		publisher: publisher,
		metrics:   metricsProvider,
		clock:     clock,
		log:       log,
	}
}

func (s *retentionService) OnPurge(ctx context.Context, collection string, purged int64) {
	s.metrics.AddPurged(collection, purged)
	if err := s.publisher.Publish(ctx, events.RetentionPurged(collection, purged, s.clock.Now())); err != nil {
		s.log.Warn("RETENTION", "Failed to publish event", map[string]interface{}{
			"collection": collection,
			"error":      err.Error(),
		})
	}
}
