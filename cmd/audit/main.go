// Command audit tails the retention stream and writes every lifecycle
// event to the audit log.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"session-insight-be/internal/config"
	"session-insight-be/internal/pkg/logger"
	"session-insight-be/pkg/events"

	pktNats "session-insight-be/pkg/nats"
)

const durableName = "retention-audit"

func main() {
	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		log.Fatal("Error: NATS_URL is not set")
	}

	auditLog := logger.NewZapLogger("logs/audit.log", cfg.IsProduction())
	defer auditLog.Sync()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL, auditLog)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, ">", durableName, func(_ context.Context, event events.Event) error {
		details := map[string]interface{}{
			"type":       event.EventType(),
			"occurredAt": event.Timestamp(),
		}
		for k, v := range event.Payload() {
			details[k] = v
		}
		auditLog.Info("AUDIT", "Retention event", details)
		return nil
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	<-ctx.Done()
	log.Println("Audit consumer stopped")
}
