package tracer

import (
	"context"
	"testing"

	"session-insight-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestInitTracer_DisabledIsNoop(t *testing.T) {
	shutdown := InitTracer(false, "", logger.NewNopLogger())
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_Enabled(t *testing.T) {
	// The exporter connects lazily, so no collector is needed here.
	shutdown := InitTracer(true, "127.0.0.1:1", logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
