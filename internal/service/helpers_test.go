package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"session-insight-be/pkg/analysis"
	"session-insight-be/pkg/events"
	"session-insight-be/pkg/lifecycle"
)

var epoch = time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

type fakeProvider struct {
	calls  atomic.Int32
	result *analysis.Result
	err    error
}

func anxietyProvider() *fakeProvider {
	return &fakeProvider{result: &analysis.Result{
		TopPattern: "anxiety",
		ConfidenceScores: []analysis.Score{
			{Label: "anxiety", Score: 0.8},
			{Label: "calm", Score: 0.1},
		},
	}}
}

func (f *fakeProvider) Analyze(_ context.Context, _ string) (*analysis.Result, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

func newClock() *lifecycle.ManualClock {
	return lifecycle.NewManualClock(epoch)
}
