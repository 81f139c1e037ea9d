package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model/event"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// 測試用事件收集器，記下所有發佈/寫日誌的事件

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evt event.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) Types() []event.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]event.EventType, len(p.events))
	for i, evt := range p.events {
		types[i] = evt.Type()
	}
	return types
}

type recordingJournal struct {
	mu      sync.Mutex
	streams map[string][]event.Event
}

func newRecordingJournal() *recordingJournal {
	return &recordingJournal{streams: make(map[string][]event.Event)}
}

func (j *recordingJournal) AppendEvent(ctx context.Context, streamID string, evt event.Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.streams[streamID] = append(j.streams[streamID], evt)
	return nil
}
