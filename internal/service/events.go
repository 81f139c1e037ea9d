package service

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model/event"
)

// IEventPublisher 對外發佈事件（kafka）
// 發佈失敗只記 log，不回滾核心狀態
type IEventPublisher interface {
	Publish(ctx context.Context, evt event.Event) error
}

// IEventJournal 事件日誌（EventStoreDB），每個聚合一條 stream
type IEventJournal interface {
	AppendEvent(ctx context.Context, streamID string, evt event.Event) error
}

// NopPublisher / NopJournal 單機或測試環境沒接 kafka / esdb 時使用

type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, evt event.Event) error { return nil }

type NopJournal struct{}

func (NopJournal) AppendEvent(ctx context.Context, streamID string, evt event.Event) error {
	return nil
}

var (
	_ IEventPublisher = NopPublisher{}
	_ IEventJournal   = NopJournal{}
)
