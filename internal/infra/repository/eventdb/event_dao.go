package eventdb

import (
	"context"
	"encoding/json"

	"github.com/EventStore/EventStore-Client-Go/v4/esdb"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model/event"
)

// EventDao 訂單/庫存事件日誌
// 每個聚合一條 stream，append-only
type EventDao struct {
	client *esdb.Client
}

func NewEventDao(client *esdb.Client) *EventDao {
	return &EventDao{client: client}
}

func (dao *EventDao) AppendEvent(ctx context.Context, streamID string, evt event.Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	eventData := esdb.EventData{
		ContentType: esdb.ContentTypeJson,
		EventType:   string(evt.Type()),
		Data:        payload,
	}
	_, err = dao.client.AppendToStream(ctx, streamID, esdb.AppendToStreamOptions{}, eventData)
	return err
}

// ReadEvents 讀取單一 stream 的事件，重放或稽核用
func (dao *EventDao) ReadEvents(ctx context.Context, streamID string, count uint64) ([]*esdb.ResolvedEvent, error) {
	stream, err := dao.client.ReadStream(ctx, streamID, esdb.ReadStreamOptions{}, count)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var events []*esdb.ResolvedEvent
	for {
		resolved, err := stream.Recv()
		if err != nil {
			break
		}
		events = append(events, resolved)
	}
	return events, nil
}
