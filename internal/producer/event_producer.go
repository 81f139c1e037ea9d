package producer

import (
	"context"
	"encoding/json"

	"github.com/RoyceAzure/lab/rj_kafka/kafka/message"
	"github.com/RoyceAzure/lab/rj_kafka/kafka/producer"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model/event"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

// EventProducer publishes order/stock lifecycle events to kafka.
// Messages are keyed by aggregate id so events of the same order/variant
// stay on one partition and keep their ordering.
type EventProducer struct {
	producer producer.Producer
}

func NewEventProducer(p producer.Producer) *EventProducer {
	return &EventProducer{producer: p}
}

func (p *EventProducer) Publish(ctx context.Context, evt event.Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	msg := message.Message{
		Key:   []byte(evt.GetAggregateID()),
		Value: value,
		Headers: []message.Header{
			{
				Key:   "event_type",
				Value: []byte(evt.Type()),
			},
		},
	}
	return p.producer.Produce(ctx, []message.Message{msg})
}

func (p *EventProducer) Close() error {
	return p.producer.Close()
}

var _ service.IEventPublisher = (*EventProducer)(nil)
