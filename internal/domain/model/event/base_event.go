package event

import "time"

type BaseEvent struct {
	EventID     string    `json:"eventId"`
	AggregateID string    `json:"aggregateId"`
	CreatedAt   time.Time `json:"createdAt"`
	EventType   EventType `json:"eventType"`
}

func (e *BaseEvent) GetID() string {
	return e.EventID
}

func (e *BaseEvent) GetAggregateID() string {
	return e.AggregateID
}

type EventType string

const (
	OrderPlacedEventName    EventType = "OrderPlaced"
	OrderConfirmedEventName EventType = "OrderConfirmed"
	OrderCompletedEventName EventType = "OrderCompleted"
	OrderCancelledEventName EventType = "OrderCancelled"
	StockDeductedEventName  EventType = "StockDeducted"
	StockRestoredEventName  EventType = "StockRestored"
	StockAdjustedEventName  EventType = "StockAdjusted"
)

type Event interface {
	Type() EventType
	GetID() string
	GetAggregateID() string
}
