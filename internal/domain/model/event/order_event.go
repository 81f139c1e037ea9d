package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

// 訂單生命週期事件
// 每次狀態轉換發佈一筆，帶上 from/to 供下游讀模型重放

type OrderPlacedEvent struct {
	BaseEvent
	UserID    string            `json:"user_id"`
	OrderDate time.Time         `json:"order_date"`
	Lines     []model.OrderLine `json:"lines"`
	Amount    decimal.Decimal   `json:"amount"`
	ToState   model.OrderStatus `json:"to_state"`
}

func (e *OrderPlacedEvent) Type() EventType {
	return OrderPlacedEventName
}

func NewOrderPlacedEvent(order *model.Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseEvent: newBaseEvent(order.OrderID, OrderPlacedEventName),
		UserID:    order.UserID,
		OrderDate: order.OrderDate,
		Lines:     order.Lines,
		Amount:    order.Amount,
		ToState:   order.Status,
	}
}

type OrderStatusChangedEvent struct {
	BaseEvent
	FromState model.OrderStatus `json:"from_state"`
	ToState   model.OrderStatus `json:"to_state"`
	Note      string            `json:"note,omitempty"`
}

func (e *OrderStatusChangedEvent) Type() EventType {
	return e.EventType
}

// NewOrderStatusChangedEvent builds the event matching the edge just taken.
func NewOrderStatusChangedEvent(orderID string, from, to model.OrderStatus, note string) *OrderStatusChangedEvent {
	var name EventType
	switch to {
	case model.OrderStatusConfirmed:
		name = OrderConfirmedEventName
	case model.OrderStatusCompleted:
		name = OrderCompletedEventName
	case model.OrderStatusCancelled:
		name = OrderCancelledEventName
	}
	return &OrderStatusChangedEvent{
		BaseEvent: newBaseEvent(orderID, name),
		FromState: from,
		ToState:   to,
		Note:      note,
	}
}

func newBaseEvent(aggregateID string, eventType EventType) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		CreatedAt:   time.Now().UTC(),
		EventType:   eventType,
	}
}
