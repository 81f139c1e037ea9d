package event

import (
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

// 庫存異動事件
// aggregateID 為觸發來源（訂單ID 或 variantID），明細放在 Demands

type StockDeductedEvent struct {
	BaseEvent
	Reason  string              `json:"reason"`
	Demands []model.StockDemand `json:"demands"`
}

func (e *StockDeductedEvent) Type() EventType {
	return StockDeductedEventName
}

func NewStockDeductedEvent(aggregateID, reason string, demands []model.StockDemand) *StockDeductedEvent {
	return &StockDeductedEvent{
		BaseEvent: newBaseEvent(aggregateID, StockDeductedEventName),
		Reason:    reason,
		Demands:   demands,
	}
}

type StockRestoredEvent struct {
	BaseEvent
	Reason  string              `json:"reason"`
	Demands []model.StockDemand `json:"demands"`
}

func (e *StockRestoredEvent) Type() EventType {
	return StockRestoredEventName
}

func NewStockRestoredEvent(aggregateID, reason string, demands []model.StockDemand) *StockRestoredEvent {
	return &StockRestoredEvent{
		BaseEvent: newBaseEvent(aggregateID, StockRestoredEventName),
		Reason:    reason,
		Demands:   demands,
	}
}

type StockAdjustedEvent struct {
	BaseEvent
	OldStock uint `json:"old_stock"`
	NewStock uint `json:"new_stock"`
}

func (e *StockAdjustedEvent) Type() EventType {
	return StockAdjustedEventName
}

func NewStockAdjustedEvent(variantID string, oldStock, newStock uint) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseEvent: newBaseEvent(variantID, StockAdjustedEventName),
		OldStock:  oldStock,
		NewStock:  newStock,
	}
}
