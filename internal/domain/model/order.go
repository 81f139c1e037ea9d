package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"   // 已送出，尚未扣庫存
	OrderStatusConfirmed OrderStatus = "Confirmed" // 已確認，庫存已扣
	OrderStatusCompleted OrderStatus = "Completed" // 已送達
	OrderStatusCancelled OrderStatus = "Cancelled" // 已取消
)

// 訂單狀態機
// Pending   -> Confirmed | Cancelled
// Confirmed -> Completed | Cancelled
// Completed / Cancelled 為終態
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusCompleted, OrderStatusCancelled},
}

// CanTransition reports whether s -> to is a legal edge of the status machine.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Order 訂單主檔
// Lines / Amount / ShippingAddress 於送出當下凍結，之後只有 Status 與 Notes 會變動
type Order struct {
	OrderID         string          `json:"order_id"`
	UserID          string          `json:"user_id"`
	CustomerName    string          `json:"customer_name"`
	Lines           []OrderLine     `json:"lines"`
	Amount          decimal.Decimal `json:"amount"`
	Status          OrderStatus     `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	OrderDate       time.Time       `json:"order_date"`
	Notes           []StaffNote     `json:"notes"`
}

// OrderLine 送出當下的快照，與 Variant 實體脫鉤
// 後續改價、改名都不影響歷史訂單
type OrderLine struct {
	LineID      string          `json:"line_id"`
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// StaffNote 內部備註，append-only，寫入後不可修改
type StaffNote struct {
	NoteID     string    `json:"note_id"`
	Content    string    `json:"content"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// NoteInput 與狀態轉換一併附加的備註
type NoteInput struct {
	AuthorName string
	Content    string
}

// StockDemands 轉出此訂單每一行的庫存需求
func (o *Order) StockDemands() []StockDemand {
	demands := make([]StockDemand, len(o.Lines))
	for i, line := range o.Lines {
		demands[i] = StockDemand{
			VariantID:   line.VariantID,
			ProductName: line.ProductName,
			VariantName: line.VariantName,
			Quantity:    line.Quantity,
		}
	}
	return demands
}
