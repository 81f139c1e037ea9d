package model

import (
	"time"
)

// StockDemand 對單一 Variant 的庫存需求
// 確認訂單、取消訂單都以此為單位進出庫存
type StockDemand struct {
	VariantID   string `json:"variant_id"`
	ProductName string `json:"product_name"`
	VariantName string `json:"variant_name"`
	Quantity    int    `json:"quantity"`
}

// StockShortfall 庫存不足明細
// 確認失敗時回報每一行不足的數量，不是只回報第一行
type StockShortfall struct {
	VariantID   string `json:"variant_id"`
	ProductName string `json:"product_name"`
	VariantName string `json:"variant_name"`
	Requested   int    `json:"requested"`
	Available   uint   `json:"available"`
}

// StockMovement 庫存異動流水
// QtyChange 負數為出庫（確認訂單），正數為入庫（取消訂單、手動補貨）
type StockMovement struct {
	MovementID string    `json:"movement_id"`
	VariantID  string    `json:"variant_id"`
	QtyChange  int       `json:"qty_change"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}
