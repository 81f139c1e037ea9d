package model

import (
	"github.com/shopspring/decimal"
)

// Cart 只存在快取層（redis 或 memdb），不落地 DB
// 成功送出訂單或登出時整個刪除
type Cart struct {
	UserID string     `json:"user_id"`
	Lines  []CartLine `json:"lines"`
}

// CartLine 持有加入當下的商品快照（名稱、單價）
// Quantity 永遠 >= 1，整行移除走 RemoveLine
type CartLine struct {
	LineID      string          `json:"line_id"`
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	VariantName string          `json:"variant_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// FindLineByVariant returns the line holding the given variant, or nil.
func (c *Cart) FindLineByVariant(variantID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].VariantID == variantID {
			return &c.Lines[i]
		}
	}
	return nil
}

// FindLine returns the line with the given line id, or nil.
func (c *Cart) FindLine(lineID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].LineID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

// Amount 計算購物車總金額，使用加入當下的快照單價
func (c *Cart) Amount() decimal.Decimal {
	amount := decimal.Zero
	for _, line := range c.Lines {
		amount = amount.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return amount
}
