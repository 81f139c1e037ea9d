package model

import (
	"github.com/shopspring/decimal"
)

// Product 聚合根，至少持有一個 Variant
// 商品顯示資訊與庫存分離：庫存只存在 Variant 上
type Product struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Description string    `json:"description"`
	Variants    []Variant `json:"variants"`
}

// Variant 是唯一可購買、可扣庫存的單位
// Stock 使用 uint，庫存永遠不會為負
type Variant struct {
	VariantID string          `json:"variant_id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Capacity  string          `json:"capacity"`
	Price     decimal.Decimal `json:"price"`
	Stock     uint            `json:"stock"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// FindVariant returns the variant with the given id, or nil.
func (p *Product) FindVariant(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].VariantID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// TotalStock sums stock over all variants.
func (p *Product) TotalStock() uint {
	var total uint
	for i := range p.Variants {
		total += p.Variants[i].Stock
	}
	return total
}
