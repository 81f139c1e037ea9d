package util

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

func GenerateOrderIDByTimestamp() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixNano())
}

func GenerateID() string {
	return uuid.New().String()
}

// CalculateOrderAmount 以快照單價計算訂單總金額
func CalculateOrderAmount(lines []model.OrderLine) decimal.Decimal {
	amount := decimal.Zero
	for _, line := range lines {
		amount = amount.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return amount
}

// CartLinesToOrderLines 將購物車快照凍結成訂單行
func CartLinesToOrderLines(cartLines []model.CartLine) []model.OrderLine {
	orderLines := make([]model.OrderLine, len(cartLines))
	for i, line := range cartLines {
		orderLines[i] = model.OrderLine{
			LineID:      GenerateID(),
			VariantID:   line.VariantID,
			ProductName: line.ProductName,
			VariantName: line.VariantName,
			Price:       line.Price,
			Quantity:    line.Quantity,
		}
	}
	return orderLines
}
