package repository

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrVariantNotFound 商品規格不存在
	ErrVariantNotFound = errors.New("variant not found")
	// ErrOrderNotFound 訂單不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrCartNotFound 購物車不存在
	ErrCartNotFound = errors.New("cart not found")
	// ErrStockNotEnough 庫存不足，DeductStockBatch 會附帶完整短缺明細
	ErrStockNotEnough = errors.New("stock not enough")
	// ErrStatusConflict 訂單狀態已被其他轉換搶先改掉
	ErrStatusConflict = errors.New("order status conflict")
)

// ICatalogRepository 商品與庫存儲存
// 庫存異動方法只允許 InventoryService 呼叫，其餘元件只能讀
type ICatalogRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID string) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetVariantByID(ctx context.Context, variantID string) (*model.Variant, error)
	GetVariantStock(ctx context.Context, variantID string) (uint, error)

	// DeductStockBatch 全部檢查再全部扣減，單一原子步驟
	// 任何一行不足時整批不扣，回傳所有短缺行與 ErrStockNotEnough
	DeductStockBatch(ctx context.Context, demands []model.StockDemand) ([]model.StockShortfall, error)
	// RestoreStockBatch 無條件加回，庫存沒有上限
	RestoreStockBatch(ctx context.Context, demands []model.StockDemand) error
	// SetStock 管理端直接覆寫庫存，回傳更新後的 Variant
	SetStock(ctx context.Context, variantID string, stock uint) (*model.Variant, error)
}

// IOrderRepository 訂單帳本，訂單只會新增與轉換狀態，不會刪除
type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, orderID string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]model.Order, error)
	GetAllOrders(ctx context.Context) ([]model.Order, error)

	// UpdateOrderStatus 以 compare-and-swap 更新狀態並（可選）同時附加一筆備註
	// 儲存中的狀態已不是 from 時回傳 ErrStatusConflict，什麼都不改
	// 兩個轉換搶同一張訂單時只有一個會成功
	UpdateOrderStatus(ctx context.Context, orderID string, from, to model.OrderStatus, note *model.StaffNote) (*model.Order, error)
	AppendNote(ctx context.Context, orderID string, note model.StaffNote) (*model.Order, error)
}

// ICartRepository 購物車儲存，部署時走 redis，測試走 memdb
type ICartRepository interface {
	GetCart(ctx context.Context, userID string) (*model.Cart, error)
	SaveCart(ctx context.Context, cart *model.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}

// IStockMovementRepository 庫存異動流水，append-only
type IStockMovementRepository interface {
	AppendMovement(ctx context.Context, movement model.StockMovement) error
	GetMovementsByVariantID(ctx context.Context, variantID string) ([]model.StockMovement, error)
}
