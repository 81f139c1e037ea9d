package memdb

import (
	"context"
	"fmt"
	"sync"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
)

// CatalogRepo 單機權威庫存
// 所有庫存讀寫走同一把 RWMutex，批次扣減在寫鎖內完成檢查與扣減
// 兩張訂單同時確認重疊的 variant 也不會交錯
type CatalogRepo struct {
	mu       sync.RWMutex
	products map[string]*model.Product
	variants map[string]*model.Variant // variantID -> 指向 products 內的 Variant
}

func NewCatalogRepo() *CatalogRepo {
	return &CatalogRepo{
		products: make(map[string]*model.Product),
		variants: make(map[string]*model.Variant),
	}
}

func (r *CatalogRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	if len(product.Variants) == 0 {
		return fmt.Errorf("product %s has no variants", product.ProductID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ProductID]; ok {
		return fmt.Errorf("product %s already exists", product.ProductID)
	}

	stored := cloneProduct(product)
	r.products[stored.ProductID] = stored
	for i := range stored.Variants {
		stored.Variants[i].ProductID = stored.ProductID
		r.variants[stored.Variants[i].VariantID] = &stored.Variants[i]
	}
	return nil
}

func (r *CatalogRepo) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrProductNotFound, productID)
	}
	return cloneProduct(product), nil
}

func (r *CatalogRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]model.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, *cloneProduct(product))
	}
	return products, nil
}

func (r *CatalogRepo) GetVariantByID(ctx context.Context, variantID string) (*model.Variant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	variant, ok := r.variants[variantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrVariantNotFound, variantID)
	}
	cloned := *variant
	return &cloned, nil
}

func (r *CatalogRepo) GetVariantStock(ctx context.Context, variantID string) (uint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	variant, ok := r.variants[variantID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", repository.ErrVariantNotFound, variantID)
	}
	return variant.Stock, nil
}

// DeductStockBatch 寫鎖內先全數檢查再全數扣減
// 任何一行不足則整批不動，回傳所有短缺行
func (r *CatalogRepo) DeductStockBatch(ctx context.Context, demands []model.StockDemand) ([]model.StockShortfall, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var shortfalls []model.StockShortfall
	for _, demand := range demands {
		variant, ok := r.variants[demand.VariantID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", repository.ErrVariantNotFound, demand.VariantID)
		}
		if uint(demand.Quantity) > variant.Stock {
			shortfalls = append(shortfalls, model.StockShortfall{
				VariantID:   demand.VariantID,
				ProductName: demand.ProductName,
				VariantName: demand.VariantName,
				Requested:   demand.Quantity,
				Available:   variant.Stock,
			})
		}
	}
	if len(shortfalls) > 0 {
		return shortfalls, repository.ErrStockNotEnough
	}

	for _, demand := range demands {
		r.variants[demand.VariantID].Stock -= uint(demand.Quantity)
	}
	return nil, nil
}

func (r *CatalogRepo) RestoreStockBatch(ctx context.Context, demands []model.StockDemand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, demand := range demands {
		variant, ok := r.variants[demand.VariantID]
		if !ok {
			return fmt.Errorf("%w: %s", repository.ErrVariantNotFound, demand.VariantID)
		}
		variant.Stock += uint(demand.Quantity)
	}
	return nil
}

func (r *CatalogRepo) SetStock(ctx context.Context, variantID string, stock uint) (*model.Variant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	variant, ok := r.variants[variantID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrVariantNotFound, variantID)
	}
	variant.Stock = stock
	cloned := *variant
	return &cloned, nil
}

func cloneProduct(product *model.Product) *model.Product {
	cloned := *product
	cloned.Variants = make([]model.Variant, len(product.Variants))
	copy(cloned.Variants, product.Variants)
	return &cloned
}

var _ repository.ICatalogRepository = (*CatalogRepo)(nil)
