package db

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
)

// CatalogDBRepo postgres 版的商品/庫存儲存
// 批次扣減在單一 transaction 內完成，與 memdb 版語義一致
type CatalogDBRepo struct {
	db *DbDao
}

func NewCatalogDBRepo(db *DbDao) *CatalogDBRepo {
	return &CatalogDBRepo{db: db}
}

func (r *CatalogDBRepo) CreateProduct(ctx context.Context, product *domain.Product) error {
	if len(product.Variants) == 0 {
		return fmt.Errorf("product %s has no variants", product.ProductID)
	}
	return r.db.WithContext(ctx).Create(productFromDomain(product)).Error
}

func (r *CatalogDBRepo) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Variants").
		Where("product_id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", repository.ErrProductNotFound, productID)
		}
		return nil, err
	}
	return productToDomain(&product), nil
}

func (r *CatalogDBRepo) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Preload("Variants").Find(&products).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Product, len(products))
	for i := range products {
		result[i] = *productToDomain(&products[i])
	}
	return result, nil
}

func (r *CatalogDBRepo) GetVariantByID(ctx context.Context, variantID string) (*domain.Variant, error) {
	var variant model.Variant
	err := r.db.WithContext(ctx).Where("variant_id = ?", variantID).First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", repository.ErrVariantNotFound, variantID)
		}
		return nil, err
	}
	return variantToDomain(&variant), nil
}

func (r *CatalogDBRepo) GetVariantStock(ctx context.Context, variantID string) (uint, error) {
	variant, err := r.GetVariantByID(ctx, variantID)
	if err != nil {
		return 0, err
	}
	return variant.Stock, nil
}

// DeductStockBatch 單一 transaction 內先全數檢查再全數扣減
// 檢查階段就以 SELECT ... FOR UPDATE 取行鎖，兩筆確認同時讀到同一行
// 不會都通過檢查把庫存扣成負的；依 variant_id 排序取鎖避免互相死鎖
func (r *CatalogDBRepo) DeductStockBatch(ctx context.Context, demands []domain.StockDemand) ([]domain.StockShortfall, error) {
	sorted := make([]domain.StockDemand, len(demands))
	copy(sorted, demands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].VariantID < sorted[j].VariantID })

	var shortfalls []domain.StockShortfall
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, demand := range sorted {
			var variant model.Variant
			if err := tx.WithContext(ctx).
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("variant_id = ?", demand.VariantID).First(&variant).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", repository.ErrVariantNotFound, demand.VariantID)
				}
				return err
			}
			if uint(demand.Quantity) > variant.Stock {
				shortfalls = append(shortfalls, domain.StockShortfall{
					VariantID:   demand.VariantID,
					ProductName: demand.ProductName,
					VariantName: demand.VariantName,
					Requested:   demand.Quantity,
					Available:   variant.Stock,
				})
			}
		}
		if len(shortfalls) > 0 {
			return repository.ErrStockNotEnough
		}

		for _, demand := range sorted {
			if err := tx.WithContext(ctx).Model(&model.Variant{}).
				Where("variant_id = ?", demand.VariantID).
				Update("stock", gorm.Expr("stock - ?", demand.Quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return shortfalls, err
	}
	return nil, nil
}

func (r *CatalogDBRepo) RestoreStockBatch(ctx context.Context, demands []domain.StockDemand) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, demand := range demands {
			result := tx.WithContext(ctx).Model(&model.Variant{}).
				Where("variant_id = ?", demand.VariantID).
				Update("stock", gorm.Expr("stock + ?", demand.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", repository.ErrVariantNotFound, demand.VariantID)
			}
		}
		return nil
	})
}

func (r *CatalogDBRepo) SetStock(ctx context.Context, variantID string, stock uint) (*domain.Variant, error) {
	result := r.db.WithContext(ctx).Model(&model.Variant{}).
		Where("variant_id = ?", variantID).
		Update("stock", stock)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrVariantNotFound, variantID)
	}
	return r.GetVariantByID(ctx, variantID)
}

var _ repository.ICatalogRepository = (*CatalogDBRepo)(nil)
