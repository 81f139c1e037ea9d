package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
)

var (
	ErrProductNoVariant = errors.New("product must have at least one variant")
	ErrInvalidPrice     = errors.New("variant price must be positive")
)

type ICatalogService interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetVariant(ctx context.Context, variantID string) (*model.Variant, error)
	GetVariantStock(ctx context.Context, variantID string) (uint, error)
}

// CatalogService 商品目錄，只讀庫存
// 庫存異動一律經由 InventoryService
type CatalogService struct {
	catalogRepo repository.ICatalogRepository
}

func NewCatalogService(catalogRepo repository.ICatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

func (s *CatalogService) CreateProduct(ctx context.Context, product *model.Product) error {
	if len(product.Variants) == 0 {
		return fmt.Errorf("%w: %s", ErrProductNoVariant, product.ProductID)
	}
	for _, variant := range product.Variants {
		if !variant.Price.IsPositive() {
			return fmt.Errorf("%w: variant %s", ErrInvalidPrice, variant.VariantID)
		}
	}
	return s.catalogRepo.CreateProduct(ctx, product)
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	return s.catalogRepo.GetProductByID(ctx, productID)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.catalogRepo.GetAllProducts(ctx)
}

func (s *CatalogService) GetVariant(ctx context.Context, variantID string) (*model.Variant, error) {
	return s.catalogRepo.GetVariantByID(ctx, variantID)
}

// GetVariantStock 回傳當下即時庫存，呼叫端不得快取
func (s *CatalogService) GetVariantStock(ctx context.Context, variantID string) (uint, error) {
	return s.catalogRepo.GetVariantStock(ctx, variantID)
}

var _ ICatalogService = (*CatalogService)(nil)
