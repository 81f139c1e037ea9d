package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
)

var (
	// ErrOutOfStock 加入數量超過即時庫存
	ErrOutOfStock = errors.New("out of stock")
	// ErrCartLineNotFound 購物車內沒有這一行
	ErrCartLineNotFound = errors.New("cart line not found")
	// ErrInvalidQuantity 數量必須 >= 1
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

type ICartService interface {
	AddLine(ctx context.Context, userID, variantID string, quantity int) (*model.Cart, error)
	ChangeQuantity(ctx context.Context, userID, lineID string, delta int) (*model.Cart, bool, error)
	RemoveLine(ctx context.Context, userID, lineID string) (*model.Cart, error)
	Clear(ctx context.Context, userID string) error
	GetCart(ctx context.Context, userID string) (*model.Cart, error)
}

// CartService 購物車
// 每次變動都重讀即時庫存做檢查，但不預留、不扣庫存
// 送出與確認之間庫存仍可能被別張訂單扣走，由確認階段把關
type CartService struct {
	cartRepo    repository.ICartRepository
	catalogRepo repository.ICatalogRepository
	logger      zerolog.Logger
}

func NewCartService(cartRepo repository.ICartRepository, catalogRepo repository.ICatalogRepository, logger zerolog.Logger) *CartService {
	return &CartService{cartRepo: cartRepo, catalogRepo: catalogRepo, logger: logger}
}

// AddLine 同一 variant 已存在就併入同一行，否則新增一行並快照商品名稱與單價
func (s *CartService) AddLine(ctx context.Context, userID, variantID string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	variant, err := s.catalogRepo.GetVariantByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	product, err := s.catalogRepo.GetProductByID(ctx, variant.ProductID)
	if err != nil {
		return nil, err
	}

	cart, err := s.loadOrNewCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	existing := cart.FindLineByVariant(variantID)
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if uint(newQuantity) > variant.Stock {
		return nil, fmt.Errorf("%w: variant %s has %d in stock, requested %d",
			ErrOutOfStock, variantID, variant.Stock, newQuantity)
	}

	if existing != nil {
		existing.Quantity = newQuantity
	} else {
		cart.Lines = append(cart.Lines, model.CartLine{
			LineID:      util.GenerateID(),
			VariantID:   variant.VariantID,
			ProductName: product.Name,
			VariantName: variant.Name,
			Price:       variant.Price,
			Quantity:    quantity,
		})
	}

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ChangeQuantity 增減某一行的數量
// 新數量 < 1 或超過即時庫存時整個動作不生效，以回傳值告知呼叫端
func (s *CartService) ChangeQuantity(ctx context.Context, userID, lineID string, delta int) (*model.Cart, bool, error) {
	cart, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return nil, false, fmt.Errorf("%w: %s", ErrCartLineNotFound, lineID)
		}
		return nil, false, err
	}

	line := cart.FindLine(lineID)
	if line == nil {
		return nil, false, fmt.Errorf("%w: %s", ErrCartLineNotFound, lineID)
	}

	newQuantity := line.Quantity + delta
	if newQuantity < 1 {
		return cart, false, nil
	}

	stock, err := s.catalogRepo.GetVariantStock(ctx, line.VariantID)
	if err != nil {
		return nil, false, err
	}
	if uint(newQuantity) > stock {
		s.logger.Debug().
			Str("user_id", userID).
			Str("variant_id", line.VariantID).
			Int("requested", newQuantity).
			Uint("stock", stock).
			Msg("cart quantity change rejected, not enough stock")
		return cart, false, nil
	}

	line.Quantity = newQuantity
	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		return nil, false, err
	}
	return cart, true, nil
}

// RemoveLine 冪等移除，行不存在也視為成功
func (s *CartService) RemoveLine(ctx context.Context, userID, lineID string) (*model.Cart, error) {
	cart, err := s.loadOrNewCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines := cart.Lines[:0]
	for _, line := range cart.Lines {
		if line.LineID != lineID {
			lines = append(lines, line)
		}
	}
	cart.Lines = lines

	if err := s.cartRepo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.cartRepo.DeleteCart(ctx, userID)
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	return s.loadOrNewCart(ctx, userID)
}

func (s *CartService) loadOrNewCart(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return &model.Cart{UserID: userID}, nil
		}
		return nil, err
	}
	return cart, nil
}

var _ ICartService = (*CartService)(nil)
