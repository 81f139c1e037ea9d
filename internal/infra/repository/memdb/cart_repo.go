package memdb

import (
	"context"
	"fmt"
	"sync"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
)

// CartRepo 測試與單機部署用的購物車儲存
// 介面與 redis_repo.CartRepo 相同，可互換
type CartRepo struct {
	mu    sync.RWMutex
	carts map[string]*model.Cart
}

func NewCartRepo() *CartRepo {
	return &CartRepo{carts: make(map[string]*model.Cart)}
}

func (r *CartRepo) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", repository.ErrCartNotFound, userID)
	}
	return cloneCart(cart), nil
}

func (r *CartRepo) SaveCart(ctx context.Context, cart *model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[cart.UserID] = cloneCart(cart)
	return nil
}

func (r *CartRepo) DeleteCart(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}

func cloneCart(cart *model.Cart) *model.Cart {
	cloned := *cart
	cloned.Lines = make([]model.CartLine, len(cart.Lines))
	copy(cloned.Lines, cart.Lines)
	return &cloned
}

var _ repository.ICartRepository = (*CartRepo)(nil)
