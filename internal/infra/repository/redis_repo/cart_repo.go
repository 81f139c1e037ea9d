package redis_repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
)

// 購物車只存在 redis，不落地 DB
// 24 小時沒動作就讓它過期
const cartTTL = 24 * time.Hour

type CartRepo struct {
	cartCache *redis.Client
}

func NewCartRepo(cartCache *redis.Client) *CartRepo {
	return &CartRepo{cartCache: cartCache}
}

func generateCartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func (r *CartRepo) GetCart(ctx context.Context, userID string) (*model.Cart, error) {
	cartJSON, err := r.cartCache.Get(ctx, generateCartKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: user %s", repository.ErrCartNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	var cart model.Cart
	if err := json.Unmarshal([]byte(cartJSON), &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	return &cart, nil
}

func (r *CartRepo) SaveCart(ctx context.Context, cart *model.Cart) error {
	cartJSON, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	if err := r.cartCache.Set(ctx, generateCartKey(cart.UserID), cartJSON, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *CartRepo) DeleteCart(ctx context.Context, userID string) error {
	if err := r.cartCache.Del(ctx, generateCartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

var _ repository.ICartRepository = (*CartRepo)(nil)
