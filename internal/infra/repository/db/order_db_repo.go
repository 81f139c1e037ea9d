package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
)

// OrderDBRepo postgres 版的訂單帳本
// 訂單行與備註隨主檔一起寫入，之後只動 status 與追加 notes
type OrderDBRepo struct {
	db *DbDao
}

func NewOrderDBRepo(db *DbDao) *OrderDBRepo {
	return &OrderDBRepo{db: db}
}

func (r *OrderDBRepo) CreateOrder(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(orderFromDomain(order)).Error
}

func (r *OrderDBRepo) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Preload("Lines").Preload("Notes").
		Where("order_id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", repository.ErrOrderNotFound, orderID)
		}
		return nil, err
	}
	return orderToDomain(&order), nil
}

func (r *OrderDBRepo) GetOrdersByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Preload("Lines").Preload("Notes").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return ordersToDomain(orders), nil
}

func (r *OrderDBRepo) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).Preload("Lines").Preload("Notes").
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return ordersToDomain(orders), nil
}

// UpdateOrderStatus 更新狀態與附註在同一 transaction
// WHERE 同時比對 status 做 compare-and-swap，狀態已被改走時回傳 ErrStatusConflict
func (r *OrderDBRepo) UpdateOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, note *domain.StaffNote) (*domain.Order, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).Model(&model.Order{}).
			Where("order_id = ? AND status = ?", orderID, string(from)).
			Update("status", string(to))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.WithContext(ctx).Model(&model.Order{}).
				Where("order_id = ?", orderID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fmt.Errorf("%w: %s", repository.ErrOrderNotFound, orderID)
			}
			return fmt.Errorf("%w: order %s is no longer %s", repository.ErrStatusConflict, orderID, from)
		}
		if note != nil {
			if err := tx.WithContext(ctx).Create(noteFromDomain(orderID, note)).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetOrderByID(ctx, orderID)
}

func (r *OrderDBRepo) AppendNote(ctx context.Context, orderID string, note domain.StaffNote) (*domain.Order, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", repository.ErrOrderNotFound, orderID)
	}

	if err := r.db.WithContext(ctx).Create(noteFromDomain(orderID, &note)).Error; err != nil {
		return nil, err
	}
	return r.GetOrderByID(ctx, orderID)
}

func ordersToDomain(orders []model.Order) []domain.Order {
	result := make([]domain.Order, len(orders))
	for i := range orders {
		result[i] = *orderToDomain(&orders[i])
	}
	return result
}

var _ repository.IOrderRepository = (*OrderDBRepo)(nil)
