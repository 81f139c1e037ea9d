package memdb

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
)

// OrderRepo 單機訂單帳本
// 狀態更新與附註在同一把寫鎖內完成
type OrderRepo struct {
	mu     sync.RWMutex
	orders map[string]*model.Order
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: make(map[string]*model.Order)}
}

func (r *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.OrderID]; ok {
		return fmt.Errorf("order %s already exists", order.OrderID)
	}
	r.orders[order.OrderID] = cloneOrder(order)
	return nil
}

func (r *OrderRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrOrderNotFound, orderID)
	}
	return cloneOrder(order), nil
}

func (r *OrderRepo) GetOrdersByUserID(ctx context.Context, userID string) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []model.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orders = append(orders, *cloneOrder(order))
		}
	}
	sortOrdersByDate(orders)
	return orders, nil
}

func (r *OrderRepo) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]model.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orders = append(orders, *cloneOrder(order))
	}
	sortOrdersByDate(orders)
	return orders, nil
}

// UpdateOrderStatus 寫鎖內比對現存狀態，不符則整個更新不生效
func (r *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID string, from, to model.OrderStatus, note *model.StaffNote) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrOrderNotFound, orderID)
	}
	if order.Status != from {
		return nil, fmt.Errorf("%w: order %s is %s, not %s", repository.ErrStatusConflict, orderID, order.Status, from)
	}
	order.Status = to
	if note != nil {
		order.Notes = append(order.Notes, *note)
	}
	return cloneOrder(order), nil
}

func (r *OrderRepo) AppendNote(ctx context.Context, orderID string, note model.StaffNote) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrOrderNotFound, orderID)
	}
	order.Notes = append(order.Notes, note)
	return cloneOrder(order), nil
}

// 新單在前
func sortOrdersByDate(orders []model.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}

func cloneOrder(order *model.Order) *model.Order {
	cloned := *order
	cloned.Lines = make([]model.OrderLine, len(order.Lines))
	copy(cloned.Lines, order.Lines)
	cloned.Notes = make([]model.StaffNote, len(order.Notes))
	copy(cloned.Notes, order.Notes)
	return &cloned
}

var _ repository.IOrderRepository = (*OrderRepo)(nil)
