package memdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
)

func seedOrder(t *testing.T) (*OrderRepo, *model.Order) {
	t.Helper()
	repo := NewOrderRepo()
	order := &model.Order{
		OrderID:   "ORD-1",
		UserID:    "u1",
		Status:    model.OrderStatusPending,
		OrderDate: time.Now().UTC(),
		Lines: []model.OrderLine{
			{LineID: "l1", VariantID: "v1", Quantity: 2},
		},
	}
	require.NoError(t, repo.CreateOrder(context.Background(), order))
	return repo, order
}

func TestUpdateOrderStatusCompareAndSwap(t *testing.T) {
	repo, order := seedOrder(t)
	ctx := context.Background()

	updated, err := repo.UpdateOrderStatus(ctx, order.OrderID, model.OrderStatusPending, model.OrderStatusConfirmed, nil)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusConfirmed, updated.Status)

	// 第二個帶著過期的 from 再來，整個更新不生效
	_, err = repo.UpdateOrderStatus(ctx, order.OrderID, model.OrderStatusPending, model.OrderStatusConfirmed, nil)
	require.ErrorIs(t, err, repository.ErrStatusConflict)

	reloaded, err := repo.GetOrderByID(ctx, order.OrderID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusConfirmed, reloaded.Status)
}

// 狀態比對失敗時附註也不能寫入
func TestUpdateOrderStatusConflictSkipsNote(t *testing.T) {
	repo, order := seedOrder(t)
	ctx := context.Background()

	note := &model.StaffNote{NoteID: "n1", AuthorName: "staff-01", Content: "checked"}
	_, err := repo.UpdateOrderStatus(ctx, order.OrderID, model.OrderStatusConfirmed, model.OrderStatusCompleted, note)
	require.ErrorIs(t, err, repository.ErrStatusConflict)

	reloaded, err := repo.GetOrderByID(ctx, order.OrderID)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPending, reloaded.Status)
	require.Empty(t, reloaded.Notes)
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	repo, _ := seedOrder(t)

	_, err := repo.UpdateOrderStatus(context.Background(), "missing", model.OrderStatusPending, model.OrderStatusConfirmed, nil)
	require.ErrorIs(t, err, repository.ErrOrderNotFound)
}
