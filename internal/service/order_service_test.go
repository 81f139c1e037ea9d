package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model/event"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/memdb"
)

type OrderServiceTestSuite struct {
	suite.Suite
	catalogRepo  *memdb.CatalogRepo
	cartRepo     *memdb.CartRepo
	orderRepo    *memdb.OrderRepo
	movementRepo *memdb.StockMovementRepo
	publisher    *recordingPublisher
	journal      *recordingJournal
	inventory    *InventoryService
	cartService  *CartService
	orderService *OrderService
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.catalogRepo = memdb.NewCatalogRepo()
	suite.cartRepo = memdb.NewCartRepo()
	suite.orderRepo = memdb.NewOrderRepo()
	suite.movementRepo = memdb.NewStockMovementRepo()
	suite.publisher = &recordingPublisher{}
	suite.journal = newRecordingJournal()

	suite.inventory = NewInventoryService(suite.catalogRepo, suite.movementRepo, suite.publisher, testLogger())
	suite.cartService = NewCartService(suite.cartRepo, suite.catalogRepo, testLogger())
	suite.orderService = NewOrderService(suite.orderRepo, suite.cartRepo, suite.inventory, suite.journal, suite.publisher, testLogger())

	err := suite.catalogRepo.CreateProduct(context.Background(), &model.Product{
		ProductID: "p1", Name: "iPhone 15 Pro", Brand: "Apple",
		Variants: []model.Variant{
			{VariantID: "v1", Name: "128GB - Natural Titanium", Price: decimal.NewFromInt(999), Stock: 10},
			{VariantID: "v2", Name: "256GB - Blue Titanium", Price: decimal.NewFromInt(1099), Stock: 3},
		},
	})
	require.NoError(suite.T(), err)
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) submitOrder(variantID string, quantity int) *model.Order {
	ctx := context.Background()
	_, err := suite.cartService.AddLine(ctx, "u1", variantID, quantity)
	require.NoError(suite.T(), err)

	order, err := suite.orderService.Submit(ctx, "u1", "Alice Chen", "No.7, Xinyi Rd., Taipei")
	require.NoError(suite.T(), err)
	return order
}

func (suite *OrderServiceTestSuite) variantStock(variantID string) uint {
	stock, err := suite.catalogRepo.GetVariantStock(context.Background(), variantID)
	require.NoError(suite.T(), err)
	return stock
}

func (suite *OrderServiceTestSuite) TestSubmitEmptyCart() {
	_, err := suite.orderService.Submit(context.Background(), "u1", "Alice Chen", "somewhere")
	require.ErrorIs(suite.T(), err, ErrEmptyCart)

	orders, err := suite.orderService.ListOrders(context.Background())
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), orders)
	require.Equal(suite.T(), uint(10), suite.variantStock("v1"))
}

func (suite *OrderServiceTestSuite) TestSubmitRequiresAddress() {
	ctx := context.Background()
	_, err := suite.cartService.AddLine(ctx, "u1", "v1", 1)
	require.NoError(suite.T(), err)

	_, err = suite.orderService.Submit(ctx, "u1", "Alice Chen", "")
	require.ErrorIs(suite.T(), err, ErrEmptyAddress)
}

// 送單只凍結快照，不動庫存，並清空購物車
func (suite *OrderServiceTestSuite) TestSubmitSnapshotsAndClearsCart() {
	ctx := context.Background()
	order := suite.submitOrder("v1", 4)

	require.Equal(suite.T(), model.OrderStatusPending, order.Status)
	require.Len(suite.T(), order.Lines, 1)
	require.Equal(suite.T(), "iPhone 15 Pro", order.Lines[0].ProductName)
	require.True(suite.T(), decimal.NewFromInt(3996).Equal(order.Amount))
	require.Equal(suite.T(), uint(10), suite.variantStock("v1"))

	cart, err := suite.cartService.GetCart(ctx, "u1")
	require.NoError(suite.T(), err)
	require.True(suite.T(), cart.IsEmpty())

	require.Equal(suite.T(), []event.EventType{event.OrderPlacedEventName}, suite.publisher.Types())
	require.Len(suite.T(), suite.journal.streams["order-"+order.OrderID], 1)
}

func (suite *OrderServiceTestSuite) TestConfirmDeductsStock() {
	order := suite.submitOrder("v1", 4)

	confirmed, err := suite.orderService.Confirm(context.Background(), order.OrderID, nil)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.OrderStatusConfirmed, confirmed.Status)
	require.Equal(suite.T(), uint(6), suite.variantStock("v1"))
}

// 庫存不足：確認中止，訂單停在 Pending，庫存不動
func (suite *OrderServiceTestSuite) TestConfirmInsufficientStock() {
	order := suite.submitOrder("v2", 3)

	// 別張訂單先搶走庫存
	other := suite.submitOrder("v2", 2)
	_, err := suite.orderService.Confirm(context.Background(), other.OrderID, nil)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), uint(1), suite.variantStock("v2"))

	_, err = suite.orderService.Confirm(context.Background(), order.OrderID, nil)
	require.ErrorIs(suite.T(), err, ErrInsufficientStock)

	var insufficient *InsufficientStockError
	require.ErrorAs(suite.T(), err, &insufficient)
	require.Len(suite.T(), insufficient.Shortfalls, 1)
	require.Equal(suite.T(), "v2", insufficient.Shortfalls[0].VariantID)
	require.Equal(suite.T(), 3, insufficient.Shortfalls[0].Requested)
	require.Equal(suite.T(), uint(1), insufficient.Shortfalls[0].Available)

	reloaded, err := suite.orderService.GetOrder(context.Background(), order.OrderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.OrderStatusPending, reloaded.Status)
	require.Equal(suite.T(), uint(1), suite.variantStock("v2"))
}

// 取消已確認的訂單，扣掉的數量要精確加回
func (suite *OrderServiceTestSuite) TestCancelConfirmedRestoresStock() {
	order := suite.submitOrder("v1", 4)

	_, err := suite.orderService.Confirm(context.Background(), order.OrderID, nil)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), uint(6), suite.variantStock("v1"))

	cancelled, err := suite.orderService.Cancel(context.Background(), order.OrderID, nil)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.OrderStatusCancelled, cancelled.Status)
	require.Equal(suite.T(), uint(10), suite.variantStock("v1"))
}

// 取消 Pending 訂單不碰庫存
func (suite *OrderServiceTestSuite) TestCancelPendingKeepsStock() {
	order := suite.submitOrder("v1", 4)

	cancelled, err := suite.orderService.Cancel(context.Background(), order.OrderID, nil)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.OrderStatusCancelled, cancelled.Status)
	require.Equal(suite.T(), uint(10), suite.variantStock("v1"))
}

func (suite *OrderServiceTestSuite) TestCompleteFlow() {
	order := suite.submitOrder("v1", 1)

	_, err := suite.orderService.Confirm(context.Background(), order.OrderID, nil)
	require.NoError(suite.T(), err)
	completed, err := suite.orderService.Complete(context.Background(), order.OrderID, nil)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.OrderStatusCompleted, completed.Status)
	// 完成不再動庫存
	require.Equal(suite.T(), uint(9), suite.variantStock("v1"))
}

func (suite *OrderServiceTestSuite) TestIllegalTransitions() {
	ctx := context.Background()

	// Pending 不能直接 Completed
	order := suite.submitOrder("v1", 1)
	_, err := suite.orderService.Complete(ctx, order.OrderID, nil)
	require.ErrorIs(suite.T(), err, ErrInvalidTransition)

	// 終態之後全部拒絕
	_, err = suite.orderService.Cancel(ctx, order.OrderID, nil)
	require.NoError(suite.T(), err)
	_, err = suite.orderService.Confirm(ctx, order.OrderID, nil)
	require.ErrorIs(suite.T(), err, ErrInvalidTransition)
	_, err = suite.orderService.Complete(ctx, order.OrderID, nil)
	require.ErrorIs(suite.T(), err, ErrInvalidTransition)
	_, err = suite.orderService.Cancel(ctx, order.OrderID, nil)
	require.ErrorIs(suite.T(), err, ErrInvalidTransition)
}

func (suite *OrderServiceTestSuite) TestTransitionUnknownOrder() {
	_, err := suite.orderService.Confirm(context.Background(), "missing", nil)
	require.ErrorIs(suite.T(), err, ErrOrderNotFound)
}

// 備註與轉換同一步寫入
func (suite *OrderServiceTestSuite) TestTransitionWithNote() {
	order := suite.submitOrder("v1", 1)

	confirmed, err := suite.orderService.Confirm(context.Background(), order.OrderID, &model.NoteInput{
		AuthorName: "staff-01",
		Content:    "stock checked, ok to ship",
	})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), confirmed.Notes, 1)
	require.Equal(suite.T(), "staff-01", confirmed.Notes[0].AuthorName)
	require.Equal(suite.T(), "stock checked, ok to ship", confirmed.Notes[0].Content)
}

func (suite *OrderServiceTestSuite) TestAppendNote() {
	order := suite.submitOrder("v1", 1)

	note, err := suite.orderService.AppendNote(context.Background(), order.OrderID, "staff-02", "customer called")
	require.NoError(suite.T(), err)
	require.NotEmpty(suite.T(), note.NoteID)

	reloaded, err := suite.orderService.GetOrder(context.Background(), order.OrderID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), reloaded.Notes, 1)

	// 終態也能加備註
	_, err = suite.orderService.Cancel(context.Background(), order.OrderID, nil)
	require.NoError(suite.T(), err)
	_, err = suite.orderService.AppendNote(context.Background(), order.OrderID, "staff-02", "refund not needed, COD")
	require.NoError(suite.T(), err)
}

func (suite *OrderServiceTestSuite) TestAppendNoteUnknownOrder() {
	_, err := suite.orderService.AppendNote(context.Background(), "missing", "staff-01", "hello")
	require.ErrorIs(suite.T(), err, ErrOrderNotFound)
}

// staleStatusOrderRepo 模擬讀到過期狀態的第二個操作者：
// 讀出的訂單永遠回報 staleStatus，寫入仍走真正的儲存
type staleStatusOrderRepo struct {
	repository.IOrderRepository
	staleStatus model.OrderStatus
}

func (r *staleStatusOrderRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := r.IOrderRepository.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Status = r.staleStatus
	return order, nil
}

// 兩個確認都在寫入前讀到 Pending：輸家必須把扣掉的庫存加回，不能扣兩次
func (suite *OrderServiceTestSuite) TestConfirmLosingStatusRaceRestoresStock() {
	ctx := context.Background()
	order := suite.submitOrder("v1", 4)

	_, err := suite.orderService.Confirm(ctx, order.OrderID, nil)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), uint(6), suite.variantStock("v1"))

	stale := &staleStatusOrderRepo{IOrderRepository: suite.orderRepo, staleStatus: model.OrderStatusPending}
	racer := NewOrderService(stale, suite.cartRepo, suite.inventory, suite.journal, suite.publisher, testLogger())

	_, err = racer.Confirm(ctx, order.OrderID, nil)
	require.ErrorIs(suite.T(), err, ErrInvalidTransition)

	reloaded, err := suite.orderService.GetOrder(ctx, order.OrderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.OrderStatusConfirmed, reloaded.Status)
	require.Equal(suite.T(), uint(6), suite.variantStock("v1"))
}

// 取消先贏下 Pending -> Cancelled，晚到的確認不能留下一筆已扣庫存的已取消訂單
func (suite *OrderServiceTestSuite) TestCancelThenStaleConfirmKeepsStock() {
	ctx := context.Background()
	order := suite.submitOrder("v1", 4)

	_, err := suite.orderService.Cancel(ctx, order.OrderID, nil)
	require.NoError(suite.T(), err)

	stale := &staleStatusOrderRepo{IOrderRepository: suite.orderRepo, staleStatus: model.OrderStatusPending}
	racer := NewOrderService(stale, suite.cartRepo, suite.inventory, suite.journal, suite.publisher, testLogger())

	_, err = racer.Confirm(ctx, order.OrderID, nil)
	require.ErrorIs(suite.T(), err, ErrInvalidTransition)

	reloaded, err := suite.orderService.GetOrder(ctx, order.OrderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.OrderStatusCancelled, reloaded.Status)
	require.Equal(suite.T(), uint(10), suite.variantStock("v1"))
}

// 同一張訂單併發確認，恰好一個成功且只扣一次
func (suite *OrderServiceTestSuite) TestConcurrentConfirmSameOrder() {
	ctx := context.Background()
	order := suite.submitOrder("v1", 4)

	var confirmed int32
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			_, err := suite.orderService.Confirm(gctx, order.OrderID, nil)
			if err != nil {
				// 輸家可能敗在狀態比對，也可能敗在別的確認暫時扣走庫存
				if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrInsufficientStock) {
					return nil
				}
				return err
			}
			atomic.AddInt32(&confirmed, 1)
			return nil
		})
	}
	require.NoError(suite.T(), g.Wait())

	require.Equal(suite.T(), int32(1), confirmed)
	require.Equal(suite.T(), uint(6), suite.variantStock("v1"))

	reloaded, err := suite.orderService.GetOrder(ctx, order.OrderID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), model.OrderStatusConfirmed, reloaded.Status)
}

func (suite *OrderServiceTestSuite) TestListOrdersByUser() {
	suite.submitOrder("v1", 1)
	suite.submitOrder("v1", 2)

	orders, err := suite.orderService.ListOrdersByUser(context.Background(), "u1")
	require.NoError(suite.T(), err)
	require.Len(suite.T(), orders, 2)

	orders, err = suite.orderService.ListOrdersByUser(context.Background(), "u2")
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), orders)
}
