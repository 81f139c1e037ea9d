package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model/event"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
)

var (
	// ErrEmptyCart 購物車是空的，不能送單
	ErrEmptyCart = errors.New("cart is empty")
	// ErrEmptyAddress 送單必須附上收件地址
	ErrEmptyAddress = errors.New("shipping address required")
	// ErrOrderNotFound 訂單不存在
	ErrOrderNotFound = repository.ErrOrderNotFound
	// ErrInvalidTransition 目前狀態不允許此轉換
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type IOrderService interface {
	Submit(ctx context.Context, userID, customerName, shippingAddress string) (*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListOrders(ctx context.Context) ([]model.Order, error)
	Confirm(ctx context.Context, orderID string, note *model.NoteInput) (*model.Order, error)
	Complete(ctx context.Context, orderID string, note *model.NoteInput) (*model.Order, error)
	Cancel(ctx context.Context, orderID string, note *model.NoteInput) (*model.Order, error)
	AppendNote(ctx context.Context, orderID, authorName, content string) (*model.StaffNote, error)
}

// OrderService 訂單帳本 + 狀態機
// 送單不檢查也不扣庫存，庫存只在確認當下才是權威
// 狀態機邊上觸發 InventoryService 進出庫存
type OrderService struct {
	orderRepo repository.IOrderRepository
	cartRepo  repository.ICartRepository
	inventory IInventoryService
	journal   IEventJournal
	publisher IEventPublisher
	logger    zerolog.Logger
}

func NewOrderService(
	orderRepo repository.IOrderRepository,
	cartRepo repository.ICartRepository,
	inventory IInventoryService,
	journal IEventJournal,
	publisher IEventPublisher,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		inventory: inventory,
		journal:   journal,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit 將購物車凍結成 Pending 訂單
// 刻意不碰庫存：高併發下先收單，庫存爭用留到確認階段解決
func (s *OrderService) Submit(ctx context.Context, userID, customerName, shippingAddress string) (*model.Order, error) {
	if shippingAddress == "" {
		return nil, ErrEmptyAddress
	}

	cart, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrCartNotFound) {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	lines := util.CartLinesToOrderLines(cart.Lines)
	order := &model.Order{
		OrderID:         util.GenerateOrderIDByTimestamp(),
		UserID:          userID,
		CustomerName:    customerName,
		Lines:           lines,
		Amount:          util.CalculateOrderAmount(lines),
		Status:          model.OrderStatusPending,
		ShippingAddress: shippingAddress,
		OrderDate:       time.Now().UTC(),
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteCart(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart after submit")
	}

	s.emit(ctx, order.OrderID, event.NewOrderPlacedEvent(order))
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	return s.orderRepo.GetOrderByID(ctx, orderID)
}

func (s *OrderService) ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return s.orderRepo.GetOrdersByUserID(ctx, userID)
}

func (s *OrderService) ListOrders(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.GetAllOrders(ctx)
}

// Confirm Pending -> Confirmed
// 全部訂單行一次檢查一次扣減，任何一行不足整個轉換中止，訂單停在 Pending
func (s *OrderService) Confirm(ctx context.Context, orderID string, note *model.NoteInput) (*model.Order, error) {
	return s.transition(ctx, orderID, model.OrderStatusConfirmed, note)
}

// Complete Confirmed -> Completed，不動庫存
func (s *OrderService) Complete(ctx context.Context, orderID string, note *model.NoteInput) (*model.Order, error) {
	return s.transition(ctx, orderID, model.OrderStatusCompleted, note)
}

// Cancel Pending/Confirmed -> Cancelled
// 只有已確認（扣過庫存）的訂單才會把數量加回
func (s *OrderService) Cancel(ctx context.Context, orderID string, note *model.NoteInput) (*model.Order, error) {
	return s.transition(ctx, orderID, model.OrderStatusCancelled, note)
}

func (s *OrderService) transition(ctx context.Context, orderID string, to model.OrderStatus, note *model.NoteInput) (*model.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if !from.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	// 確認的扣庫存先做：庫存是權威，不足就不該搶狀態
	// 同一張訂單兩個轉換併發時靠下面的 compare-and-swap 決勝，輸家把扣掉的加回
	deducted := false
	if from == model.OrderStatusPending && to == model.OrderStatusConfirmed {
		if err := s.inventory.ReserveDeduct(ctx, orderID, order.StockDemands()); err != nil {
			return nil, err
		}
		deducted = true
	}

	var staffNote *model.StaffNote
	var noteContent string
	if note != nil {
		staffNote = newStaffNote(note.AuthorName, note.Content)
		noteContent = note.Content
	}

	updated, err := s.orderRepo.UpdateOrderStatus(ctx, orderID, from, to, staffNote)
	if err != nil {
		if deducted {
			if rerr := s.inventory.Restore(ctx, orderID, order.StockDemands()); rerr != nil {
				s.logger.Error().Err(rerr).Str("order_id", orderID).Msg("failed to restore stock after losing status race")
			}
		}
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}
		return nil, err
	}

	// 取消已確認訂單的回補只在贏得狀態轉換後執行，不會有兩個取消各補一次
	if from == model.OrderStatusConfirmed && to == model.OrderStatusCancelled {
		if err := s.inventory.Restore(ctx, orderID, order.StockDemands()); err != nil {
			s.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to restore stock for cancelled order")
		}
	}

	s.logger.Info().
		Str("order_id", orderID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("order status changed")
	s.emit(ctx, orderID, event.NewOrderStatusChangedEvent(orderID, from, to, noteContent))
	return updated, nil
}

// AppendNote 任何狀態都可以加備註
func (s *OrderService) AppendNote(ctx context.Context, orderID, authorName, content string) (*model.StaffNote, error) {
	note := newStaffNote(authorName, content)
	if _, err := s.orderRepo.AppendNote(ctx, orderID, *note); err != nil {
		return nil, err
	}
	return note, nil
}

func newStaffNote(authorName, content string) *model.StaffNote {
	return &model.StaffNote{
		NoteID:     util.GenerateID(),
		Content:    content,
		AuthorName: authorName,
		CreatedAt:  time.Now().UTC(),
	}
}

// 事件寫日誌 + 發佈，失敗只記 log，不影響已完成的狀態變更
func (s *OrderService) emit(ctx context.Context, orderID string, evt event.Event) {
	if err := s.journal.AppendEvent(ctx, orderStreamID(orderID), evt); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to journal order event")
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID).Msg("failed to publish order event")
	}
}

func orderStreamID(orderID string) string {
	return fmt.Sprintf("order-%s", orderID)
}

var _ IOrderService = (*OrderService)(nil)
