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
	// ErrInsufficientStock 確認訂單時庫存不足
	// 實際錯誤為 *InsufficientStockError，用 errors.Is 比對此 sentinel
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrNegativeStock 管理端不允許把庫存設成負數
	ErrNegativeStock = errors.New("stock cannot be negative")
)

// InsufficientStockError 帶完整短缺明細
// 回報每一行不足的數量，不是只回報第一行
type InsufficientStockError struct {
	Shortfalls []model.StockShortfall
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d line(s)", len(e.Shortfalls))
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

type IInventoryService interface {
	ReserveDeduct(ctx context.Context, orderID string, demands []model.StockDemand) error
	Restore(ctx context.Context, orderID string, demands []model.StockDemand) error
	SetStock(ctx context.Context, variantID string, newQuantity int) (*model.Variant, error)
	ListMovements(ctx context.Context, variantID string) ([]model.StockMovement, error)
}

// InventoryService 庫存調節
// 整個系統唯一允許改動 Variant 庫存的元件
// 每次異動都追加一筆 StockMovement 流水並發佈事件
type InventoryService struct {
	catalogRepo  repository.ICatalogRepository
	movementRepo repository.IStockMovementRepository
	publisher    IEventPublisher
	logger       zerolog.Logger
}

func NewInventoryService(catalogRepo repository.ICatalogRepository, movementRepo repository.IStockMovementRepository, publisher IEventPublisher, logger zerolog.Logger) *InventoryService {
	return &InventoryService{
		catalogRepo:  catalogRepo,
		movementRepo: movementRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// ReserveDeduct 全部檢查再全部扣減，單一原子步驟
// 任何一行不足時整批不扣，回傳 *InsufficientStockError 帶所有短缺行
func (s *InventoryService) ReserveDeduct(ctx context.Context, orderID string, demands []model.StockDemand) error {
	shortfalls, err := s.catalogRepo.DeductStockBatch(ctx, demands)
	if err != nil {
		if errors.Is(err, repository.ErrStockNotEnough) {
			return &InsufficientStockError{Shortfalls: shortfalls}
		}
		return err
	}

	reason := fmt.Sprintf("order %s confirmed", orderID)
	s.recordMovements(ctx, reason, demands, -1)
	s.publish(ctx, event.NewStockDeductedEvent(orderID, reason, demands))
	return nil
}

// Restore 無條件加回，取消已確認訂單時使用
func (s *InventoryService) Restore(ctx context.Context, orderID string, demands []model.StockDemand) error {
	if err := s.catalogRepo.RestoreStockBatch(ctx, demands); err != nil {
		return err
	}

	reason := fmt.Sprintf("order %s cancelled", orderID)
	s.recordMovements(ctx, reason, demands, 1)
	s.publish(ctx, event.NewStockRestoredEvent(orderID, reason, demands))
	return nil
}

// SetStock 管理端直接覆寫庫存，繞過訂單邏輯
func (s *InventoryService) SetStock(ctx context.Context, variantID string, newQuantity int) (*model.Variant, error) {
	if newQuantity < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeStock, newQuantity)
	}

	oldStock, err := s.catalogRepo.GetVariantStock(ctx, variantID)
	if err != nil {
		return nil, err
	}
	variant, err := s.catalogRepo.SetStock(ctx, variantID, uint(newQuantity))
	if err != nil {
		return nil, err
	}

	if err := s.movementRepo.AppendMovement(ctx, model.StockMovement{
		MovementID: util.GenerateID(),
		VariantID:  variantID,
		QtyChange:  newQuantity - int(oldStock),
		Reason:     "manual adjustment",
		CreatedAt:  time.Now().UTC(),
	}); err != nil {
		s.logger.Error().Err(err).Str("variant_id", variantID).Msg("failed to record stock movement")
	}
	s.publish(ctx, event.NewStockAdjustedEvent(variantID, oldStock, uint(newQuantity)))
	return variant, nil
}

func (s *InventoryService) ListMovements(ctx context.Context, variantID string) ([]model.StockMovement, error) {
	return s.movementRepo.GetMovementsByVariantID(ctx, variantID)
}

// 流水為稽核用途，寫入失敗只記 log，庫存異動本身不回滾
func (s *InventoryService) recordMovements(ctx context.Context, reason string, demands []model.StockDemand, sign int) {
	now := time.Now().UTC()
	for _, demand := range demands {
		if err := s.movementRepo.AppendMovement(ctx, model.StockMovement{
			MovementID: util.GenerateID(),
			VariantID:  demand.VariantID,
			QtyChange:  sign * demand.Quantity,
			Reason:     reason,
			CreatedAt:  now,
		}); err != nil {
			s.logger.Error().Err(err).Str("variant_id", demand.VariantID).Msg("failed to record stock movement")
		}
	}
}

func (s *InventoryService) publish(ctx context.Context, evt event.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Error().Err(err).Str("event_type", string(evt.Type())).Msg("failed to publish stock event")
	}
}

var _ IInventoryService = (*InventoryService)(nil)
