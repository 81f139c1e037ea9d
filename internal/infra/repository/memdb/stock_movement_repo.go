package memdb

import (
	"context"
	"sync"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
)

// StockMovementRepo 庫存異動流水，append-only
type StockMovementRepo struct {
	mu        sync.RWMutex
	movements []model.StockMovement
}

func NewStockMovementRepo() *StockMovementRepo {
	return &StockMovementRepo{}
}

func (r *StockMovementRepo) AppendMovement(ctx context.Context, movement model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.movements = append(r.movements, movement)
	return nil
}

func (r *StockMovementRepo) GetMovementsByVariantID(ctx context.Context, variantID string) ([]model.StockMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var movements []model.StockMovement
	for _, movement := range r.movements {
		if movement.VariantID == variantID {
			movements = append(movements, movement)
		}
	}
	return movements, nil
}

var _ repository.IStockMovementRepository = (*StockMovementRepo)(nil)
