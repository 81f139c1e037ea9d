package db

import (
	"context"

	domain "github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
)

// StockMovementDBRepo 庫存異動流水，只新增不修改
type StockMovementDBRepo struct {
	db *DbDao
}

func NewStockMovementDBRepo(db *DbDao) *StockMovementDBRepo {
	return &StockMovementDBRepo{db: db}
}

func (r *StockMovementDBRepo) AppendMovement(ctx context.Context, movement domain.StockMovement) error {
	return r.db.WithContext(ctx).Create(&model.StockMovement{
		MovementID: movement.MovementID,
		VariantID:  movement.VariantID,
		QtyChange:  movement.QtyChange,
		Reason:     movement.Reason,
		CreatedAt:  movement.CreatedAt,
	}).Error
}

func (r *StockMovementDBRepo) GetMovementsByVariantID(ctx context.Context, variantID string) ([]domain.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("variant_id = ?", variantID).
		Order("created_at ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.StockMovement, len(movements))
	for i, movement := range movements {
		result[i] = domain.StockMovement{
			MovementID: movement.MovementID,
			VariantID:  movement.VariantID,
			QtyChange:  movement.QtyChange,
			Reason:     movement.Reason,
			CreatedAt:  movement.CreatedAt,
		}
	}
	return result, nil
}

var _ repository.IStockMovementRepository = (*StockMovementDBRepo)(nil)
