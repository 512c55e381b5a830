package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rajputgas/agency-api/internal/apperrors"
	"github.com/rajputgas/agency-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReturnRepository defines the interface for the cylinder return ledger.
// The ledger is append-only: there is no update or delete path.
type ReturnRepository interface {
	CreateChecked(ctx context.Context, ret *models.CylinderReturn) error
	CloseWithAutoCredit(ctx context.Context, pass *models.GatePass, at time.Time) (claimed bool, credited int, err error)
	FindByClient(ctx context.Context, clientID uint) ([]models.CylinderReturn, error)
	SumByGatePass(ctx context.Context, gatePassID uint) (int, error)
}

type returnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates a new return repository
func NewReturnRepository(db *gorm.DB) ReturnRepository {
	return &returnRepository{db: db}
}

// CloseWithAutoCredit claims the gate pass terminal state and credits the
// synthetic auto return in one transaction, so a failed credit rolls the
// claim back and the next sweep retries the row. The client's rows for the
// raw variant are locked the same way CreateChecked locks them, and the
// credit is capped at the client's pending custody: returns recorded
// without a gate pass reference still count against the pass.
func (r *returnRepository) CloseWithAutoCredit(ctx context.Context, pass *models.GatePass, at time.Time) (bool, int, error) {
	claimed := false
	credited := 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.GatePass{}).
			Where("id = ? AND time_in IS NULL", pass.ID).
			Update("time_in", at)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		claimed = true

		var passes []models.GatePass
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("client_id = ? AND gas_type = ? AND capacity = ?", pass.ClientID, pass.GasType, pass.Capacity).
			Find(&passes).Error
		if err != nil {
			return err
		}

		var returns []models.CylinderReturn
		err = tx.Where("client_id = ? AND gas_type = ? AND capacity = ?", pass.ClientID, pass.GasType, pass.Capacity).
			Find(&returns).Error
		if err != nil {
			return err
		}

		quantity := models.AutoReturnQuantity(*pass, passes, returns)
		if quantity == 0 {
			return nil
		}

		passID := pass.ID
		ret := &models.CylinderReturn{
			GatePassID: &passID,
			ClientID:   pass.ClientID,
			GasType:    pass.GasType,
			Capacity:   pass.Capacity,
			Quantity:   quantity,
			Source:     models.ReturnSourceAuto,
			ReturnedAt: at,
		}
		if err := tx.Create(ret).Error; err != nil {
			return err
		}
		credited = quantity
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return claimed, credited, nil
}

// CreateChecked appends a return after validating it against pending
// custody inside one transaction. The client's gate pass rows for the raw
// (gas_type, capacity) are locked so concurrent returns serialize; a return
// exceeding pending is rejected, never clamped.
func (r *returnRepository) CreateChecked(ctx context.Context, ret *models.CylinderReturn) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var passes []models.GatePass
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("client_id = ? AND gas_type = ? AND capacity = ?", ret.ClientID, ret.GasType, ret.Capacity).
			Find(&passes).Error
		if err != nil {
			return err
		}

		var returns []models.CylinderReturn
		err = tx.Where("client_id = ? AND gas_type = ? AND capacity = ?", ret.ClientID, ret.GasType, ret.Capacity).
			Find(&returns).Error
		if err != nil {
			return err
		}

		pending := models.PendingQuantity(passes, returns, ret.GasType, ret.Capacity)
		if ret.Quantity > pending {
			return fmt.Errorf("return of %d exceeds pending %d for %s %s: %w",
				ret.Quantity, pending, ret.GasType, ret.Capacity, apperrors.ErrOverReturn)
		}

		// Adjustments may be negative; the returned total must stay >= 0.
		if ret.Quantity < 0 {
			returned := 0
			for _, cr := range returns {
				returned += cr.Quantity
			}
			if returned+ret.Quantity < 0 {
				return fmt.Errorf("adjustment of %d would drive returned total below zero: %w",
					ret.Quantity, apperrors.ErrInvariant)
			}
		}

		return tx.Create(ret).Error
	})
}

func (r *returnRepository) FindByClient(ctx context.Context, clientID uint) ([]models.CylinderReturn, error) {
	var returns []models.CylinderReturn
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("returned_at ASC, id ASC").
		Find(&returns).Error
	return returns, err
}

// SumByGatePass totals the quantities already credited to one gate pass.
func (r *returnRepository) SumByGatePass(ctx context.Context, gatePassID uint) (int, error) {
	var result struct {
		Total int
	}
	err := r.db.WithContext(ctx).
		Model(&models.CylinderReturn{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Where("gate_pass_id = ?", gatePassID).
		Scan(&result).Error
	return result.Total, err
}
