package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rajputgas/agency-api/internal/apperrors"
	"github.com/rajputgas/agency-api/internal/models"

	"gorm.io/gorm"
)

// GatePassRepository defines the interface for gate pass data access
type GatePassRepository interface {
	Create(ctx context.Context, pass *models.GatePass) error
	FindByID(ctx context.Context, id uint) (*models.GatePass, error)
	FindByClient(ctx context.Context, clientID uint) ([]models.GatePass, error)
	List(ctx context.Context, clientID uint, status string) ([]models.GatePass, error)
	FindDue(ctx context.Context, now time.Time) ([]models.GatePass, error)
	MarkReturned(ctx context.Context, id uint, at time.Time) (bool, error)
}

type gatePassRepository struct {
	db *gorm.DB
}

// NewGatePassRepository creates a new gate pass repository
func NewGatePassRepository(db *gorm.DB) GatePassRepository {
	return &gatePassRepository{db: db}
}

// Create assigns the next gate pass number and inserts the pass in one
// transaction.
func (r *gatePassRepository) Create(ctx context.Context, pass *models.GatePass) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextSequenceNumber(tx, "gate_passes", "gate_pass_number", "GP", pass.TimeOut.Year())
		if err != nil {
			return err
		}
		pass.GatePassNumber = number
		return tx.Create(pass).Error
	})
}

func (r *gatePassRepository) FindByID(ctx context.Context, id uint) (*models.GatePass, error) {
	var pass models.GatePass
	err := r.db.WithContext(ctx).First(&pass, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("gate pass %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &pass, nil
}

func (r *gatePassRepository) FindByClient(ctx context.Context, clientID uint) ([]models.GatePass, error) {
	var passes []models.GatePass
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("time_out ASC, id ASC").
		Find(&passes).Error
	return passes, err
}

func (r *gatePassRepository) List(ctx context.Context, clientID uint, status string) ([]models.GatePass, error) {
	q := r.db.WithContext(ctx).Model(&models.GatePass{})
	if clientID != 0 {
		q = q.Where("client_id = ?", clientID)
	}
	switch status {
	case models.GatePassStatusOut:
		q = q.Where("time_in IS NULL")
	case models.GatePassStatusReturned:
		q = q.Where("time_in IS NOT NULL")
	}
	var passes []models.GatePass
	err := q.Order("time_out DESC, id DESC").Find(&passes).Error
	return passes, err
}

// FindDue returns OUT passes whose expected return time has elapsed.
// Legacy opening passes carry no expected time and are never due.
func (r *gatePassRepository) FindDue(ctx context.Context, now time.Time) ([]models.GatePass, error) {
	var passes []models.GatePass
	err := r.db.WithContext(ctx).
		Where("time_in IS NULL AND expected_time_in IS NOT NULL AND expected_time_in < ?", now).
		Order("expected_time_in ASC").
		Find(&passes).Error
	return passes, err
}

// MarkReturned claims the terminal state with a conditional update. The
// sweeper and interactive returns race on this; whoever flips time_in first
// wins, the loser sees claimed=false and must not credit the ledger again.
func (r *gatePassRepository) MarkReturned(ctx context.Context, id uint, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.GatePass{}).
		Where("id = ? AND time_in IS NULL", id).
		Update("time_in", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
