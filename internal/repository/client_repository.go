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

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Client, error)
	FindAll(ctx context.Context) ([]models.Client, error)
	Search(ctx context.Context, term string) ([]models.Client, error)
	CreateWithSeeds(ctx context.Context, client *models.Client, opening []models.OpeningCylinderEntry, actorID uint) error
	RefreshRollup(ctx context.Context, clientID uint) error
}

type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).First(&client, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("client %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) FindAll(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).Order("name ASC").Find(&clients).Error
	return clients, err
}

func (r *clientRepository) Search(ctx context.Context, term string) ([]models.Client, error) {
	var clients []models.Client
	pattern := "%" + term + "%"
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR phone ILIKE ? OR company ILIKE ?", pattern, pattern, pattern).
		Order("name ASC").
		Find(&clients).Error
	return clients, err
}

// CreateWithSeeds creates the client together with its legacy opening
// custody, materialized as gate passes without an expected return time so
// the sweeper never force-closes them.
func (r *clientRepository) CreateWithSeeds(ctx context.Context, client *models.Client, opening []models.OpeningCylinderEntry, actorID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(client).Error; err != nil {
			return err
		}
		now := time.Now()
		for _, e := range opening {
			number, err := nextSequenceNumber(tx, "gate_passes", "gate_pass_number", "GP", now.Year())
			if err != nil {
				return err
			}
			pass := &models.GatePass{
				GatePassNumber: number,
				ClientID:       client.ID,
				GasType:        e.GasType,
				SubType:        e.SubType,
				Capacity:       e.Capacity,
				Quantity:       e.Quantity,
				TimeOut:        now,
				GateOperatorID: actorID,
			}
			if err := tx.Create(pass).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RefreshRollup recomputes the client's purchase/payment totals from its
// sales, the way the legacy ledger kept them.
func (r *clientRepository) RefreshRollup(ctx context.Context, clientID uint) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE clients
		SET total_purchases = COALESCE((SELECT SUM(total_amount) FROM sales WHERE client_id = ?), 0),
		    total_paid = COALESCE((SELECT SUM(amount_paid) FROM sales WHERE client_id = ?), 0),
		    balance = COALESCE((SELECT SUM(balance) FROM sales WHERE client_id = ?), 0),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		clientID, clientID, clientID, clientID).Error
}
