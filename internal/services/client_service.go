package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rajputgas/agency-api/internal/apperrors"
	"github.com/rajputgas/agency-api/internal/models"
	"github.com/rajputgas/agency-api/internal/repository"
)

// ClientService manages the client registry and its one-time onboarding
// seeds.
type ClientService struct {
	clientRepo repository.ClientRepository
	auditSvc   *AuditService
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, auditSvc *AuditService) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		auditSvc:   auditSvc,
	}
}

// CreateClientInput carries a new client plus its legacy seeds: the
// carried-over money balance and the cylinders already in the client's
// possession when onboarded.
type CreateClientInput struct {
	Name                   string                        `json:"name" binding:"required"`
	Phone                  string                        `json:"phone" binding:"required"`
	Address                string                        `json:"address"`
	Company                string                        `json:"company"`
	InitialPreviousBalance float64                       `json:"initial_previous_balance"`
	InitialOutstanding     []models.OpeningCylinderEntry `json:"initial_outstanding"`
}

// Create registers a client. Opening cylinders become legacy gate passes
// with no expected return time, so the sweeper never force-closes them.
func (s *ClientService) Create(ctx context.Context, input CreateClientInput, actorID uint) (*models.Client, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Phone) == "" {
		return nil, fmt.Errorf("name and phone are required: %w", apperrors.ErrValidation)
	}
	if input.InitialPreviousBalance < 0 {
		return nil, fmt.Errorf("initial previous balance cannot be negative: %w", apperrors.ErrValidation)
	}
	for _, e := range input.InitialOutstanding {
		if e.Quantity <= 0 {
			return nil, fmt.Errorf("opening quantity must be positive for %s %s: %w",
				e.GasType, e.Capacity, apperrors.ErrValidation)
		}
	}

	client := &models.Client{
		Name:                   strings.TrimSpace(input.Name),
		Phone:                  strings.TrimSpace(input.Phone),
		Address:                input.Address,
		Company:                input.Company,
		InitialPreviousBalance: input.InitialPreviousBalance,
	}

	if err := s.clientRepo.CreateWithSeeds(ctx, client, input.InitialOutstanding, actorID); err != nil {
		return nil, err
	}

	_ = s.auditSvc.Log(ctx, &actorID, "CREATE_CLIENT", "client", client.ID,
		fmt.Sprintf("registered client %s", client.Name))

	return client, nil
}

// GetByID fetches one client
func (s *ClientService) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

// List returns all clients, optionally filtered by a search term matching
// name, phone or company.
func (s *ClientService) List(ctx context.Context, search string) ([]models.Client, error) {
	if strings.TrimSpace(search) != "" {
		return s.clientRepo.Search(ctx, strings.TrimSpace(search))
	}
	return s.clientRepo.FindAll(ctx)
}
