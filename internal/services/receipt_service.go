package services

import (
	"context"

	"github.com/rajputgas/agency-api/internal/models"
	"github.com/rajputgas/agency-api/internal/repository"
)

// ReceiptService issues one numbered receipt snapshot per payment
// allocation step.
type ReceiptService struct {
	receiptRepo repository.ReceiptRepository
}

// NewReceiptService creates a new receipt service
func NewReceiptService(receiptRepo repository.ReceiptRepository) *ReceiptService {
	return &ReceiptService{receiptRepo: receiptRepo}
}

// Issue persists a receipt for one allocation step and returns it with its
// assigned number.
func (s *ReceiptService) Issue(ctx context.Context, step models.SaleAllocation, clientID, actorID uint) (*models.Receipt, error) {
	receipt := &models.Receipt{
		SaleID:      step.SaleID,
		ClientID:    clientID,
		TotalAmount: step.TotalAmount,
		AmountPaid:  step.AmountPaid,
		Balance:     step.Balance,
		CreatedBy:   actorID,
	}
	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListForClient returns the client's receipts, newest first.
func (s *ReceiptService) ListForClient(ctx context.Context, clientID uint) ([]models.Receipt, error) {
	return s.receiptRepo.FindByClient(ctx, clientID)
}
