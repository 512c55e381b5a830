package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rajputgas/agency-api/internal/apperrors"
	"github.com/rajputgas/agency-api/internal/models"
	"github.com/rajputgas/agency-api/internal/repository"
	"github.com/rajputgas/agency-api/pkg/logger"
)

// CustodyService owns the custody summary and the cylinder return ledger.
type CustodyService struct {
	gatePassRepo repository.GatePassRepository
	returnRepo   repository.ReturnRepository
	productRepo  repository.ProductRepository
	auditSvc     *AuditService
}

// NewCustodyService creates a new custody service
func NewCustodyService(
	gatePassRepo repository.GatePassRepository,
	returnRepo repository.ReturnRepository,
	productRepo repository.ProductRepository,
	auditSvc *AuditService,
) *CustodyService {
	return &CustodyService{
		gatePassRepo: gatePassRepo,
		returnRepo:   returnRepo,
		productRepo:  productRepo,
		auditSvc:     auditSvc,
	}
}

// GetCustodySummary folds the client's gate passes and returns into
// per-variant rows. Active catalog variants the client never touched appear
// with zero quantities so the listing always covers the full catalog.
func (s *CustodyService) GetCustodySummary(ctx context.Context, clientID uint) ([]models.CustodyRow, error) {
	passes, err := s.gatePassRepo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	returns, err := s.returnRepo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	rows := models.SummarizeCustody(passes, returns)

	products, err := s.productRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	type rowKey struct{ gasType, subType, capacity string }
	seen := make(map[rowKey]bool, len(rows))
	for _, r := range rows {
		seen[rowKey{r.GasType, r.SubType, r.Capacity}] = true
	}
	for _, p := range products {
		k := rowKey{p.GasType, p.SubType, models.DisplayCapacity(p.GasType, p.Capacity)}
		if seen[k] {
			continue
		}
		seen[k] = true
		rows = append(rows, models.CustodyRow{
			GasType:       k.gasType,
			SubType:       k.subType,
			Capacity:      k.capacity,
			RawCapacities: []string{p.Capacity},
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.GasType != b.GasType {
			return a.GasType < b.GasType
		}
		if a.SubType != b.SubType {
			return a.SubType < b.SubType
		}
		return a.Capacity < b.Capacity
	})
	return rows, nil
}

// RecordReturnInput is the payload for an interactive cylinder return.
// Capacity is the raw catalog capacity, never a display bucket.
type RecordReturnInput struct {
	GatePassID *uint  `json:"gate_pass_id"`
	GasType    string `json:"gas_type" binding:"required"`
	Capacity   string `json:"capacity" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
}

// RecordReturn appends a manual return to the ledger after validating it
// against pending custody. When the return references a gate pass and the
// pass's quantity is now fully covered, the pass transitions to RETURNED.
func (s *CustodyService) RecordReturn(ctx context.Context, clientID uint, input RecordReturnInput, actorID uint) (*models.CylinderReturn, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("return quantity must be positive, got %d: %w",
			input.Quantity, apperrors.ErrValidation)
	}

	if input.GatePassID != nil {
		pass, err := s.gatePassRepo.FindByID(ctx, *input.GatePassID)
		if err != nil {
			return nil, err
		}
		if pass.ClientID != clientID {
			return nil, fmt.Errorf("gate pass %d does not belong to client %d: %w",
				pass.ID, clientID, apperrors.ErrValidation)
		}
		if pass.GasType != input.GasType || pass.Capacity != input.Capacity {
			return nil, fmt.Errorf("gate pass %s carries %s %s, not %s %s: %w",
				pass.GatePassNumber, pass.GasType, pass.Capacity,
				input.GasType, input.Capacity, apperrors.ErrValidation)
		}
	}

	ret := &models.CylinderReturn{
		GatePassID: input.GatePassID,
		ClientID:   clientID,
		GasType:    input.GasType,
		Capacity:   input.Capacity,
		Quantity:   input.Quantity,
		Source:     models.ReturnSourceManual,
		ReturnedAt: time.Now(),
		RecordedBy: &actorID,
	}
	if err := s.returnRepo.CreateChecked(ctx, ret); err != nil {
		return nil, err
	}

	if input.GatePassID != nil {
		if err := s.settleGatePass(ctx, *input.GatePassID, ret.ReturnedAt); err != nil {
			logger.Error(fmt.Sprintf("[Custody] settle gate pass %d: %v", *input.GatePassID, err))
		}
	}

	_ = s.auditSvc.Log(ctx, &actorID, "RECORD_RETURN", "cylinder_return", ret.ID,
		fmt.Sprintf("returned %d x %s %s for client %d", ret.Quantity, ret.GasType, ret.Capacity, clientID))

	return ret, nil
}

// RecordAdjustment appends a privileged compensating entry. Quantity may be
// negative; the ledger invariants still hold, a violating entry is refused.
func (s *CustodyService) RecordAdjustment(ctx context.Context, clientID uint, input RecordReturnInput, actorID uint) (*models.CylinderReturn, error) {
	if input.Quantity == 0 {
		return nil, fmt.Errorf("adjustment quantity cannot be zero: %w", apperrors.ErrValidation)
	}

	ret := &models.CylinderReturn{
		GatePassID: input.GatePassID,
		ClientID:   clientID,
		GasType:    input.GasType,
		Capacity:   input.Capacity,
		Quantity:   input.Quantity,
		Source:     models.ReturnSourceAdjustment,
		ReturnedAt: time.Now(),
		RecordedBy: &actorID,
	}
	if err := s.returnRepo.CreateChecked(ctx, ret); err != nil {
		return nil, err
	}

	_ = s.auditSvc.Log(ctx, &actorID, "RECORD_ADJUSTMENT", "cylinder_return", ret.ID,
		fmt.Sprintf("adjusted %d x %s %s for client %d", ret.Quantity, ret.GasType, ret.Capacity, clientID))

	return ret, nil
}

// settleGatePass flips the pass to RETURNED once the ledger fully covers its
// quantity. The conditional update makes a lost race a harmless no-op.
func (s *CustodyService) settleGatePass(ctx context.Context, gatePassID uint, at time.Time) error {
	pass, err := s.gatePassRepo.FindByID(ctx, gatePassID)
	if err != nil {
		return err
	}
	if pass.IsReturned() {
		return nil
	}
	credited, err := s.returnRepo.SumByGatePass(ctx, gatePassID)
	if err != nil {
		return err
	}
	if credited < pass.Quantity {
		return nil
	}
	_, err = s.gatePassRepo.MarkReturned(ctx, gatePassID, at)
	return err
}
