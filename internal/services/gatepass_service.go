package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rajputgas/agency-api/internal/apperrors"
	"github.com/rajputgas/agency-api/internal/models"
	"github.com/rajputgas/agency-api/internal/repository"
	"github.com/rajputgas/agency-api/internal/statemachine"
	"github.com/rajputgas/agency-api/pkg/logger"
)

// GatePassService owns the gate pass register and the auto-expiry sweeper.
type GatePassService struct {
	gatePassRepo repository.GatePassRepository
	returnRepo   repository.ReturnRepository
	auditSvc     *AuditService
}

// NewGatePassService creates a new gate pass service
func NewGatePassService(
	gatePassRepo repository.GatePassRepository,
	returnRepo repository.ReturnRepository,
	auditSvc *AuditService,
) *GatePassService {
	return &GatePassService{
		gatePassRepo: gatePassRepo,
		returnRepo:   returnRepo,
		auditSvc:     auditSvc,
	}
}

// CreateGatePassInput is the payload for an outbound delivery.
type CreateGatePassInput struct {
	ClientID       uint       `json:"client_id" binding:"required"`
	ReceiptID      *uint      `json:"receipt_id"`
	DriverName     string     `json:"driver_name"`
	VehicleNumber  string     `json:"vehicle_number"`
	GasType        string     `json:"gas_type" binding:"required"`
	SubType        string     `json:"sub_type"`
	Capacity       string     `json:"capacity" binding:"required"`
	Quantity       int        `json:"quantity" binding:"required"`
	ExpectedTimeIn *time.Time `json:"expected_time_in"`
}

// Create registers an outbound gate pass with time_out = now and the next
// year-scoped gate pass number.
func (s *GatePassService) Create(ctx context.Context, input CreateGatePassInput, actorID uint) (*models.GatePass, error) {
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("gate pass quantity must be positive, got %d: %w",
			input.Quantity, apperrors.ErrValidation)
	}

	pass := &models.GatePass{
		ClientID:       input.ClientID,
		ReceiptID:      input.ReceiptID,
		DriverName:     input.DriverName,
		VehicleNumber:  input.VehicleNumber,
		GasType:        input.GasType,
		SubType:        input.SubType,
		Capacity:       input.Capacity,
		Quantity:       input.Quantity,
		TimeOut:        time.Now(),
		ExpectedTimeIn: input.ExpectedTimeIn,
		GateOperatorID: actorID,
	}
	if err := s.gatePassRepo.Create(ctx, pass); err != nil {
		return nil, err
	}

	_ = s.auditSvc.Log(ctx, &actorID, "CREATE_GATE_PASS", "gate_pass", pass.ID,
		fmt.Sprintf("issued %s: %d x %s %s to client %d",
			pass.GatePassNumber, pass.Quantity, pass.GasType, pass.Capacity, pass.ClientID))

	return pass, nil
}

// GetByID fetches one gate pass
func (s *GatePassService) GetByID(ctx context.Context, id uint) (*models.GatePass, error) {
	return s.gatePassRepo.FindByID(ctx, id)
}

// List returns gate passes, optionally filtered by client and status.
func (s *GatePassService) List(ctx context.Context, clientID uint, status string) ([]models.GatePass, error) {
	return s.gatePassRepo.List(ctx, clientID, status)
}

// MarkReturned transitions a gate pass OUT to RETURNED. Marking an
// already-returned pass is a no-op success, not an error.
func (s *GatePassService) MarkReturned(ctx context.Context, id uint, at time.Time, actorID uint) (*models.GatePass, error) {
	pass, err := s.gatePassRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	gfsm := statemachine.NewGatePassFSM(pass)
	if err := gfsm.Return(ctx, at); err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrInvalidState)
	}

	claimed, err := s.gatePassRepo.MarkReturned(ctx, id, at)
	if err != nil {
		return nil, err
	}
	if claimed {
		_ = s.auditSvc.Log(ctx, &actorID, "RETURN_GATE_PASS", "gate_pass", pass.ID,
			fmt.Sprintf("marked %s returned", pass.GatePassNumber))
	}

	return s.gatePassRepo.FindByID(ctx, id)
}

// AutoMarkDueReturns force-closes OUT passes whose expected return time has
// elapsed. The claim and the synthetic auto return commit in one
// transaction, so a failed credit leaves the pass OUT for the next sweep.
// Per-pass failures are logged and skipped so one bad row never stalls the
// sweep. Returns the number of passes closed.
func (s *GatePassService) AutoMarkDueReturns(ctx context.Context) (int, error) {
	now := time.Now()
	due, err := s.gatePassRepo.FindDue(ctx, now)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, pass := range due {
		claimed, credited, err := s.returnRepo.CloseWithAutoCredit(ctx, &pass, now)
		if err != nil {
			logger.Error(fmt.Sprintf("[Sweeper] close gate pass %d: %v", pass.ID, err))
			continue
		}
		if !claimed {
			// Someone returned it interactively since the scan.
			continue
		}

		_ = s.auditSvc.Log(ctx, nil, "AUTO_RETURN_GATE_PASS", "gate_pass", pass.ID,
			fmt.Sprintf("auto-closed %s after expected return time, credited %d", pass.GatePassNumber, credited))
		closed++
	}

	if closed > 0 {
		logger.Info(fmt.Sprintf("[Sweeper] auto-closed %d overdue gate passes", closed))
	}
	return closed, nil
}
