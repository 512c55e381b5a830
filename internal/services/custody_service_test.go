package services

import (
	"context"
	"testing"
	"time"

	"github.com/rajputgas/agency-api/internal/apperrors"
	"github.com/rajputgas/agency-api/internal/models"
	"github.com/rajputgas/agency-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProductRepo struct {
	repository.ProductRepository
	mockFindAllActive func(ctx context.Context) ([]models.GasProduct, error)
}

func (m *mockProductRepo) FindAllActive(ctx context.Context) ([]models.GasProduct, error) {
	return m.mockFindAllActive(ctx)
}

func TestGetCustodySummary_IncludesUntouchedCatalogVariants(t *testing.T) {
	passRepo := &mockGatePassRepo{
		mockFindByClient: func(ctx context.Context, clientID uint) ([]models.GatePass, error) {
			return []models.GatePass{
				{ClientID: clientID, GasType: "LPG", Capacity: "12kg", Quantity: 4},
			}, nil
		},
	}
	returnRepo := &mockReturnRepo{
		mockFindByClient: func(ctx context.Context, clientID uint) ([]models.CylinderReturn, error) {
			return nil, nil
		},
	}
	productRepo := &mockProductRepo{
		mockFindAllActive: func(ctx context.Context) ([]models.GasProduct, error) {
			return []models.GasProduct{
				{GasType: "LPG", Capacity: "12kg"},
				{GasType: "LPG", Capacity: "15kg"},
				{GasType: "LPG", Capacity: "45kg"},
				{GasType: "Oxygen", Capacity: "40L"},
			}, nil
		},
	}
	svc := NewCustodyService(passRepo, returnRepo, productRepo, NewAuditService(nil))

	rows, err := svc.GetCustodySummary(context.Background(), 1)
	require.NoError(t, err)

	// 12kg and 15kg share the display bucket, so the catalog contributes
	// 12/15kg (already present with custody), 45kg and Oxygen 40L.
	require.Len(t, rows, 3)

	byCapacity := make(map[string]models.CustodyRow, len(rows))
	for _, r := range rows {
		byCapacity[r.GasType+"/"+r.Capacity] = r
	}

	withCustody := byCapacity["LPG/12/15kg"]
	assert.Equal(t, 4, withCustody.Delivered)
	assert.Equal(t, 4, withCustody.Pending)

	zero := byCapacity["LPG/45kg"]
	assert.Zero(t, zero.Delivered)
	assert.Zero(t, zero.Pending)

	oxygen := byCapacity["Oxygen/40L"]
	assert.Zero(t, oxygen.Delivered)
}

func TestRecordReturn_RejectsNonPositiveQuantity(t *testing.T) {
	svc := NewCustodyService(&mockGatePassRepo{}, &mockReturnRepo{}, &mockProductRepo{}, NewAuditService(nil))

	_, err := svc.RecordReturn(context.Background(), 1, RecordReturnInput{
		GasType: "LPG", Capacity: "12kg", Quantity: 0,
	}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRecordReturn_RejectsVariantMismatchWithGatePass(t *testing.T) {
	passID := uint(3)
	passRepo := &mockGatePassRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.GatePass, error) {
			return &models.GatePass{
				ID: id, GatePassNumber: "GP-2026-000003", ClientID: 1,
				GasType: "LPG", Capacity: "45kg", Quantity: 2,
			}, nil
		},
	}
	svc := NewCustodyService(passRepo, &mockReturnRepo{}, &mockProductRepo{}, NewAuditService(nil))

	_, err := svc.RecordReturn(context.Background(), 1, RecordReturnInput{
		GatePassID: &passID, GasType: "LPG", Capacity: "12kg", Quantity: 1,
	}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRecordReturn_SettlesFullyCoveredGatePass(t *testing.T) {
	passID := uint(3)
	settled := 0
	passRepo := &mockGatePassRepo{
		mockFindByID: func(ctx context.Context, id uint) (*models.GatePass, error) {
			return &models.GatePass{
				ID: id, GatePassNumber: "GP-2026-000003", ClientID: 1,
				GasType: "LPG", Capacity: "12kg", Quantity: 4,
			}, nil
		},
		mockMarkReturned: func(ctx context.Context, id uint, at time.Time) (bool, error) {
			settled++
			return true, nil
		},
	}
	returnRepo := &mockReturnRepo{
		mockCreateChecked: func(ctx context.Context, ret *models.CylinderReturn) error {
			ret.ID = 11
			return nil
		},
		mockSumByGatePass: func(ctx context.Context, gatePassID uint) (int, error) {
			return 4, nil
		},
	}
	svc := NewCustodyService(passRepo, returnRepo, &mockProductRepo{}, NewAuditService(nil))

	ret, err := svc.RecordReturn(context.Background(), 1, RecordReturnInput{
		GatePassID: &passID, GasType: "LPG", Capacity: "12kg", Quantity: 4,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.ReturnSourceManual, ret.Source)
	assert.Equal(t, 1, settled)
}

func TestRecordReturn_PropagatesOverReturn(t *testing.T) {
	returnRepo := &mockReturnRepo{
		mockCreateChecked: func(ctx context.Context, ret *models.CylinderReturn) error {
			return apperrors.ErrOverReturn
		},
	}
	svc := NewCustodyService(&mockGatePassRepo{}, returnRepo, &mockProductRepo{}, NewAuditService(nil))

	_, err := svc.RecordReturn(context.Background(), 1, RecordReturnInput{
		GasType: "LPG", Capacity: "12kg", Quantity: 99,
	}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrOverReturn)
}

func TestRecordAdjustment_RejectsZeroQuantity(t *testing.T) {
	svc := NewCustodyService(&mockGatePassRepo{}, &mockReturnRepo{}, &mockProductRepo{}, NewAuditService(nil))

	_, err := svc.RecordAdjustment(context.Background(), 1, RecordReturnInput{
		GasType: "LPG", Capacity: "12kg", Quantity: 0,
	}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRecordAdjustment_AllowsNegativeQuantity(t *testing.T) {
	var recorded *models.CylinderReturn
	returnRepo := &mockReturnRepo{
		mockCreateChecked: func(ctx context.Context, ret *models.CylinderReturn) error {
			recorded = ret
			return nil
		},
	}
	svc := NewCustodyService(&mockGatePassRepo{}, returnRepo, &mockProductRepo{}, NewAuditService(nil))

	ret, err := svc.RecordAdjustment(context.Background(), 1, RecordReturnInput{
		GasType: "LPG", Capacity: "12kg", Quantity: -2,
	}, 1)
	require.NoError(t, err)
	require.NotNil(t, recorded)
	assert.Equal(t, models.ReturnSourceAdjustment, ret.Source)
	assert.Equal(t, -2, ret.Quantity)
}
