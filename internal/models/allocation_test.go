package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateFIFO_TwoSales(t *testing.T) {
	sales := []Sale{
		{ID: 1, TotalAmount: 100, AmountPaid: 0},
		{ID: 2, TotalAmount: 50, AmountPaid: 0},
	}

	steps := AllocateFIFO(sales, 120)
	require.Len(t, steps, 2)

	assert.Equal(t, uint(1), steps[0].SaleID)
	assert.Equal(t, 100.0, steps[0].Applied)
	assert.Equal(t, 0.0, steps[0].Balance)

	assert.Equal(t, uint(2), steps[1].SaleID)
	assert.Equal(t, 20.0, steps[1].Applied)
	assert.Equal(t, 30.0, steps[1].Balance)
}

func TestAllocateFIFO_SkipsSettledSales(t *testing.T) {
	sales := []Sale{
		{ID: 1, TotalAmount: 100, AmountPaid: 100},
		{ID: 2, TotalAmount: 50, AmountPaid: 10},
	}

	steps := AllocateFIFO(sales, 30)
	require.Len(t, steps, 1)
	assert.Equal(t, uint(2), steps[0].SaleID)
	assert.Equal(t, 30.0, steps[0].Applied)
	assert.Equal(t, 40.0, steps[0].AmountPaid)
	assert.Equal(t, 10.0, steps[0].Balance)
}

func TestAllocateFIFO_StopsWhenExhausted(t *testing.T) {
	sales := []Sale{
		{ID: 1, TotalAmount: 40, AmountPaid: 0},
		{ID: 2, TotalAmount: 40, AmountPaid: 0},
		{ID: 3, TotalAmount: 40, AmountPaid: 0},
	}

	steps := AllocateFIFO(sales, 40)
	require.Len(t, steps, 1)
	assert.Equal(t, uint(1), steps[0].SaleID)
}

func TestAllocateFIFO_ZeroAmount(t *testing.T) {
	sales := []Sale{{ID: 1, TotalAmount: 100, AmountPaid: 0}}
	assert.Empty(t, AllocateFIFO(sales, 0))
}

func TestAllocateFIFO_ConservesAmount(t *testing.T) {
	sales := []Sale{
		{ID: 1, TotalAmount: 33.33, AmountPaid: 3.33},
		{ID: 2, TotalAmount: 75, AmountPaid: 0},
	}

	steps := AllocateFIFO(sales, 80)
	total := 0.0
	for _, s := range steps {
		total += s.Applied
		assert.InDelta(t, s.TotalAmount-s.AmountPaid, s.Balance, 1e-9)
	}
	assert.InDelta(t, 80, total, 1e-9)
}
