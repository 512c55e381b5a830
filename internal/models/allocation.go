package models

// SaleAllocation is one step of fanning a weekly payment out across the
// client's outstanding sales, oldest first.
type SaleAllocation struct {
	SaleID      uint    `json:"sale_id"`
	Applied     float64 `json:"applied"`
	TotalAmount float64 `json:"total_amount"`
	AmountPaid  float64 `json:"amount_paid"` // after applying
	Balance     float64 `json:"balance"`     // after applying
}

// AllocateFIFO applies amount across sales in the given order (callers pass
// them oldest-created-first). Each sale with a positive remaining balance
// absorbs min(remaining allocation, sale remaining); the walk stops once the
// allocation is exhausted. Sales without outstanding balance are skipped.
func AllocateFIFO(sales []Sale, amount float64) []SaleAllocation {
	var steps []SaleAllocation
	remaining := amount

	for _, s := range sales {
		if remaining <= 0 {
			break
		}
		due := s.TotalAmount - s.AmountPaid
		if due <= 0 {
			continue
		}
		applied := remaining
		if applied > due {
			applied = due
		}
		newPaid := s.AmountPaid + applied
		steps = append(steps, SaleAllocation{
			SaleID:      s.ID,
			Applied:     applied,
			TotalAmount: s.TotalAmount,
			AmountPaid:  newPaid,
			Balance:     s.TotalAmount - newPaid,
		})
		remaining -= applied
	}
	return steps
}
