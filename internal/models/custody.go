package models

import (
	"sort"
	"strings"
)

// CustodyRow is the per-variant custody summary for one client.
// Capacity may be a display bucket (e.g. "12/15kg"); RawCapacities lists the
// ledger capacities folded into it.
type CustodyRow struct {
	GasType       string   `json:"gas_type"`
	SubType       string   `json:"sub_type,omitempty"`
	Capacity      string   `json:"capacity"`
	RawCapacities []string `json:"raw_capacities,omitempty"`
	Delivered     int      `json:"delivered"`
	Returned      int      `json:"returned"`
	Pending       int      `json:"pending"`
}

type custodyKey struct {
	gasType  string
	subType  string
	capacity string
}

// DisplayCapacity maps a raw capacity to its reporting bucket. LPG 12kg and
// 15kg share one bucket; everything else reports as-is. The bucket exists
// only for display, ledger rows always key off the raw capacity.
func DisplayCapacity(gasType, capacity string) string {
	if gasType == "LPG" && (capacity == "12kg" || capacity == "15kg") {
		return "12/15kg"
	}
	return capacity
}

// SummarizeCustody folds gate passes and return events into per-variant
// delivered/returned/pending rows. Aggregation happens on the exact
// (gas_type, sub_type, raw capacity); the display bucket is applied as a
// final overlay over the raw rows.
func SummarizeCustody(passes []GatePass, returns []CylinderReturn) []CustodyRow {
	raw := make(map[custodyKey]*CustodyRow)

	for _, p := range passes {
		k := custodyKey{p.GasType, p.SubType, p.Capacity}
		row, ok := raw[k]
		if !ok {
			row = &CustodyRow{GasType: p.GasType, SubType: p.SubType, Capacity: p.Capacity}
			raw[k] = row
		}
		row.Delivered += p.Quantity
	}

	// Returns carry no sub_type; credit them to the matching (gas_type,
	// capacity) rows in sub_type order, never exceeding what each row
	// delivered. The total can never exceed delivered by construction of
	// the write path.
	for _, r := range returns {
		remaining := r.Quantity
		for _, k := range sortedKeys(raw) {
			if remaining == 0 {
				break
			}
			if k.gasType != r.GasType || k.capacity != r.Capacity {
				continue
			}
			row := raw[k]
			headroom := row.Delivered - row.Returned
			if headroom <= 0 {
				continue
			}
			credit := remaining
			if credit > headroom {
				credit = headroom
			}
			row.Returned += credit
			remaining -= credit
		}
	}

	// Display overlay: merge raw rows into buckets.
	buckets := make(map[custodyKey]*CustodyRow)
	for _, k := range sortedKeys(raw) {
		src := raw[k]
		bk := custodyKey{k.gasType, k.subType, DisplayCapacity(k.gasType, k.capacity)}
		row, ok := buckets[bk]
		if !ok {
			row = &CustodyRow{GasType: bk.gasType, SubType: bk.subType, Capacity: bk.capacity}
			buckets[bk] = row
		}
		row.RawCapacities = append(row.RawCapacities, k.capacity)
		row.Delivered += src.Delivered
		row.Returned += src.Returned
	}

	out := make([]CustodyRow, 0, len(buckets))
	for _, k := range sortedKeys(buckets) {
		row := buckets[k]
		row.Pending = row.Delivered - row.Returned
		if row.Pending < 0 {
			row.Pending = 0
		}
		out = append(out, *row)
	}
	return out
}

// PendingQuantity computes the client's pending custody for one exact
// (gas_type, raw capacity), across all sub_types. This is the figure return
// validation runs against.
func PendingQuantity(passes []GatePass, returns []CylinderReturn, gasType, capacity string) int {
	delivered := 0
	for _, p := range passes {
		if p.GasType == gasType && p.Capacity == capacity {
			delivered += p.Quantity
		}
	}
	returned := 0
	for _, r := range returns {
		if r.GasType == gasType && r.Capacity == capacity {
			returned += r.Quantity
		}
	}
	pending := delivered - returned
	if pending < 0 {
		return 0
	}
	return pending
}

// AutoReturnQuantity sizes the synthetic return credited when a gate pass
// is force-closed: the pass quantity not yet credited to it, capped at the
// client's pending custody for the raw variant. The cap keeps returns
// recorded without a gate pass reference from being counted twice, so the
// returned total never exceeds the delivered total.
func AutoReturnQuantity(pass GatePass, passes []GatePass, returns []CylinderReturn) int {
	credited := 0
	for _, r := range returns {
		if r.GatePassID != nil && *r.GatePassID == pass.ID {
			credited += r.Quantity
		}
	}
	outstanding := pass.Quantity - credited
	if outstanding <= 0 {
		return 0
	}
	pending := PendingQuantity(passes, returns, pass.GasType, pass.Capacity)
	if outstanding > pending {
		return pending
	}
	return outstanding
}

func sortedKeys(m map[custodyKey]*CustodyRow) []custodyKey {
	keys := make([]custodyKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.gasType != b.gasType {
			return a.gasType < b.gasType
		}
		if a.subType != b.subType {
			return a.subType < b.subType
		}
		return capacityLess(a.capacity, b.capacity)
	})
	return keys
}

// capacityLess orders "6kg" < "12kg" < "45kg" numerically where possible.
func capacityLess(a, b string) bool {
	na, oka := leadingInt(a)
	nb, okb := leadingInt(b)
	if oka && okb && na != nb {
		return na < nb
	}
	return strings.Compare(a, b) < 0
}

func leadingInt(s string) (int, bool) {
	n := 0
	seen := false
	for _, c := range s {
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		seen = true
	}
	return n, seen
}
