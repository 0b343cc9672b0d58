package report

import (
	"time"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/model"
)

// ClassifyStock places a part in exactly one stock band. An empty shelf is
// CRITICAL regardless of the minimum.
func ClassifyStock(p model.SparePart) model.StockStatus {
	switch {
	case p.CurrentStock == 0:
		return model.StockCritical
	case p.CurrentStock < p.MinStock:
		return model.StockLow
	case p.MaxStock != nil && *p.MaxStock > 0 && p.CurrentStock > *p.MaxStock:
		return model.StockOverstocked
	default:
		return model.StockAdequate
	}
}

// ReorderQuantity tops a low part up to its maximum, or twice its minimum when
// no maximum is set.
func ReorderQuantity(p model.SparePart) int {
	if p.CurrentStock >= p.MinStock {
		return 0
	}
	target := p.MinStock * 2
	if p.MaxStock != nil && *p.MaxStock > 0 {
		target = *p.MaxStock
	}
	return target - p.CurrentStock
}

type movementStats struct {
	count int
	last  *time.Time
}

// InventoryStatus classifies every spare part and attaches movement history.
// Asset categories in the filter are matched against part categories.
func InventoryStatus(snap Snapshot, f model.ReportFilter) []model.InventoryStatusRow {
	stats := map[string]movementStats{}
	for _, m := range snap.Movements {
		s := stats[m.PartID]
		s.count++
		if s.last == nil || m.CreatedAt.After(*s.last) {
			t := m.CreatedAt
			s.last = &t
		}
		stats[m.PartID] = s
	}

	selected := lo.Filter(snap.Parts, func(p *model.SparePart, _ int) bool {
		return matchesAny(f.AssetCategories, p.Category)
	})

	return lo.Map(selected, func(p *model.SparePart, _ int) model.InventoryStatusRow {
		s := stats[p.ID]
		return model.InventoryStatusRow{
			PartID:           p.ID,
			PartCode:         p.Code,
			Description:      p.Description,
			Category:         p.Category,
			CurrentStock:     p.CurrentStock,
			MinStock:         p.MinStock,
			MaxStock:         lo.FromPtr(p.MaxStock),
			StockStatus:      ClassifyStock(*p),
			Warehouse:        p.Warehouse,
			UnitCost:         p.UnitCost,
			TotalValue:       float64(p.CurrentStock) * p.UnitCost,
			LastMovementDate: s.last,
			MovementsCount:   s.count,
			Supplier:         p.Supplier,
			LeadTimeDays:     p.LeadTimeDays,
			ReorderNeeded:    p.IsLowStock(),
			ReorderQuantity:  ReorderQuantity(*p),
		}
	})
}
