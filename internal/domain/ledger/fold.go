package ledger

import (
	"sort"
	"time"

	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Filter acota los plegados de lectura. Los campos vacíos no filtran.
// Las fechas se comparan contra TransactionDate (fecha contable).
type Filter struct {
	Location string
	Category string
	From     *time.Time
	To       *time.Time
}

func (f Filter) Matches(m *entity.StockMovement) bool {
	if f.Location != "" && entity.FoldLocation(m.Meta.Location) != entity.FoldLocation(f.Location) {
		return false
	}
	if f.Category != "" && entity.FoldLocation(m.Meta.Category) != entity.FoldLocation(f.Category) {
		return false
	}
	if f.From != nil && m.Meta.TransactionDate.Before(*f.From) {
		return false
	}
	if f.To != nil && m.Meta.TransactionDate.After(*f.To) {
		return false
	}
	return true
}

// Decode convierte registros crudos en movimientos del ledger. Los
// registros cuyo encoded_meta no decodifica se omiten: se conservan en
// el log pero no participan en ningún cálculo derivado.
func Decode(records []*entity.StockRecord) []*entity.StockMovement {
	movements := make([]*entity.StockMovement, 0, len(records))
	for _, rec := range records {
		meta := DecodeMeta(rec.EncodedMeta)
		if meta == nil {
			continue
		}
		movements = append(movements, &entity.StockMovement{
			ID:        rec.ID,
			Direction: rec.Direction,
			Quantity:  rec.Quantity,
			CreatedAt: rec.CreatedAt,
			Meta:      *meta,
		})
	}
	return movements
}

type summaryAccum struct {
	summary    entity.InventorySummary
	costAt     time.Time // CreatedAt de la última entrada con costo
	costIdx    int       // desempate por orden de inserción
	firstIndex int
}

// Summarize pliega los movimientos aprobados en el inventario actual por
// InventoryKey: qty = Σ(+entradas, -salidas), costo unitario de la última
// entrada que traiga costo, valor total = qty*costo. Las líneas con
// qty <= 0 se descartan ("sin stock" no es un error ni una fila negativa).
func Summarize(movements []*entity.StockMovement, filter Filter) []entity.InventorySummary {
	groups := make(map[entity.InventoryKey]*summaryAccum)

	for idx, m := range movements {
		if !m.IsApproved() || !filter.Matches(m) {
			continue
		}
		key := entity.KeyOf(&m.Meta)
		acc, ok := groups[key]
		if !ok {
			acc = &summaryAccum{
				summary: entity.InventorySummary{
					Key:          key,
					Category:     m.Meta.Category,
					ItemName:     m.Meta.ItemName,
					Location:     m.Meta.Location,
					SerialNumber: m.Meta.SerialNumber,
				},
				costIdx:    -1,
				firstIndex: idx,
			}
			groups[key] = acc
		}
		acc.summary.Qty += m.SignedQuantity()

		// Entradas sin costo no actualizan el costo unitario.
		if m.Direction == entity.DirectionIn && m.Meta.UnitCost != nil {
			if m.CreatedAt.After(acc.costAt) || (m.CreatedAt.Equal(acc.costAt) && idx > acc.costIdx) {
				acc.summary.UnitCost = *m.Meta.UnitCost
				acc.costAt = m.CreatedAt
				acc.costIdx = idx
			}
		}
	}

	result := make([]entity.InventorySummary, 0, len(groups))
	for _, acc := range groups {
		if acc.summary.Qty <= 0 {
			continue
		}
		acc.summary.TotalValue = decimal.NewFromInt(acc.summary.Qty).Mul(acc.summary.UnitCost)
		result = append(result, acc.summary)
	}

	// Orden estable por aparición en el ledger
	sort.SliceStable(result, func(i, j int) bool {
		return groups[result[i].Key].firstIndex < groups[result[j].Key].firstIndex
	})
	return result
}

// AvailableQty devuelve el stock actual de una línea concreta (0 si la
// línea no existe o quedó en negativo real).
func AvailableQty(movements []*entity.StockMovement, key entity.InventoryKey) int64 {
	var qty int64
	for _, m := range movements {
		if !m.IsApproved() {
			continue
		}
		if entity.KeyOf(&m.Meta) != key {
			continue
		}
		qty += m.SignedQuantity()
	}
	if qty < 0 {
		return 0
	}
	return qty
}

// MonthlyBalances calcula apertura y cierre por sede para la ventana
// [periodStart, periodEnd]: apertura = Σ firmada antes del inicio,
// cierre = apertura + Σ firmada dentro de la ventana. Solo movimientos
// aprobados; las fechas son TransactionDate, no CreatedAt.
func MonthlyBalances(movements []*entity.StockMovement, periodStart, periodEnd time.Time, filter Filter) []entity.LocationBalance {
	// La ventana temporal la fijan periodStart/periodEnd; las fechas del
	// filtro no aplican aquí (recortarían la apertura a cero).
	filter.From = nil
	filter.To = nil

	type balanceAccum struct {
		balance entity.LocationBalance
		first   int
	}
	byLocation := make(map[string]*balanceAccum)

	for idx, m := range movements {
		if !m.IsApproved() || !filter.Matches(m) {
			continue
		}
		folded := entity.FoldLocation(m.Meta.Location)
		acc, ok := byLocation[folded]
		if !ok {
			acc = &balanceAccum{balance: entity.LocationBalance{Location: m.Meta.Location}, first: idx}
			byLocation[folded] = acc
		}
		date := m.Meta.TransactionDate
		switch {
		case date.Before(periodStart):
			acc.balance.OpeningQty += m.SignedQuantity()
		case !date.After(periodEnd):
			acc.balance.ClosingQty += m.SignedQuantity()
		}
	}

	result := make([]entity.LocationBalance, 0, len(byLocation))
	order := make(map[string]int, len(byLocation))
	for _, acc := range byLocation {
		acc.balance.ClosingQty += acc.balance.OpeningQty
		order[entity.FoldLocation(acc.balance.Location)] = acc.first
		result = append(result, acc.balance)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return order[entity.FoldLocation(result[i].Location)] < order[entity.FoldLocation(result[j].Location)]
	})
	return result
}

// LowStock devuelve las líneas con qty <= threshold. Un umbral de 0
// desactiva la alerta por completo (no significa "qty <= 0").
func LowStock(summaries []entity.InventorySummary, threshold int64) []entity.InventorySummary {
	if threshold <= 0 {
		return nil
	}
	var flagged []entity.InventorySummary
	for _, s := range summaries {
		if s.Qty <= threshold {
			flagged = append(flagged, s)
		}
	}
	return flagged
}
