package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/rahulAIsingh/smart-asset-backend/internal/domain"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/ledger"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/repository"
)

// QueryUseCase agrupa las lecturas derivadas del ledger. Todas son
// plegados síncronos sobre un snapshot listado al momento de la llamada:
// no hay caché ni recomputación en segundo plano.
type QueryUseCase struct {
	records repository.StockRecordRepository
}

// NewQueryUseCase construye el caso de uso de lectura.
func NewQueryUseCase(records repository.StockRecordRepository) *QueryUseCase {
	return &QueryUseCase{records: records}
}

// ExportRow es una fila de la exportación tabular: un movimiento del
// ledger en la vista filtrada, con los campos planos del formato.
type ExportRow struct {
	Direction      string
	Date           time.Time
	Category       string
	ItemName       string
	SerialNumber   string
	Quantity       int64
	ReasonType     string
	FromLocation   string
	ToLocation     string
	ScrapVendor    string
	Note           string
	ApprovalStatus string
	CreatedBy      string
}

func (uc *QueryUseCase) snapshot(ctx context.Context) ([]*entity.StockMovement, error) {
	records, err := uc.records.List(ctx, repository.RecordFilter{})
	if err != nil {
		return nil, fmt.Errorf("listar ledger: %w", err)
	}
	return ledger.Decode(records), nil
}

// ListMovements devuelve los movimientos decodificados (todos los
// estados) que pasan el filtro, en orden del log.
func (uc *QueryUseCase) ListMovements(ctx context.Context, filter ledger.Filter) ([]*entity.StockMovement, error) {
	movements, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]*entity.StockMovement, 0, len(movements))
	for _, m := range movements {
		if filter.Matches(m) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// GetMovement devuelve un movimiento decodificado por id.
func (uc *QueryUseCase) GetMovement(ctx context.Context, id string) (*entity.StockMovement, error) {
	record, err := uc.records.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cargar movimiento %s: %w", id, err)
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	meta := ledger.DecodeMeta(record.EncodedMeta)
	if meta == nil {
		return nil, domain.ErrNotLedgerRecord
	}
	return &entity.StockMovement{
		ID:        record.ID,
		Direction: record.Direction,
		Quantity:  record.Quantity,
		CreatedAt: record.CreatedAt,
		Meta:      *meta,
	}, nil
}

// Summary devuelve el inventario actual por línea (solo movimientos
// aprobados; las líneas sin stock no aparecen).
func (uc *QueryUseCase) Summary(ctx context.Context, filter ledger.Filter) ([]entity.InventorySummary, error) {
	movements, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ledger.Summarize(movements, filter), nil
}

// MonthlyBalances devuelve apertura y cierre por sede para el mes dado.
func (uc *QueryUseCase) MonthlyBalances(ctx context.Context, year int, month time.Month, filter ledger.Filter) ([]entity.LocationBalance, error) {
	if year < 1 || month < time.January || month > time.December {
		return nil, domain.ErrInvalidInput
	}
	movements, err := uc.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	periodStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return ledger.MonthlyBalances(movements, periodStart, periodEnd, filter), nil
}

// LowStock devuelve las líneas con qty <= threshold (0 desactiva la alerta).
func (uc *QueryUseCase) LowStock(ctx context.Context, threshold int64, filter ledger.Filter) ([]entity.InventorySummary, error) {
	summaries, err := uc.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ledger.LowStock(summaries, threshold), nil
}

// ExportRows arma la vista tabular de movimientos para exportación.
func (uc *QueryUseCase) ExportRows(ctx context.Context, filter ledger.Filter) ([]ExportRow, error) {
	movements, err := uc.ListMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	rows := make([]ExportRow, 0, len(movements))
	for _, m := range movements {
		status := m.Meta.ApprovalStatus
		if status == "" {
			status = entity.StatusApproved
		}
		rows = append(rows, ExportRow{
			Direction:      m.Direction,
			Date:           m.Meta.TransactionDate,
			Category:       m.Meta.Category,
			ItemName:       m.Meta.ItemName,
			SerialNumber:   m.Meta.SerialNumber,
			Quantity:       m.Quantity,
			ReasonType:     m.Meta.ReasonType,
			FromLocation:   m.Meta.FromLocation,
			ToLocation:     m.Meta.ToLocation,
			ScrapVendor:    m.Meta.ScrapVendor,
			Note:           m.Meta.Note,
			ApprovalStatus: status,
			CreatedBy:      m.Meta.CreatedBy,
		})
	}
	return rows, nil
}
