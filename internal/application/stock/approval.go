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

// ApprovalUseCase resuelve movimientos pendientes: pending -> approved o
// pending -> rejected, ambos terminales. Resolver un movimiento ya
// resuelto es un error explícito (ErrAlreadyResolved), nunca un no-op
// silencioso ni una reaplicación: re-enlazar un traslado duplicaría
// inventario en destino.
type ApprovalUseCase struct {
	txRunner TxRunner
}

// NewApprovalUseCase construye el caso de uso.
func NewApprovalUseCase(txRunner TxRunner) *ApprovalUseCase {
	return &ApprovalUseCase{txRunner: txRunner}
}

// Approve marca el movimiento como aprobado. Si es un traslado, la misma
// transacción materializa la entrada enlazada en la sede destino: o se
// confirman las dos escrituras o ninguna (la cantidad no puede "perderse
// en tránsito").
func (uc *ApprovalUseCase) Approve(ctx context.Context, movementID, actor string) error {
	return uc.txRunner.Run(ctx, func(records repository.StockRecordRepository) error {
		record, meta, err := loadPending(ctx, records, movementID)
		if err != nil {
			return err
		}

		now := time.Now()
		meta.ApprovalStatus = entity.StatusApproved
		meta.ApprovedBy = actor
		meta.ApprovedDate = &now
		if err := records.UpdateMeta(ctx, record.ID, ledger.EncodeMeta(meta)); err != nil {
			return fmt.Errorf("aprobar movimiento %s: %w", record.ID, err)
		}

		if record.Direction == entity.DirectionOut && meta.ReasonType == entity.ReasonTransfer {
			if err := linkTransfer(ctx, records, record, meta, actor, now); err != nil {
				// el rollback de la transacción devuelve la salida a pending
				return fmt.Errorf("enlazar traslado %s: %w", record.ID, err)
			}
		}
		return nil
	})
}

// Reject marca el movimiento como rechazado (terminal, sin efecto alguno
// sobre el inventario derivado).
func (uc *ApprovalUseCase) Reject(ctx context.Context, movementID, actor string) error {
	return uc.txRunner.Run(ctx, func(records repository.StockRecordRepository) error {
		record, meta, err := loadPending(ctx, records, movementID)
		if err != nil {
			return err
		}

		now := time.Now()
		meta.ApprovalStatus = entity.StatusRejected
		meta.ApprovedBy = actor
		meta.ApprovedDate = &now
		if err := records.UpdateMeta(ctx, record.ID, ledger.EncodeMeta(meta)); err != nil {
			return fmt.Errorf("rechazar movimiento %s: %w", record.ID, err)
		}
		return nil
	})
}

func loadPending(ctx context.Context, records repository.StockRecordRepository, movementID string) (*entity.StockRecord, *entity.StockMovementMeta, error) {
	record, err := records.GetForUpdate(ctx, movementID)
	if err != nil {
		return nil, nil, fmt.Errorf("cargar movimiento %s: %w", movementID, err)
	}
	if record == nil {
		return nil, nil, domain.ErrNotFound
	}
	meta := ledger.DecodeMeta(record.EncodedMeta)
	if meta == nil {
		return nil, nil, domain.ErrNotLedgerRecord
	}
	if meta.ApprovalStatus != entity.StatusPending {
		return nil, nil, domain.ErrAlreadyResolved
	}
	return record, meta, nil
}

// linkTransfer sintetiza la entrada receptora del traslado aprobado:
// misma línea (categoría/ítem/serie), misma cantidad, sede = destino,
// aprobada de inmediato (sin segunda aprobación), referencia fresca y
// nota que apunta a la sede origen. Conservación: la salida en origen y
// esta entrada suman cero sobre la línea global.
func linkTransfer(ctx context.Context, records repository.StockRecordRepository, out *entity.StockRecord, outMeta *entity.StockMovementMeta, actor string, now time.Time) error {
	from := outMeta.FromLocation
	if from == "" {
		from = outMeta.Location
	}

	inMeta := entity.StockMovementMeta{
		Category:        outMeta.Category,
		ItemName:        outMeta.ItemName,
		SerialNumber:    outMeta.SerialNumber,
		Location:        outMeta.ToLocation,
		UnitCost:        outMeta.UnitCost,
		ReferenceNumber: NewReferenceNumber("TRF"),
		Note:            fmt.Sprintf("Traslado recibido desde %s (mov. %s)", from, out.ID),
		CreatedBy:       actor,
		CreatedDate:     now,
		TransactionDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		ApprovalStatus:  entity.StatusApproved,
	}
	qty := out.Quantity
	inMeta.QuantityHint = &qty

	in := &entity.StockRecord{
		Direction:   entity.DirectionIn,
		Quantity:    out.Quantity,
		CreatedAt:   now,
		EncodedMeta: ledger.EncodeMeta(&inMeta),
	}
	return records.Create(ctx, in)
}
