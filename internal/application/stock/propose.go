package stock

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/ledger"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Número de franjas de lock para serializar propuestas. La clave se
// reparte por hash; memoria fija sin importar cuántas líneas existan.
const lockStripes = 64

// ProposeMovementUseCase es el guardián de mutación del ledger: valida la
// propuesta contra el inventario derivado actual y, si pasa, añade
// exactamente un registro. Un rechazo no añade nada.
//
// La secuencia leer-verificar-añadir se serializa por InventoryKey con
// locks por franja: dos salidas concurrentes de la misma línea no pueden
// leer ambas el mismo disponible y aceptarse las dos. Claves distintas
// pueden compartir franja; eso solo serializa de más, nunca de menos.
type ProposeMovementUseCase struct {
	records repository.StockRecordRepository

	locks [lockStripes]sync.Mutex
}

// NewProposeMovementUseCase construye el caso de uso.
func NewProposeMovementUseCase(records repository.StockRecordRepository) *ProposeMovementUseCase {
	return &ProposeMovementUseCase{records: records}
}

// ProposeMovementInput entrada para proponer un movimiento. Los campos de
// aprobación de Meta los asigna el guardián; lo que traiga el caller se ignora.
type ProposeMovementInput struct {
	Direction string
	Quantity  int64
	Actor     string // queda como CreatedBy
	Meta      entity.StockMovementMeta
}

// Propose valida y añade el movimiento.
//
//   - in: siempre aceptado, estado approved.
//   - out issue/return: aceptado, estado approved.
//   - out scrap/transfer: aceptado en pending solo si trae el campo
//     acompañante (scrapVendor / toLocation); si no, rechazo de validación.
//   - toda salida exige quantity <= disponible actual de la línea; si no,
//     InsufficientStockError con el disponible.
func (uc *ProposeMovementUseCase) Propose(ctx context.Context, input ProposeMovementInput) (*entity.StockMovement, error) {
	meta := input.Meta
	if err := validateProposal(input.Direction, input.Quantity, &meta); err != nil {
		return nil, err
	}

	now := time.Now()
	meta.CreatedBy = input.Actor
	meta.CreatedDate = now
	if meta.TransactionDate.IsZero() {
		meta.TransactionDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	qty := input.Quantity
	meta.QuantityHint = &qty

	meta.ApprovalStatus = entity.StatusApproved
	if input.Direction == entity.DirectionOut && entity.RequiresApproval(meta.ReasonType) {
		meta.ApprovalStatus = entity.StatusPending
	}
	meta.ApprovedBy = ""
	meta.ApprovedDate = nil

	if input.Direction == entity.DirectionIn && meta.UnitCost != nil && meta.TotalCost == nil {
		total := meta.UnitCost.Mul(decimal.NewFromInt(qty))
		meta.TotalCost = &total
	}

	key := entity.KeyOf(&meta)
	unlock := uc.lockKey(key)
	defer unlock()

	if input.Direction == entity.DirectionOut {
		available, err := uc.availableQty(ctx, key)
		if err != nil {
			return nil, err
		}
		if input.Quantity > available {
			return nil, &domain.InsufficientStockError{Available: available, Requested: input.Quantity}
		}
	}

	record := &entity.StockRecord{
		Direction:   input.Direction,
		Quantity:    input.Quantity,
		CreatedAt:   now,
		EncodedMeta: ledger.EncodeMeta(&meta),
	}
	if err := uc.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("crear movimiento: %w", err)
	}

	return &entity.StockMovement{
		ID:        record.ID,
		Direction: record.Direction,
		Quantity:  record.Quantity,
		CreatedAt: record.CreatedAt,
		Meta:      meta,
	}, nil
}

func validateProposal(direction string, quantity int64, meta *entity.StockMovementMeta) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if meta.Category == "" || meta.ItemName == "" || meta.Location == "" {
		return domain.ErrInvalidInput
	}

	switch direction {
	case entity.DirectionIn:
		return nil
	case entity.DirectionOut:
	default:
		return domain.ErrInvalidInput
	}

	switch meta.ReasonType {
	case entity.ReasonIssue, entity.ReasonReturn:
		return nil
	case entity.ReasonScrap:
		if meta.ScrapVendor == "" {
			return domain.ErrInvalidInput
		}
		return nil
	case entity.ReasonTransfer:
		if meta.ToLocation == "" {
			return domain.ErrInvalidInput
		}
		if entity.FoldLocation(meta.ToLocation) == entity.FoldLocation(meta.Location) {
			return domain.ErrInvalidInput
		}
		if meta.FromLocation == "" {
			meta.FromLocation = meta.Location
		}
		return nil
	default:
		return domain.ErrInvalidInput
	}
}

// availableQty pliega el log aprobado para la línea. Snapshot al momento
// de la propuesta; el lock de la franja evita que otro proponente se
// cuele entre la lectura y el append.
func (uc *ProposeMovementUseCase) availableQty(ctx context.Context, key entity.InventoryKey) (int64, error) {
	records, err := uc.records.List(ctx, repository.RecordFilter{})
	if err != nil {
		return 0, fmt.Errorf("listar ledger: %w", err)
	}
	return ledger.AvailableQty(ledger.Decode(records), key), nil
}

func (uc *ProposeMovementUseCase) lockKey(key entity.InventoryKey) func() {
	h := fnv.New32a()
	for _, part := range []string{key.Category, key.ItemName, key.Location, key.SerialNumber} {
		_, _ = h.Write([]byte(part))
		_, _ = h.Write([]byte{0})
	}
	lock := &uc.locks[h.Sum32()%lockStripes]
	lock.Lock()
	return lock.Unlock
}

// NewReferenceNumber genera un número de referencia corto para entradas
// sintetizadas (traslados).
func NewReferenceNumber(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String()[:8])
}
