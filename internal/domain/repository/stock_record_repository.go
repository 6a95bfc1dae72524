package repository

import (
	"context"
	"time"

	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
)

// RecordFilter acota List sobre las columnas propias del almacén
// (los atributos empaquetados en encoded_meta se filtran en memoria).
type RecordFilter struct {
	Direction string
	From      *time.Time // sobre created_at
	To        *time.Time
}

// StockRecordRepository define el puerto hacia el almacén genérico de
// registros. El ledger es append-only: Create añade, UpdateMeta solo
// reescribe encoded_meta (campos de aprobación) y no existe Delete.
type StockRecordRepository interface {
	List(ctx context.Context, filter RecordFilter) ([]*entity.StockRecord, error)
	GetByID(ctx context.Context, id string) (*entity.StockRecord, error)
	// GetForUpdate bloquea el registro dentro de la transacción actual
	// para que dos aprobaciones concurrentes no se pisen.
	GetForUpdate(ctx context.Context, id string) (*entity.StockRecord, error)
	Create(ctx context.Context, record *entity.StockRecord) error
	UpdateMeta(ctx context.Context, id, encodedMeta string) error
}
