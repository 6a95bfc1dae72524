package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/repository"
)

// Querier abstrae pool o transacción (pgxpool.Pool y pgx.Tx lo cumplen).
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación del almacén de registros sobre
// PostgreSQL (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const recordColumns = "id, direction, quantity, created_at, encoded_meta"

// List devuelve los registros en orden del log (created_at, id).
func (r *StockRecordRepo) List(ctx context.Context, filter repository.RecordFilter) ([]*entity.StockRecord, error) {
	query := "SELECT " + recordColumns + " FROM stock_records WHERE 1=1"
	args := []any{}
	pos := 1
	if filter.Direction != "" {
		query += fmt.Sprintf(" AND direction = $%d", pos)
		args = append(args, filter.Direction)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += " ORDER BY created_at, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock records: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockRecord
	for rows.Next() {
		var rec entity.StockRecord
		if err := rows.Scan(&rec.ID, &rec.Direction, &rec.Quantity, &rec.CreatedAt, &rec.EncodedMeta); err != nil {
			return nil, fmt.Errorf("scan stock record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// GetByID obtiene un registro por ID (nil si no existe).
func (r *StockRecordRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate obtiene el registro bloqueando la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *StockRecordRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockRecord, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *StockRecordRepo) get(ctx context.Context, id, suffix string) (*entity.StockRecord, error) {
	query := "SELECT " + recordColumns + " FROM stock_records WHERE id = $1" + suffix
	var rec entity.StockRecord
	err := r.q.QueryRow(ctx, query, id).Scan(&rec.ID, &rec.Direction, &rec.Quantity, &rec.CreatedAt, &rec.EncodedMeta)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock record: %w", err)
	}
	return &rec, nil
}

// Create añade un registro al log. El ID lo asigna el almacén.
func (r *StockRecordRepo) Create(ctx context.Context, record *entity.StockRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_records (id, direction, quantity, created_at, encoded_meta)
		VALUES ($1, $2, $3, $4, $5)`,
		record.ID, record.Direction, record.Quantity, record.CreatedAt, record.EncodedMeta,
	)
	if err != nil {
		return fmt.Errorf("create stock record: %w", err)
	}
	return nil
}

// UpdateMeta reescribe encoded_meta (la única mutación permitida: los
// campos de aprobación viven dentro del meta).
func (r *StockRecordRepo) UpdateMeta(ctx context.Context, id, encodedMeta string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_records SET encoded_meta = $2 WHERE id = $1`,
		id, encodedMeta,
	)
	if err != nil {
		return fmt.Errorf("update stock record meta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock record meta: id %s no existe", id)
	}
	return nil
}
