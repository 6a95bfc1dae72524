package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección de un movimiento del ledger de stock.
const (
	DirectionIn  = "in"  // entrada
	DirectionOut = "out" // salida
)

// Motivos de salida (solo aplican a Direction = out).
const (
	ReasonIssue    = "issue"    // entrega a usuario
	ReasonReturn   = "return"   // devolución a proveedor
	ReasonTransfer = "transfer" // traslado entre sedes (requiere aprobación)
	ReasonScrap    = "scrap"    // baja/chatarra (requiere aprobación)
)

// Estados del ciclo de aprobación. La ausencia del campo en registros
// antiguos se decodifica como StatusApproved (compatibilidad previa al gate).
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// StockRecord es el registro crudo tal como vive en el almacén genérico:
// solo direction, quantity y created_at tienen columna propia; el resto de
// los atributos viaja empaquetado en EncodedMeta (ver ledger.EncodeMeta).
type StockRecord struct {
	ID          string
	Direction   string // in, out
	Quantity    int64  // siempre positivo; el signo lo da Direction
	CreatedAt   time.Time
	EncodedMeta string
}

// StockMovementMeta es la vista decodificada de EncodedMeta.
// Category, ItemName y Location son obligatorios (identidad de la línea);
// si faltan, el registro no pertenece al ledger.
type StockMovementMeta struct {
	Category     string
	ItemName     string
	SerialNumber string
	Location     string

	Vendor          string
	ReferenceNumber string
	Note            string

	UnitCost     *decimal.Decimal // significativo en entradas
	TotalCost    *decimal.Decimal
	QuantityHint *int64 // copia informativa de la cantidad dentro del meta

	TransactionDate time.Time // fecha contable; puede diferir de CreatedAt
	CreatedBy       string
	CreatedDate     time.Time

	// Solo salidas
	ReasonType   string
	FromLocation string
	ToLocation   string // transfer
	ScrapVendor  string // scrap

	ApprovalStatus string
	ApprovedBy     string
	ApprovedDate   *time.Time
}

// StockMovement es un registro del ledger ya decodificado.
type StockMovement struct {
	ID        string
	Direction string
	Quantity  int64
	CreatedAt time.Time
	Meta      StockMovementMeta
}

// SignedQuantity devuelve la cantidad con signo (+entrada, -salida).
func (m *StockMovement) SignedQuantity() int64 {
	if m.Direction == DirectionOut {
		return -m.Quantity
	}
	return m.Quantity
}

// IsApproved indica si el movimiento cuenta para el inventario derivado.
// El estado vacío equivale a approved (registros previos al gate).
func (m *StockMovement) IsApproved() bool {
	return m.Meta.ApprovalStatus == StatusApproved || m.Meta.ApprovalStatus == ""
}

// IsPending indica si el movimiento espera aprobación.
func (m *StockMovement) IsPending() bool {
	return m.Meta.ApprovalStatus == StatusPending
}

// RequiresApproval indica si el motivo de salida pasa por el gate de aprobación.
func RequiresApproval(reasonType string) bool {
	return reasonType == ReasonScrap || reasonType == ReasonTransfer
}
