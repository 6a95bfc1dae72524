package dto

import (
	"time"

	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProposeMovementRequest body para POST /api/stock/movements.
// transaction_date en formato YYYY-MM-DD; vacío = hoy.
type ProposeMovementRequest struct {
	Direction       string           `json:"direction"`
	Quantity        int64            `json:"quantity"`
	Category        string           `json:"category"`
	ItemName        string           `json:"item_name"`
	SerialNumber    string           `json:"serial_number,omitempty"`
	Location        string           `json:"location"`
	Vendor          string           `json:"vendor,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Note            string           `json:"note,omitempty"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost       *decimal.Decimal `json:"total_cost,omitempty"`
	TransactionDate string           `json:"transaction_date,omitempty"`
	ReasonType      string           `json:"reason_type,omitempty"`
	FromLocation    string           `json:"from_location,omitempty"`
	ToLocation      string           `json:"to_location,omitempty"`
	ScrapVendor     string           `json:"scrap_vendor,omitempty"`
}

// MovementResponse un movimiento decodificado del ledger.
type MovementResponse struct {
	ID              string           `json:"id"`
	Direction       string           `json:"direction"`
	Quantity        int64            `json:"quantity"`
	CreatedAt       time.Time        `json:"created_at"`
	Category        string           `json:"category"`
	ItemName        string           `json:"item_name"`
	SerialNumber    string           `json:"serial_number,omitempty"`
	Location        string           `json:"location"`
	Vendor          string           `json:"vendor,omitempty"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Note            string           `json:"note,omitempty"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	TotalCost       *decimal.Decimal `json:"total_cost,omitempty"`
	TransactionDate string           `json:"transaction_date,omitempty"`
	ReasonType      string           `json:"reason_type,omitempty"`
	FromLocation    string           `json:"from_location,omitempty"`
	ToLocation      string           `json:"to_location,omitempty"`
	ScrapVendor     string           `json:"scrap_vendor,omitempty"`
	ApprovalStatus  string           `json:"approval_status"`
	ApprovedBy      string           `json:"approved_by,omitempty"`
	ApprovedDate    *time.Time       `json:"approved_date,omitempty"`
	CreatedBy       string           `json:"created_by,omitempty"`
}

// NewMovementResponse mapea la entidad al DTO.
func NewMovementResponse(m *entity.StockMovement) MovementResponse {
	status := m.Meta.ApprovalStatus
	if status == "" {
		status = entity.StatusApproved
	}
	var txDate string
	if !m.Meta.TransactionDate.IsZero() {
		txDate = m.Meta.TransactionDate.Format("2006-01-02")
	}
	return MovementResponse{
		ID:              m.ID,
		Direction:       m.Direction,
		Quantity:        m.Quantity,
		CreatedAt:       m.CreatedAt,
		Category:        m.Meta.Category,
		ItemName:        m.Meta.ItemName,
		SerialNumber:    m.Meta.SerialNumber,
		Location:        m.Meta.Location,
		Vendor:          m.Meta.Vendor,
		ReferenceNumber: m.Meta.ReferenceNumber,
		Note:            m.Meta.Note,
		UnitCost:        m.Meta.UnitCost,
		TotalCost:       m.Meta.TotalCost,
		TransactionDate: txDate,
		ReasonType:      m.Meta.ReasonType,
		FromLocation:    m.Meta.FromLocation,
		ToLocation:      m.Meta.ToLocation,
		ScrapVendor:     m.Meta.ScrapVendor,
		ApprovalStatus:  status,
		ApprovedBy:      m.Meta.ApprovedBy,
		ApprovedDate:    m.Meta.ApprovedDate,
		CreatedBy:       m.Meta.CreatedBy,
	}
}

// SummaryResponse una línea del inventario derivado.
type SummaryResponse struct {
	Category     string          `json:"category"`
	ItemName     string          `json:"item_name"`
	Location     string          `json:"location"`
	SerialNumber string          `json:"serial_number,omitempty"`
	Qty          int64           `json:"qty"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// NewSummaryResponse mapea la fila derivada al DTO.
func NewSummaryResponse(s entity.InventorySummary) SummaryResponse {
	return SummaryResponse{
		Category:     s.Category,
		ItemName:     s.ItemName,
		Location:     s.Location,
		SerialNumber: s.SerialNumber,
		Qty:          s.Qty,
		UnitCost:     s.UnitCost,
		TotalValue:   s.TotalValue,
	}
}

// BalanceResponse saldo de apertura/cierre de una sede.
type BalanceResponse struct {
	Location   string `json:"location"`
	OpeningQty int64  `json:"opening_qty"`
	ClosingQty int64  `json:"closing_qty"`
}
