// Package excel genera la exportación tabular del ledger en formato xlsx.
package excel

import (
	"fmt"

	"github.com/rahulAIsingh/smart-asset-backend/internal/application/stock"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Movimientos"

var headers = []string{
	"Dirección", "Fecha", "Categoría", "Ítem", "Serie", "Cantidad",
	"Motivo", "Sede origen", "Sede destino", "Proveedor de baja",
	"Nota", "Estado", "Registrado por",
}

// MovementExporter escribe una hoja xlsx con una fila por movimiento de
// la vista filtrada (solo lectura; no toca el ledger).
type MovementExporter struct{}

// NewMovementExporter construye el exportador.
func NewMovementExporter() *MovementExporter { return &MovementExporter{} }

// Export devuelve los bytes del archivo xlsx.
func (e *MovementExporter) Export(rows []stock.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("crear hoja: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("escribir encabezado: %w", err)
		}
	}

	for i, row := range rows {
		var date string
		if !row.Date.IsZero() {
			date = row.Date.Format("2006-01-02")
		}
		values := []any{
			row.Direction, date, row.Category, row.ItemName, row.SerialNumber,
			row.Quantity, row.ReasonType, row.FromLocation, row.ToLocation,
			row.ScrapVendor, row.Note, row.ApprovalStatus, row.CreatedBy,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("escribir fila %d: %w", i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializar xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
