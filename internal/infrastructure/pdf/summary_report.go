// Package pdf genera el reporte de valorización del inventario actual:
// una tabla con las líneas derivadas del ledger y el valor total.
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
)

var colorGray = &props.Color{Red: 100, Green: 100, Blue: 100}

// SummaryReportGenerator genera el PDF del resumen de inventario usando Maroto v2.
type SummaryReportGenerator struct{}

// NewSummaryReportGenerator construye el generador.
func NewSummaryReportGenerator() *SummaryReportGenerator { return &SummaryReportGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *SummaryReportGenerator) Generate(summaries []entity.InventorySummary) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumen de inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRow(10,
		text.NewCol(8, "Resumen de inventario", props.Text{
			Size: 14, Style: fontstyle.Bold,
		}),
		text.NewCol(4, time.Now().Format("2006-01-02 15:04"), props.Text{
			Size: 9, Align: align.Right, Color: colorGray,
		}),
	)
	m.AddRow(4, line.NewCol(12))

	// Encabezado de la tabla
	m.AddRow(7,
		headerCol(3, "Categoría / Ítem"),
		headerCol(3, "Sede"),
		headerCol(2, "Serie"),
		headerCol(1, "Cant."),
		headerCol(1, "C.Unit"),
		headerCol(2, "Valor"),
	)

	total := decimal.Zero
	for _, s := range summaries {
		total = total.Add(s.TotalValue)
		m.AddRow(6,
			text.NewCol(3, fmt.Sprintf("%s / %s", s.Category, s.ItemName), props.Text{Size: 8}),
			text.NewCol(3, s.Location, props.Text{Size: 8}),
			text.NewCol(2, s.SerialNumber, props.Text{Size: 8}),
			text.NewCol(1, fmt.Sprintf("%d", s.Qty), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(1, s.UnitCost.StringFixed(2), props.Text{Size: 8, Align: align.Right}),
			text.NewCol(2, s.TotalValue.StringFixed(2), props.Text{Size: 8, Align: align.Right}),
		)
	}

	m.AddRow(4, line.NewCol(12))
	m.AddRow(8,
		col.New(8),
		text.NewCol(2, "TOTAL", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, total.StringFixed(2), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generar PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerCol(size int, label string) core.Col {
	return text.NewCol(size, label, props.Text{Size: 8, Style: fontstyle.Bold})
}
