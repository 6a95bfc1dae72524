package ledger_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mov construye un movimiento del ledger para los tests de plegado.
type movSpec struct {
	direction string
	qty       int64
	location  string
	item      string
	status    string
	unitCost  string // "" = sin costo
	txDate    string // YYYY-MM-DD; "" = 2024-06-15
	createdAt time.Time
}

func buildMovements(specs []movSpec) []*entity.StockMovement {
	movements := make([]*entity.StockMovement, 0, len(specs))
	for i, s := range specs {
		if s.location == "" {
			s.location = "Main Office"
		}
		if s.item == "" {
			s.item = "Latitude 7420"
		}
		if s.txDate == "" {
			s.txDate = "2024-06-15"
		}
		if s.createdAt.IsZero() {
			s.createdAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute)
		}
		txDate, err := time.Parse("2006-01-02", s.txDate)
		if err != nil {
			panic(err)
		}
		meta := entity.StockMovementMeta{
			Category:        "Laptop",
			ItemName:        s.item,
			Location:        s.location,
			TransactionDate: txDate,
			ApprovalStatus:  s.status,
		}
		if s.unitCost != "" {
			meta.UnitCost = dec(s.unitCost)
		}
		if s.direction == entity.DirectionOut {
			meta.ReasonType = entity.ReasonIssue
		}
		movements = append(movements, &entity.StockMovement{
			ID:        fmt.Sprintf("mov-%03d", i),
			Direction: s.direction,
			Quantity:  s.qty,
			CreatedAt: s.createdAt,
			Meta:      meta,
		})
	}
	return movements
}

func TestSummarize_SumaFirmadaPorLinea(t *testing.T) {
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 10, unitCost: "50000", status: entity.StatusApproved},
		{direction: "out", qty: 3, status: entity.StatusApproved},
	})

	summaries := ledger.Summarize(movements, ledger.Filter{})
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 7, summaries[0].Qty)
	assert.True(t, summaries[0].UnitCost.Equal(decimal.RequireFromString("50000")))
	assert.True(t, summaries[0].TotalValue.Equal(decimal.RequireFromString("350000")))
}

func TestSummarize_PendienteYRechazadoNoCuentan(t *testing.T) {
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 10, unitCost: "50000", status: entity.StatusApproved},
		{direction: "out", qty: 4, status: entity.StatusPending},
		{direction: "out", qty: 9, status: entity.StatusRejected},
	})

	summaries := ledger.Summarize(movements, ledger.Filter{})
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 10, summaries[0].Qty)
}

func TestSummarize_EstadoAusenteCuentaComoAprobado(t *testing.T) {
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 6, status: ""}, // registro previo al gate
	})
	summaries := ledger.Summarize(movements, ledger.Filter{})
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 6, summaries[0].Qty)
}

func TestSummarize_LineaSinStockDesaparece(t *testing.T) {
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 5, status: entity.StatusApproved},
		{direction: "out", qty: 5, status: entity.StatusApproved},
	})
	assert.Empty(t, ledger.Summarize(movements, ledger.Filter{}))
}

func TestSummarize_NuncaEmiteCantidadNegativa(t *testing.T) {
	// Un ledger histórico puede tener más salidas que entradas (carreras
	// previas al guard); la fila se descarta, no se muestra en negativo.
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 2, status: entity.StatusApproved},
		{direction: "out", qty: 5, status: ""},
	})
	for _, s := range ledger.Summarize(movements, ledger.Filter{}) {
		assert.Greater(t, s.Qty, int64(0))
	}
	assert.Empty(t, ledger.Summarize(movements, ledger.Filter{}))
}

func TestSummarize_CostoDeUltimaEntradaConCosto(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 5, unitCost: "100", status: entity.StatusApproved, createdAt: base},
		{direction: "in", qty: 5, unitCost: "120", status: entity.StatusApproved, createdAt: base.AddDate(0, 0, 2)},
		// entrada posterior sin costo: no actualiza el costo unitario
		{direction: "in", qty: 2, status: entity.StatusApproved, createdAt: base.AddDate(0, 0, 5)},
	})

	summaries := ledger.Summarize(movements, ledger.Filter{})
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 12, summaries[0].Qty)
	assert.True(t, summaries[0].UnitCost.Equal(decimal.RequireFromString("120")))
}

func TestSummarize_ClaveCaseInsensitive(t *testing.T) {
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 4, item: "Latitude 7420", status: entity.StatusApproved},
		{direction: "in", qty: 3, item: "LATITUDE 7420", status: entity.StatusApproved},
	})
	summaries := ledger.Summarize(movements, ledger.Filter{})
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 7, summaries[0].Qty)
}

func TestMonthlyBalances_AperturaYCierre(t *testing.T) {
	movements := buildMovements([]movSpec{
		// apertura: 10 antes del período
		{direction: "in", qty: 10, txDate: "2024-05-20", status: entity.StatusApproved},
		// dentro del período: +5, -3
		{direction: "in", qty: 5, txDate: "2024-06-10", status: entity.StatusApproved},
		{direction: "out", qty: 3, txDate: "2024-06-12", status: entity.StatusApproved},
		// después del período: no cuenta
		{direction: "out", qty: 4, txDate: "2024-07-01", status: entity.StatusApproved},
	})

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
	balances := ledger.MonthlyBalances(movements, start, end, ledger.Filter{})

	require.Len(t, balances, 1)
	assert.Equal(t, "Main Office", balances[0].Location)
	assert.EqualValues(t, 10, balances[0].OpeningQty)
	assert.EqualValues(t, 12, balances[0].ClosingQty)
}

func TestMonthlyBalances_FiltroDeFechasNoRecortaApertura(t *testing.T) {
	// La apertura suma todo lo anterior al período aunque el caller pase
	// un filtro de fechas: la ventana la definen los parámetros del período.
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 10, txDate: "2024-05-20", status: entity.StatusApproved},
		{direction: "in", qty: 5, txDate: "2024-06-10", status: entity.StatusApproved},
		{direction: "out", qty: 3, txDate: "2024-06-12", status: entity.StatusApproved},
	})

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
	balances := ledger.MonthlyBalances(movements, start, end, ledger.Filter{From: &start, To: &end})

	require.Len(t, balances, 1)
	assert.EqualValues(t, 10, balances[0].OpeningQty)
	assert.EqualValues(t, 12, balances[0].ClosingQty)
}

func TestMonthlyBalances_FiltroPorSede(t *testing.T) {
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 10, location: "Main Office", txDate: "2024-05-20", status: entity.StatusApproved},
		{direction: "in", qty: 4, location: "Branch Office", txDate: "2024-06-05", status: entity.StatusApproved},
	})
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)

	balances := ledger.MonthlyBalances(movements, start, end, ledger.Filter{Location: "branch office"})
	require.Len(t, balances, 1)
	assert.Equal(t, "Branch Office", balances[0].Location)
	assert.EqualValues(t, 0, balances[0].OpeningQty)
	assert.EqualValues(t, 4, balances[0].ClosingQty)
}

func TestMonthlyBalances_PendienteNoCuenta(t *testing.T) {
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 10, txDate: "2024-06-10", status: entity.StatusApproved},
		{direction: "out", qty: 6, txDate: "2024-06-11", status: entity.StatusPending},
	})
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
	balances := ledger.MonthlyBalances(movements, start, end, ledger.Filter{})
	require.Len(t, balances, 1)
	assert.EqualValues(t, 10, balances[0].ClosingQty)
}

func TestLowStock_Frontera(t *testing.T) {
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 5, item: "A", status: entity.StatusApproved},
		{direction: "in", qty: 3, item: "B", status: entity.StatusApproved},
		{direction: "in", qty: 6, item: "C", status: entity.StatusApproved},
	})
	summaries := ledger.Summarize(movements, ledger.Filter{})

	flagged := ledger.LowStock(summaries, 5)
	require.Len(t, flagged, 2)
	items := []string{flagged[0].ItemName, flagged[1].ItemName}
	assert.ElementsMatch(t, []string{"A", "B"}, items)
}

func TestLowStock_UmbralCeroDesactiva(t *testing.T) {
	movements := buildMovements([]movSpec{
		{direction: "in", qty: 1, status: entity.StatusApproved},
	})
	summaries := ledger.Summarize(movements, ledger.Filter{})
	assert.Empty(t, ledger.LowStock(summaries, 0))
}

func TestDecode_MetaIndescifrableQuedaFuera(t *testing.T) {
	records := []*entity.StockRecord{
		{ID: "r1", Direction: "in", Quantity: 5, EncodedMeta: "v2|ct=Laptop|it=XPS|lc=Main"},
		{ID: "r2", Direction: "out", Quantity: 1, EncodedMeta: "ISSUE:asset=LAP-01"},
	}
	movements := ledger.Decode(records)
	require.Len(t, movements, 1)
	assert.Equal(t, "r1", movements[0].ID)
}
