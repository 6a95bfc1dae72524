package ledger_test

import (
	"testing"
	"time"

	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/entity"
	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// TestEncodeMeta_VectorExacto fija byte a byte el formato v2 del campo
// encoded_meta. Este test es el canario del códec: el formato es el
// contrato de interoperabilidad con los registros ya persistidos, así
// que cualquier cambio en el orden de tokens, las claves o el escaping
// debe hacer fallar el build.
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func i64(n int64) *int64 { return &n }

func TestEncodeMeta_VectorExacto(t *testing.T) {
	meta := &entity.StockMovementMeta{
		Category:        "Laptop",
		ItemName:        "Latitude 7420",
		Location:        "Main Office",
		ReferenceNumber: "PO-991",
		CreatedBy:       "mrodriguez",
		CreatedDate:     time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		UnitCost:        dec("50000"),
		TotalCost:       dec("500000"),
		QuantityHint:    i64(10),
		TransactionDate: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		ApprovalStatus:  entity.StatusApproved,
	}

	const expected = "v2|ct=Laptop|it=Latitude+7420|lc=Main+Office|rf=PO-991" +
		"|cb=mrodriguez|cd=2024-03-05T10%3A30%3A00Z|uc=50000|tc=500000" +
		"|qh=10|td=2024-03-05|as=approved"

	assert.Equal(t, expected, ledger.EncodeMeta(meta))
}

func TestEncodeMeta_SalidaTraslado(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	meta := &entity.StockMovementMeta{
		Category:        "Laptop",
		ItemName:        "Latitude 7420",
		Location:        "Main Office",
		CreatedBy:       "jperez",
		CreatedDate:     now,
		QuantityHint:    i64(2),
		TransactionDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ReasonType:      entity.ReasonTransfer,
		FromLocation:    "Main Office",
		ToLocation:      "Branch Office",
		ApprovalStatus:  entity.StatusPending,
	}

	const expected = "v2|ct=Laptop|it=Latitude+7420|lc=Main+Office|cb=jperez" +
		"|cd=2024-06-01T09%3A00%3A00Z|qh=2|td=2024-06-01|rt=transfer" +
		"|fl=Main+Office|tl=Branch+Office|as=pending"

	assert.Equal(t, expected, ledger.EncodeMeta(meta))
}

func TestDecodeMeta_RoundTrip(t *testing.T) {
	approvedAt := time.Date(2024, 6, 2, 15, 45, 10, 0, time.UTC)
	original := &entity.StockMovementMeta{
		Category:        "Monitor",
		ItemName:        "UltraSharp U2723QE",
		SerialNumber:    "SN-44-0012",
		Location:        "Branch Office",
		Vendor:          "Dell Colombia",
		Note:            "reposición trimestral | lote #7",
		CreatedBy:       "mrodriguez",
		CreatedDate:     time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		UnitCost:        dec("1890000.5"),
		TotalCost:       dec("9452502.5"),
		QuantityHint:    i64(5),
		TransactionDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ReasonType:      entity.ReasonScrap,
		FromLocation:    "Branch Office",
		ScrapVendor:     "EcoRecycle SAS",
		ApprovalStatus:  entity.StatusApproved,
		ApprovedBy:      "admin",
		ApprovedDate:    &approvedAt,
	}

	decoded := ledger.DecodeMeta(ledger.EncodeMeta(original))
	require.NotNil(t, decoded)
	assert.Equal(t, original, decoded)
}

func TestDecodeMeta_EstadoAusenteEsAprobado(t *testing.T) {
	// Registros anteriores al gate de aprobación no traen el token "as":
	// deben decodificar con el estado nombrado, nunca con vacío.
	decoded := ledger.DecodeMeta("v2|ct=Laptop|it=XPS%2013|lc=Main+Office|qh=3")
	require.NotNil(t, decoded)
	assert.Equal(t, entity.StatusApproved, decoded.ApprovalStatus)
	assert.Equal(t, "XPS 13", decoded.ItemName)
	require.NotNil(t, decoded.QuantityHint)
	assert.EqualValues(t, 3, *decoded.QuantityHint)
}

func TestDecodeMeta_NumericoMalformadoNoFalla(t *testing.T) {
	decoded := ledger.DecodeMeta("v2|ct=Laptop|it=XPS|lc=Main|uc=abc|tc=|qh=3.5")
	require.NotNil(t, decoded)
	assert.Nil(t, decoded.UnitCost)
	assert.Nil(t, decoded.TotalCost)
	assert.Nil(t, decoded.QuantityHint)
}

func TestDecodeMeta_FormatoHeredado(t *testing.T) {
	encoded := `META:{"schema":"stock-meta","category":"Monitor","itemName":"P2422H",` +
		`"location":"Main Office","unitCost":"1200.50","quantity":4,` +
		`"transactionDate":"2023-11-20","createdBy":"legacy-import"}`

	decoded := ledger.DecodeMeta(encoded)
	require.NotNil(t, decoded)
	assert.Equal(t, "Monitor", decoded.Category)
	assert.Equal(t, "P2422H", decoded.ItemName)
	assert.Equal(t, entity.StatusApproved, decoded.ApprovalStatus)
	require.NotNil(t, decoded.UnitCost)
	assert.True(t, decoded.UnitCost.Equal(decimal.RequireFromString("1200.50")))
	require.NotNil(t, decoded.QuantityHint)
	assert.EqualValues(t, 4, *decoded.QuantityHint)
	assert.Equal(t, time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC), decoded.TransactionDate)
}

func TestDecodeMeta_NoEsRegistroDelLedger(t *testing.T) {
	cases := map[string]string{
		"vacío":                         "",
		"registro de entrega de activo": "ISSUE:asset=LAP-0042;user=jperez",
		"versión desconocida":           "v9|ct=Laptop|it=XPS|lc=Main",
		"v2 sin identidad":              "v2|ct=Laptop|uc=100",
		"legacy con schema ajeno":       `META:{"schema":"asset-request","category":"Laptop","itemName":"XPS","location":"Main"}`,
		"legacy JSON roto":              `META:{"schema":"stock-meta",`,
		"legacy sin identidad":          `META:{"schema":"stock-meta","category":"Laptop"}`,
	}
	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, ledger.DecodeMeta(encoded))
		})
	}
}
