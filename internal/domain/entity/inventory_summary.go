package entity

import "github.com/shopspring/decimal"

// InventorySummary es una fila derivada del inventario actual: nunca se
// persiste, se recalcula plegando el ledger. Qty nunca es negativa; las
// líneas que llegan a cero o menos simplemente no aparecen.
type InventorySummary struct {
	Key          InventoryKey
	Category     string // valores de presentación (primer movimiento visto)
	ItemName     string
	Location     string
	SerialNumber string
	Qty          int64
	UnitCost     decimal.Decimal // costo de la última entrada con costo
	TotalValue   decimal.Decimal // Qty * UnitCost
}

// LocationBalance es el saldo de apertura/cierre de una sede para un
// período de conciliación.
type LocationBalance struct {
	Location   string
	OpeningQty int64
	ClosingQty int64
}
