package entity

import "golang.org/x/text/cases"

// InventoryKey identifica una línea de stock (fungible o serializada).
// Los campos se guardan case-folded: dos movimientos con "Laptop" y
// "laptop" pertenecen a la misma línea.
type InventoryKey struct {
	Category     string
	ItemName     string
	Location     string
	SerialNumber string // vacío para líneas fungibles
}

var keyFolder = cases.Fold()

// KeyOf construye la InventoryKey case-insensitive de un movimiento.
func KeyOf(meta *StockMovementMeta) InventoryKey {
	return NewInventoryKey(meta.Category, meta.ItemName, meta.Location, meta.SerialNumber)
}

// NewInventoryKey normaliza las cuatro componentes de la clave.
func NewInventoryKey(category, itemName, location, serialNumber string) InventoryKey {
	return InventoryKey{
		Category:     keyFolder.String(category),
		ItemName:     keyFolder.String(itemName),
		Location:     keyFolder.String(location),
		SerialNumber: keyFolder.String(serialNumber),
	}
}

// WithLocation devuelve la misma línea vista desde otra sede.
func (k InventoryKey) WithLocation(location string) InventoryKey {
	k.Location = keyFolder.String(location)
	return k
}

// FoldLocation normaliza un nombre de sede igual que la clave.
func FoldLocation(location string) string {
	return keyFolder.String(location)
}
