package stock

import (
	"context"

	"github.com/rahulAIsingh/smart-asset-backend/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacén,
// pasando un repositorio atado a esa transacción. La aprobación de un
// traslado depende de esto: marcar la salida y materializar la entrada
// enlazada deben confirmarse juntas o no confirmarse.
type TxRunner interface {
	Run(ctx context.Context, fn func(records repository.StockRecordRepository) error) error
}
