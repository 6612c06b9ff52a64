package picking

import (
	"context"

	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// TxRunner ejecuta el flujo de picking dentro de una transacción de BD:
// la lista, sus líneas, las reservas/consumos de stock y las transacciones
// del log se comprometen como una sola unidad atómica.
type TxRunner interface {
	RunPicking(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		serialRepo repository.SerialRepository,
		pickRepo repository.PickListRepository,
		bomRepo repository.BOMRepository,
	) error) error
}
