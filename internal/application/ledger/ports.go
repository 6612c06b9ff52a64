package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el alta en el log y la
// actualización del StockRecord sean una sola unidad atómica (ambas o ninguna).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		serialRepo repository.SerialRepository,
	) error) error
}

// ReconcileTxRunner ejecuta la reconstrucción del stock desde el log con
// acceso al log, al stock y a las listas de picking abiertas en una sola
// transacción (las reservas abiertas no viven en el log).
type ReconcileTxRunner interface {
	RunReconcile(ctx context.Context, fn func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		pickRepo repository.PickListRepository,
	) error) error
}

// AlertSink recibe el disponible agregado de un ítem tras cada mutación del
// ledger. Implementado por el monitor de alertas; nil desactiva el monitoreo.
type AlertSink interface {
	Evaluate(ctx context.Context, item *entity.Item, available decimal.Decimal) error
}

// StockCache cachea lecturas de stock para el polling del dashboard.
// Nunca es autoritativo: se invalida tras cada mutación y expira por TTL.
type StockCache interface {
	Get(ctx context.Context, itemID, location string) (*entity.StockRecord, bool)
	Set(ctx context.Context, record *entity.StockRecord)
	Invalidate(ctx context.Context, itemID, location string)
}
