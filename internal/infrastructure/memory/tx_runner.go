package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Planta-api/internal/application/ledger"
	"github.com/jhoicas/Planta-api/internal/application/picking"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)
var _ picking.TxRunner = (*TxRunner)(nil)
var _ ledger.ReconcileTxRunner = (*TxRunner)(nil)

// TxRunner emula la atomicidad de una transacción de BD sobre el Store:
// serializa los callbacks con un mutex y, si fn falla, restaura un snapshot
// previo (ambos efectos o ninguno). Solo para tests.
type TxRunner struct {
	store    *Store
	commitMu sync.Mutex
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) run(fn func() error) error {
	r.commitMu.Lock()
	defer r.commitMu.Unlock()

	snap := r.store.snapshot()
	if err := fn(); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// Run ejecuta fn con los repos del ledger como unidad atómica.
func (r *TxRunner) Run(ctx context.Context, fn func(
	txRepo repository.TransactionRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	serialRepo repository.SerialRepository,
) error) error {
	return r.run(func() error {
		return fn(
			NewTransactionRepository(r.store),
			NewStockRepository(r.store),
			NewItemRepository(r.store),
			NewSerialRepository(r.store),
		)
	})
}

// RunPicking ejecuta fn con los repos del flujo de picking como unidad atómica.
func (r *TxRunner) RunPicking(ctx context.Context, fn func(
	txRepo repository.TransactionRepository,
	stockRepo repository.StockRepository,
	itemRepo repository.ItemRepository,
	serialRepo repository.SerialRepository,
	pickRepo repository.PickListRepository,
	bomRepo repository.BOMRepository,
) error) error {
	return r.run(func() error {
		return fn(
			NewTransactionRepository(r.store),
			NewStockRepository(r.store),
			NewItemRepository(r.store),
			NewSerialRepository(r.store),
			NewPickListRepository(r.store),
			NewBOMRepository(r.store),
		)
	})
}

// RunReconcile ejecuta fn con los repos de reconciliación como unidad atómica.
func (r *TxRunner) RunReconcile(ctx context.Context, fn func(
	txRepo repository.TransactionRepository,
	stockRepo repository.StockRepository,
	pickRepo repository.PickListRepository,
) error) error {
	return r.run(func() error {
		return fn(
			NewTransactionRepository(r.store),
			NewStockRepository(r.store),
			NewPickListRepository(r.store),
		)
	})
}
