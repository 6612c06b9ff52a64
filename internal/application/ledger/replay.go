package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// stockKey identifica un StockRecord durante el replay.
type stockKey struct {
	itemID   string
	location string
}

// ReplayTransaction aplica una transacción del log sobre el mapa de
// cantidades en reconstrucción. Es la contraparte de lectura de las reglas
// de aplicación del ledger: reproducir el log desde cero debe devolver
// exactamente las cantidades actuales.
func replayTransaction(quantities map[stockKey]decimal.Decimal, tx *entity.Transaction) {
	add := func(location string, qty decimal.Decimal) {
		if location == "" {
			return
		}
		key := stockKey{itemID: tx.ItemID, location: location}
		quantities[key] = quantities[key].Add(qty)
	}
	switch tx.Type {
	case entity.TxTypeReceive, entity.TxTypeReturn:
		add(tx.ToLocation, tx.Quantity)
	case entity.TxTypeTransfer:
		add(tx.FromLocation, tx.Quantity.Neg())
		add(tx.ToLocation, tx.Quantity)
	case entity.TxTypePick, entity.TxTypeScrap:
		add(tx.FromLocation, tx.Quantity.Neg())
	case entity.TxTypeAdjust:
		// El ajuste se registró como delta firmado sobre la ubicación destino.
		add(tx.ToLocation, tx.Quantity)
	}
}

// RebuildFromLog reconstruye todos los StockRecord reproduciendo el log en
// orden de secuencia. Las reservas no viven en el log: se recomputan desde
// las listas de picking abiertas (reserva pendiente de consumir por línea).
// Devuelve cuántos registros quedaron escritos. Es la operación de auditoría
// para cachés de ledger corruptos.
func (uc *LedgerUseCase) RebuildFromLog(ctx context.Context) (int, error) {
	updated := 0
	err := uc.reconcileRun.RunReconcile(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		pickRepo repository.PickListRepository,
	) error {
		log, err := txRepo.ListAll()
		if err != nil {
			return err
		}
		quantities := make(map[stockKey]decimal.Decimal)
		for _, tx := range log {
			replayTransaction(quantities, tx)
		}

		reserved := make(map[stockKey]decimal.Decimal)
		open, err := pickRepo.ListOpen()
		if err != nil {
			return err
		}
		for _, list := range open {
			for i := range list.Items {
				it := &list.Items[i]
				out := it.OutstandingReservation()
				if out.IsZero() {
					continue
				}
				key := stockKey{itemID: it.ItemID, location: it.Location}
				reserved[key] = reserved[key].Add(out)
			}
		}

		// Incluir claves que hoy existen pero quedaron fuera del replay
		// (p.ej. registros huérfanos): deben quedar en cero.
		existing, err := stockRepo.ListAll()
		if err != nil {
			return err
		}
		for _, rec := range existing {
			key := stockKey{itemID: rec.ItemID, location: rec.Location}
			if _, ok := quantities[key]; !ok {
				quantities[key] = decimal.Zero
			}
		}

		now := time.Now()
		for key, qty := range quantities {
			rec, err := stockRepo.GetForUpdate(key.itemID, key.location)
			if err != nil {
				return err
			}
			rec.Quantity = qty
			rec.Reserved = reserved[key]
			rec.UpdatedAt = now
			if err := stockRepo.Upsert(rec); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int("records", updated).Msg("stock reconstruido desde el log")
	return updated, nil
}
