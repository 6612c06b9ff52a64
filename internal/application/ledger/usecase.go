package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/inventory"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
	"github.com/jhoicas/Planta-api/pkg/logger"
)

// LedgerUseCase es la autoridad única sobre cantidades de stock.
// Cada operación valida según el tipo de transacción, bloquea la fila del
// StockRecord (SELECT FOR UPDATE), aplica la mutación y agrega la transacción
// al log en la misma unidad atómica (Commit/Rollback vía TxRunner).
type LedgerUseCase struct {
	txRunner     TxRunner
	reconcileRun ReconcileTxRunner
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
	stockRepo    repository.StockRepository
	txRepo       repository.TransactionRepository
	alerts       AlertSink  // opcional
	cache        StockCache // opcional
	log          *logger.Logger
}

// NewLedgerUseCase construye el caso de uso. alerts y cache pueden ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	reconcileRun ReconcileTxRunner,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	stockRepo repository.StockRepository,
	txRepo repository.TransactionRepository,
	alerts AlertSink,
	cache StockCache,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		reconcileRun: reconcileRun,
		itemRepo:     itemRepo,
		locationRepo: locationRepo,
		stockRepo:    stockRepo,
		txRepo:       txRepo,
		alerts:       alerts,
		cache:        cache,
		log:          log,
	}
}

// ReceiveInput entrada para una recepción de mercancía.
// Para ítems con seguimiento individual: Quantity debe ser 1 y Serial obligatorio.
type ReceiveInput struct {
	ItemID     string
	ToLocation string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	Reference  string
	Serial     string
	Actor      string
}

// Receive aumenta el stock en la ubicación destino y recalcula el costo
// promedio ponderado del ítem (único punto donde cambia el costo).
func (uc *LedgerUseCase) Receive(ctx context.Context, input ReceiveInput) (*entity.Transaction, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) || input.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.activeItem(input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := uc.activeLocation(input.ToLocation); err != nil {
		return nil, err
	}
	if item.TrackIndividually && (input.Serial == "" || !input.Quantity.Equal(decimal.NewFromInt(1))) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var created *entity.Transaction
	err = uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		serialRepo repository.SerialRepository,
	) error {
		// Releer el ítem dentro de la tx: el costo promedio debe calcularse
		// sobre el valor comprometido, no sobre la lectura previa.
		item, err := itemRepo.GetByID(input.ItemID)
		if err != nil || item == nil {
			return domain.ErrNotFound
		}
		stock, err := stockRepo.GetForUpdate(input.ItemID, input.ToLocation)
		if err != nil {
			return err
		}
		newCost := inventory.CostCalculator(stock.Quantity, item.AverageCost, input.Quantity, input.UnitCost)
		if err := itemRepo.UpdateCost(item.ID, newCost); err != nil {
			return err
		}
		stock.Quantity = stock.Quantity.Add(input.Quantity)
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		if item.TrackIndividually {
			unit := &entity.SerialUnit{
				Serial:    input.Serial,
				ItemID:    item.ID,
				Location:  input.ToLocation,
				Status:    entity.SerialInStock,
				Cost:      input.UnitCost,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := serialRepo.Create(unit); err != nil {
				return err
			}
		}
		created = &entity.Transaction{
			ID:         uuid.New().String(),
			Type:       entity.TxTypeReceive,
			ItemID:     item.ID,
			Serial:     input.Serial,
			ToLocation: input.ToLocation,
			Quantity:   input.Quantity,
			UnitCost:   input.UnitCost,
			TotalCost:  input.Quantity.Mul(input.UnitCost),
			Reference:  input.Reference,
			CreatedBy:  input.Actor,
			CreatedAt:  now,
		}
		return txRepo.Append(created)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyStock(ctx, item, input.ToLocation)
	return created, nil
}

// TransferInput entrada para un traslado entre ubicaciones.
// Override permite (solo en ítems por lote) mover stock aunque esté reservado.
type TransferInput struct {
	ItemID       string
	FromLocation string
	ToLocation   string
	Quantity     decimal.Decimal
	Override     bool
	Serial       string
	Actor        string
}

// Transfer resta en origen y suma en destino por la misma cantidad.
// Los traslados ordinarios mueven stock en mano no reservado: el tope es el
// disponible, salvo Override en ítems por lote (tope = cantidad en mano).
func (uc *LedgerUseCase) Transfer(ctx context.Context, input TransferInput) (*entity.Transaction, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) || input.FromLocation == input.ToLocation {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.activeItem(input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := uc.activeLocation(input.FromLocation); err != nil {
		return nil, err
	}
	if err := uc.activeLocation(input.ToLocation); err != nil {
		return nil, err
	}
	if item.TrackIndividually && (input.Serial == "" || !input.Quantity.Equal(decimal.NewFromInt(1))) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var created *entity.Transaction
	err = uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		serialRepo repository.SerialRepository,
	) error {
		origin, err := stockRepo.GetForUpdate(input.ItemID, input.FromLocation)
		if err != nil {
			return err
		}
		headroom := origin.Available()
		if input.Override && !item.TrackIndividually {
			headroom = origin.Quantity
		}
		if headroom.LessThan(input.Quantity) {
			return domain.ErrInsufficientStock
		}
		dest, err := stockRepo.GetForUpdate(input.ItemID, input.ToLocation)
		if err != nil {
			return err
		}
		origin.Quantity = origin.Quantity.Sub(input.Quantity)
		dest.Quantity = dest.Quantity.Add(input.Quantity)
		origin.UpdatedAt = now
		dest.UpdatedAt = now
		if err := stockRepo.Upsert(origin); err != nil {
			return err
		}
		if err := stockRepo.Upsert(dest); err != nil {
			return err
		}
		if item.TrackIndividually {
			unit, err := uc.serialForItem(serialRepo, input.Serial, item.ID)
			if err != nil {
				return err
			}
			if unit.Status != entity.SerialInStock {
				return domain.ErrInvalidTransition
			}
			unit.Location = input.ToLocation
			unit.UpdatedAt = now
			if err := serialRepo.Update(unit); err != nil {
				return err
			}
		}
		created = &entity.Transaction{
			ID:           uuid.New().String(),
			Type:         entity.TxTypeTransfer,
			ItemID:       item.ID,
			Serial:       input.Serial,
			FromLocation: input.FromLocation,
			ToLocation:   input.ToLocation,
			Quantity:     input.Quantity,
			UnitCost:     item.AverageCost,
			TotalCost:    input.Quantity.Mul(item.AverageCost),
			CreatedBy:    input.Actor,
			CreatedAt:    now,
		}
		return txRepo.Append(created)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyStock(ctx, item, input.FromLocation, input.ToLocation)
	return created, nil
}

// AdjustInput entrada para un ajuste de gerencia (privilegio verificado por el caller).
type AdjustInput struct {
	ItemID      string
	Location    string
	NewQuantity decimal.Decimal
	Reason      string
	Actor       string
}

// Adjust fija la cantidad en mano al valor indicado y registra el delta
// firmado. No toca Reserved: un ajuste que dejaría Quantity < Reserved se
// rechaza para no romper el invariante.
func (uc *LedgerUseCase) Adjust(ctx context.Context, input AdjustInput) (*entity.Transaction, error) {
	if input.NewQuantity.IsNegative() || input.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.activeItem(input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := uc.activeLocation(input.Location); err != nil {
		return nil, err
	}

	now := time.Now()
	var created *entity.Transaction
	err = uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		_ repository.ItemRepository,
		_ repository.SerialRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(input.ItemID, input.Location)
		if err != nil {
			return err
		}
		if input.NewQuantity.LessThan(stock.Reserved) {
			return domain.ErrInvalidInput
		}
		delta := input.NewQuantity.Sub(stock.Quantity)
		if delta.IsZero() {
			return domain.ErrInvalidInput
		}
		stock.Quantity = input.NewQuantity
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		created = &entity.Transaction{
			ID:         uuid.New().String(),
			Type:       entity.TxTypeAdjust,
			ItemID:     item.ID,
			ToLocation: input.Location,
			Quantity:   delta,
			UnitCost:   item.AverageCost,
			TotalCost:  delta.Mul(item.AverageCost),
			Reference:  input.Reason,
			CreatedBy:  input.Actor,
			CreatedAt:  now,
		}
		return txRepo.Append(created)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyStock(ctx, item, input.Location)
	return created, nil
}

// ReturnInput entrada para una devolución al stock.
type ReturnInput struct {
	ItemID     string
	ToLocation string
	Quantity   decimal.Decimal
	Reference  string
	Actor      string
}

// Return aumenta la cantidad en una ubicación; no afecta Reserved.
func (uc *LedgerUseCase) Return(ctx context.Context, input ReturnInput) (*entity.Transaction, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.activeItem(input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := uc.activeLocation(input.ToLocation); err != nil {
		return nil, err
	}

	now := time.Now()
	var created *entity.Transaction
	err = uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		_ repository.ItemRepository,
		_ repository.SerialRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(input.ItemID, input.ToLocation)
		if err != nil {
			return err
		}
		stock.Quantity = stock.Quantity.Add(input.Quantity)
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		created = &entity.Transaction{
			ID:         uuid.New().String(),
			Type:       entity.TxTypeReturn,
			ItemID:     item.ID,
			ToLocation: input.ToLocation,
			Quantity:   input.Quantity,
			UnitCost:   item.AverageCost,
			TotalCost:  input.Quantity.Mul(item.AverageCost),
			Reference:  input.Reference,
			CreatedBy:  input.Actor,
			CreatedAt:  now,
		}
		return txRepo.Append(created)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyStock(ctx, item, input.ToLocation)
	return created, nil
}

// ScrapInput entrada para una baja por daño o merma.
// En ítems con seguimiento individual: Quantity 1 y Serial obligatorio.
type ScrapInput struct {
	ItemID       string
	FromLocation string
	Quantity     decimal.Decimal
	Serial       string
	Reason       string
	Actor        string
}

// Scrap resta cantidad en una ubicación. El tope es el disponible (dar de
// baja stock reservado rompería Reserved <= Quantity). Para ítems con serie,
// la unidad pasa a scrapped y su costo individual viaja en la transacción.
func (uc *LedgerUseCase) Scrap(ctx context.Context, input ScrapInput) (*entity.Transaction, error) {
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.activeItem(input.ItemID)
	if err != nil {
		return nil, err
	}
	if err := uc.activeLocation(input.FromLocation); err != nil {
		return nil, err
	}
	if item.TrackIndividually && (input.Serial == "" || !input.Quantity.Equal(decimal.NewFromInt(1))) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var created *entity.Transaction
	err = uc.txRunner.Run(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		_ repository.ItemRepository,
		serialRepo repository.SerialRepository,
	) error {
		stock, err := stockRepo.GetForUpdate(input.ItemID, input.FromLocation)
		if err != nil {
			return err
		}
		if stock.Available().LessThan(input.Quantity) {
			return domain.ErrInsufficientStock
		}
		stock.Quantity = stock.Quantity.Sub(input.Quantity)
		stock.UpdatedAt = now
		if err := stockRepo.Upsert(stock); err != nil {
			return err
		}
		unitCost := item.AverageCost
		if item.TrackIndividually {
			unit, err := uc.serialForItem(serialRepo, input.Serial, item.ID)
			if err != nil {
				return err
			}
			if !unit.CanTransition(entity.SerialScrapped) {
				return domain.ErrInvalidTransition
			}
			unit.Status = entity.SerialScrapped
			unit.UpdatedAt = now
			if err := serialRepo.Update(unit); err != nil {
				return err
			}
			unitCost = unit.Cost
		}
		created = &entity.Transaction{
			ID:           uuid.New().String(),
			Type:         entity.TxTypeScrap,
			ItemID:       item.ID,
			Serial:       input.Serial,
			FromLocation: input.FromLocation,
			Quantity:     input.Quantity,
			UnitCost:     unitCost,
			TotalCost:    input.Quantity.Mul(unitCost),
			Reference:    input.Reason,
			CreatedBy:    input.Actor,
			CreatedAt:    now,
		}
		return txRepo.Append(created)
	})
	if err != nil {
		return nil, err
	}
	uc.notifyStock(ctx, item, input.FromLocation)
	return created, nil
}

// Reserve aparta qty completo o falla con ErrInsufficientStock.
// Reservas concurrentes sobre la misma clave compiten por el bloqueo de fila:
// nunca pueden reservar juntas más que el disponible.
func (uc *LedgerUseCase) Reserve(ctx context.Context, itemID, location string, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	item, err := uc.activeItem(itemID)
	if err != nil {
		return err
	}
	err = uc.txRunner.Run(ctx, func(
		_ repository.TransactionRepository,
		stockRepo repository.StockRepository,
		_ repository.ItemRepository,
		_ repository.SerialRepository,
	) error {
		got, err := uc.ReserveAvailableInTx(stockRepo, itemID, location, qty, time.Now())
		if err != nil {
			return err
		}
		if got.LessThan(qty) {
			return domain.ErrInsufficientStock
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.notifyStock(ctx, item, location)
	return nil
}

// Release devuelve qty de la reserva al disponible.
func (uc *LedgerUseCase) Release(ctx context.Context, itemID, location string, qty decimal.Decimal) error {
	if !qty.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	item, err := uc.activeItem(itemID)
	if err != nil {
		return err
	}
	err = uc.txRunner.Run(ctx, func(
		_ repository.TransactionRepository,
		stockRepo repository.StockRepository,
		_ repository.ItemRepository,
		_ repository.SerialRepository,
	) error {
		return uc.ReleaseInTx(stockRepo, itemID, location, qty, time.Now())
	})
	if err != nil {
		return err
	}
	uc.notifyStock(ctx, item, location)
	return nil
}

// ReserveAvailableInTx aparta hasta qty según el disponible y devuelve lo
// efectivamente reservado (puede ser cero). Para uso del orquestador de
// picking dentro de su propia transacción.
func (uc *LedgerUseCase) ReserveAvailableInTx(
	stockRepo repository.StockRepository,
	itemID, location string,
	qty decimal.Decimal,
	now time.Time,
) (decimal.Decimal, error) {
	stock, err := stockRepo.GetForUpdate(itemID, location)
	if err != nil {
		return decimal.Zero, err
	}
	take := stock.Available()
	if take.IsNegative() {
		take = decimal.Zero
	}
	if qty.LessThan(take) {
		take = qty
	}
	if take.IsZero() {
		return decimal.Zero, nil
	}
	stock.Reserved = stock.Reserved.Add(take)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return decimal.Zero, err
	}
	return take, nil
}

// ReleaseInTx devuelve qty de la reserva al disponible dentro de la tx del
// caller. Liberar más de lo reservado es una inconsistencia del ledger y se
// escala en lugar de corregirse en silencio.
func (uc *LedgerUseCase) ReleaseInTx(
	stockRepo repository.StockRepository,
	itemID, location string,
	qty decimal.Decimal,
	now time.Time,
) error {
	stock, err := stockRepo.GetForUpdate(itemID, location)
	if err != nil {
		return err
	}
	if stock.Reserved.LessThan(qty) {
		uc.log.Error().
			Str("item_id", itemID).
			Str("location", location).
			Str("reserved", stock.Reserved.String()).
			Str("release", qty.String()).
			Msg("liberación excede lo reservado: ledger inconsistente")
		return domain.ErrInsufficientReservation
	}
	stock.Reserved = stock.Reserved.Sub(qty)
	stock.UpdatedAt = now
	return stockRepo.Upsert(stock)
}

// PickInTx consume reserva y stock en mano en un solo paso, y agrega la
// transacción pick ligada a la lista y la orden. Un pick que excede lo
// reservado indica inconsistencia del ledger: se aborta con escalamiento,
// nunca se auto-corrige (podría enmascarar pérdida de datos).
func (uc *LedgerUseCase) PickInTx(
	txRepo repository.TransactionRepository,
	stockRepo repository.StockRepository,
	serialRepo repository.SerialRepository,
	item *entity.Item,
	location string,
	qty decimal.Decimal,
	serial, pickListID, orderID, actor string,
	now time.Time,
) (*entity.Transaction, error) {
	stock, err := stockRepo.GetForUpdate(item.ID, location)
	if err != nil {
		return nil, err
	}
	if stock.Reserved.LessThan(qty) || stock.Quantity.LessThan(qty) {
		uc.log.Error().
			Str("item_id", item.ID).
			Str("location", location).
			Str("quantity", stock.Quantity.String()).
			Str("reserved", stock.Reserved.String()).
			Str("pick", qty.String()).
			Str("pick_list_id", pickListID).
			Msg("pick excede lo reservado: ledger inconsistente")
		return nil, domain.ErrInsufficientReservation
	}
	stock.Quantity = stock.Quantity.Sub(qty)
	stock.Reserved = stock.Reserved.Sub(qty)
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return nil, err
	}
	unitCost := item.AverageCost
	if item.TrackIndividually {
		unit, err := uc.serialForItem(serialRepo, serial, item.ID)
		if err != nil {
			return nil, err
		}
		// Una unidad reservada para otra orden no se puede consumir aquí.
		if unit.OrderID != "" && unit.OrderID != orderID {
			return nil, domain.ErrConflict
		}
		if !unit.CanTransition(entity.SerialInUse) {
			return nil, domain.ErrInvalidTransition
		}
		unit.Status = entity.SerialInUse
		unit.OrderID = orderID
		unit.UpdatedAt = now
		if err := serialRepo.Update(unit); err != nil {
			return nil, err
		}
		unitCost = unit.Cost
	}
	tx := &entity.Transaction{
		ID:           uuid.New().String(),
		Type:         entity.TxTypePick,
		ItemID:       item.ID,
		Serial:       serial,
		FromLocation: location,
		Quantity:     qty,
		UnitCost:     unitCost,
		TotalCost:    qty.Mul(unitCost),
		PickListID:   pickListID,
		OrderID:      orderID,
		CreatedBy:    actor,
		CreatedAt:    now,
	}
	if err := txRepo.Append(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// NotifyStock expone la notificación post-mutación para casos de uso que
// mutan stock en sus propias transacciones (picking).
func (uc *LedgerUseCase) NotifyStock(ctx context.Context, item *entity.Item, locations ...string) {
	uc.notifyStock(ctx, item, locations...)
}

// notifyStock invalida el caché de las ubicaciones tocadas y evalúa alertas
// con el disponible agregado del ítem. Corre fuera de la tx: el estado ya
// está comprometido.
func (uc *LedgerUseCase) notifyStock(ctx context.Context, item *entity.Item, locations ...string) {
	if uc.cache != nil {
		for _, loc := range locations {
			uc.cache.Invalidate(ctx, item.ID, loc)
		}
	}
	if uc.alerts == nil {
		return
	}
	records, err := uc.stockRepo.ListByItem(item.ID)
	if err != nil {
		uc.log.Warn().Err(err).Str("item_id", item.ID).Msg("no se pudo leer stock para alertas")
		return
	}
	available := decimal.Zero
	for _, r := range records {
		available = available.Add(r.Available())
	}
	if err := uc.alerts.Evaluate(ctx, item, available); err != nil {
		uc.log.Warn().Err(err).Str("item_id", item.ID).Msg("evaluación de alertas falló")
	}
}

// activeItem valida existencia y estado del ítem.
func (uc *LedgerUseCase) activeItem(itemID string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if !item.Active {
		return nil, domain.ErrConflict
	}
	return item, nil
}

// activeLocation valida existencia y estado de la ubicación.
func (uc *LedgerUseCase) activeLocation(code string) error {
	loc, err := uc.locationRepo.GetByCode(code)
	if err != nil || loc == nil {
		return domain.ErrNotFound
	}
	if !loc.Active {
		return domain.ErrConflict
	}
	return nil
}

// serialForItem obtiene la unidad y verifica que pertenezca al ítem.
func (uc *LedgerUseCase) serialForItem(serialRepo repository.SerialRepository, serial, itemID string) (*entity.SerialUnit, error) {
	if serial == "" {
		return nil, domain.ErrInvalidInput
	}
	unit, err := serialRepo.Get(serial)
	if err != nil || unit == nil {
		return nil, domain.ErrNotFound
	}
	if unit.ItemID != itemID {
		return nil, domain.ErrInvalidInput
	}
	return unit, nil
}
