package picking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/application/bom"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/application/ledger"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
	"github.com/jhoicas/Planta-api/pkg/logger"
)

// Orchestrator conduce una lista de picking desde su generación (BOM + orden
// → reservas) por el flujo de escaneo-y-verificación hasta su consumo en el
// log, con manejo de faltantes parciales (short picks).
// Máquina de estados: pending → in_progress → completed;
// pending|in_progress → cancelled. Ningún camino de salida deja reservas
// colgadas: o se consumen con picks o se liberan.
type Orchestrator struct {
	runner   TxRunner
	ledger   *ledger.LedgerUseCase
	bomUC    *bom.EngineUseCase
	pickRepo repository.PickListRepository
	log      *logger.Logger
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(
	runner TxRunner,
	ledgerUC *ledger.LedgerUseCase,
	bomUC *bom.EngineUseCase,
	pickRepo repository.PickListRepository,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		runner:   runner,
		ledger:   ledgerUC,
		bomUC:    bomUC,
		pickRepo: pickRepo,
		log:      log,
	}
}

// Generate despliega la BOM para la cantidad de la orden, reserva por línea
// lo que el disponible permita y persiste la lista en pending. Una línea con
// reserva parcial queda short de inmediato, visible al personal antes de
// pickear nada: el faltante se señala temprano, no a mitad de picking.
// Dos listas compitiendo por un ítem escaso corren en la reserva; la que
// pierde observa un short, que es un resultado normal, no un error.
func (o *Orchestrator) Generate(ctx context.Context, in dto.GeneratePickListRequest, actor string) (*dto.PickListResponse, error) {
	if in.OrderID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	var bomSnapshot *entity.BillOfMaterials
	var err error
	if in.BOMID != "" {
		bomSnapshot, err = o.bomUC.GetByID(in.BOMID)
	} else {
		bomSnapshot, err = o.bomUC.Resolve(in.ProductType, in.Variant)
	}
	if err != nil {
		return nil, err
	}
	reqs, err := o.bomUC.Expand(bomSnapshot, in.Quantity)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	list := &entity.PickList{
		ID:        uuid.New().String(),
		OrderID:   in.OrderID,
		BOMID:     bomSnapshot.ID,
		OrderQty:  in.Quantity,
		Status:    entity.PickListPending,
		CreatedBy: actor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	touched := map[string]*entity.Item{}
	err = o.runner.RunPicking(ctx, func(
		_ repository.TransactionRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		_ repository.SerialRepository,
		pickRepo repository.PickListRepository,
		_ repository.BOMRepository,
	) error {
		for _, req := range reqs {
			item, err := itemRepo.GetByID(req.ItemID)
			if err != nil || item == nil {
				return domain.ErrNotFound
			}
			location := item.DefaultLocation
			if override, ok := in.LocationOverrides[item.ID]; ok && override != "" {
				location = override
			}
			if location == "" {
				return domain.ErrInvalidInput
			}
			got, err := o.ledger.ReserveAvailableInTx(stockRepo, item.ID, location, req.RequiredQty, now)
			if err != nil {
				return err
			}
			line := entity.PickListItem{
				ID:          uuid.New().String(),
				PickListID:  list.ID,
				ItemID:      item.ID,
				Location:    location,
				RequiredQty: req.RequiredQty,
				ReservedQty: got,
				PickedQty:   decimal.Zero,
				Optional:    req.Optional,
				Status:      entity.PickItemPending,
			}
			if got.LessThan(req.RequiredQty) {
				line.QuantityShort = req.RequiredQty.Sub(got)
				line.Status = entity.PickItemShort
			} else {
				line.QuantityShort = decimal.Zero
			}
			list.Items = append(list.Items, line)
			touched[item.ID] = item
		}
		return pickRepo.Create(list)
	})
	if err != nil {
		return nil, err
	}
	o.notifyLines(ctx, touched, list)
	o.log.Info().
		Str("pick_list_id", list.ID).
		Str("order_id", list.OrderID).
		Int("lines", len(list.Items)).
		Msg("lista de picking generada")
	return toPickListResponse(list), nil
}

// Scan es el paso de verificación: resuelve el código escaneado a un ítem
// (y serie, si aplica), valida contra las líneas abiertas y consume reserva
// y stock en mano en un solo paso, registrando el pick en el log.
// No exige orden estricto entre ítems: cualquier línea abierta es escaneable.
func (o *Orchestrator) Scan(ctx context.Context, pickListID string, in dto.ScanRequest, actor string) (*dto.PickListItemResponse, error) {
	if pickListID == "" || in.Barcode == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var scanned *entity.PickListItem
	var scannedItem *entity.Item
	err := o.runner.RunPicking(ctx, func(
		txRepo repository.TransactionRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		serialRepo repository.SerialRepository,
		pickRepo repository.PickListRepository,
		_ repository.BOMRepository,
	) error {
		list, err := pickRepo.GetForUpdate(pickListID)
		if err != nil || list == nil {
			return domain.ErrNotFound
		}
		if list.Terminal() {
			return domain.ErrInvalidState
		}

		// Resolver el código: primero como SKU, luego como número de serie.
		serial := ""
		var unit *entity.SerialUnit
		item, err := itemRepo.GetBySKU(in.Barcode)
		if err != nil {
			return err
		}
		if item == nil {
			unit, err = serialRepo.Get(in.Barcode)
			if err != nil {
				return err
			}
			if unit != nil {
				serial = unit.Serial
				item, err = itemRepo.GetByID(unit.ItemID)
				if err != nil {
					return err
				}
			}
		}
		if item == nil {
			return domain.ErrBarcodeMismatch
		}
		if item.TrackIndividually {
			// El código escaneado debe ser la serie de la unidad, no el SKU.
			if serial == "" || !in.Quantity.Equal(decimal.NewFromInt(1)) {
				return domain.ErrInvalidInput
			}
		}

		var line *entity.PickListItem
		for i := range list.Items {
			it := &list.Items[i]
			if it.ItemID == item.ID && it.Open() && it.RequiredQty.GreaterThan(it.PickedQty) {
				line = it
				break
			}
		}
		if line == nil {
			return domain.ErrBarcodeMismatch
		}
		if unit != nil && unit.Location != line.Location {
			return domain.ErrInvalidInput
		}
		if in.Quantity.GreaterThan(line.OutstandingReservation()) {
			// No se puede pickear por encima de lo reservado; el faltante
			// ya quedó señalado como short al generar.
			return domain.ErrInvalidInput
		}

		if _, err := o.ledger.PickInTx(
			txRepo, stockRepo, serialRepo,
			item, line.Location, in.Quantity,
			serial, list.ID, list.OrderID, actor, now,
		); err != nil {
			return err
		}

		line.PickedQty = line.PickedQty.Add(in.Quantity)
		if line.PickedQty.GreaterThanOrEqual(line.RequiredQty) {
			line.Status = entity.PickItemPicked
		}
		if err := pickRepo.UpdateItem(line); err != nil {
			return err
		}
		if list.Status == entity.PickListPending {
			list.Status = entity.PickListInProgress
			list.UpdatedAt = now
			if err := pickRepo.Update(list); err != nil {
				return err
			}
		}
		lineCopy := *line
		scanned = &lineCopy
		scannedItem = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.ledger.NotifyStock(ctx, scannedItem, scanned.Location)
	return toPickListItemResponse(scanned), nil
}

// Complete cierra la lista. Falla con ErrIncompletePickList mientras haya
// líneas pending (un supervisor puede omitirlas antes con SkipItem). Las
// reservas sobrantes de líneas short se liberan y la BOM queda congelada.
func (o *Orchestrator) Complete(ctx context.Context, pickListID, actor string) (*dto.PickListResponse, error) {
	if pickListID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var completed *entity.PickList
	touched := map[string]*entity.Item{}
	err := o.runner.RunPicking(ctx, func(
		_ repository.TransactionRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		_ repository.SerialRepository,
		pickRepo repository.PickListRepository,
		bomRepo repository.BOMRepository,
	) error {
		list, err := pickRepo.GetForUpdate(pickListID)
		if err != nil || list == nil {
			return domain.ErrNotFound
		}
		if list.Terminal() {
			return domain.ErrInvalidState
		}
		for i := range list.Items {
			if list.Items[i].Status == entity.PickItemPending {
				return domain.ErrIncompletePickList
			}
		}
		// Liberar reservas sobrantes (líneas short parcialmente pickeadas).
		for i := range list.Items {
			line := &list.Items[i]
			out := line.OutstandingReservation()
			if out.IsZero() {
				continue
			}
			if err := o.ledger.ReleaseInTx(stockRepo, line.ItemID, line.Location, out, now); err != nil {
				return err
			}
			line.ReservedQty = line.PickedQty
			if err := pickRepo.UpdateItem(line); err != nil {
				return err
			}
			if item, err := itemRepo.GetByID(line.ItemID); err == nil && item != nil {
				touched[item.ID] = item
			}
		}
		list.Status = entity.PickListCompleted
		list.UpdatedAt = now
		if err := pickRepo.Update(list); err != nil {
			return err
		}
		// La BOM referenciada por un picking completado queda congelada.
		if err := bomRepo.Lock(list.BOMID); err != nil {
			return err
		}
		completed = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.notifyLines(ctx, touched, completed)
	o.log.Info().
		Str("pick_list_id", completed.ID).
		Str("actor", actor).
		Msg("lista de picking completada")
	return toPickListResponse(completed), nil
}

// SkipItem omite una línea abierta (acción de supervisor, auditada) y libera
// su reserva pendiente, dejando la lista apta para Complete.
func (o *Orchestrator) SkipItem(ctx context.Context, pickListID, itemID, actor string) (*dto.PickListItemResponse, error) {
	if pickListID == "" || itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var skipped *entity.PickListItem
	var skippedItem *entity.Item
	err := o.runner.RunPicking(ctx, func(
		_ repository.TransactionRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		_ repository.SerialRepository,
		pickRepo repository.PickListRepository,
		_ repository.BOMRepository,
	) error {
		list, err := pickRepo.GetForUpdate(pickListID)
		if err != nil || list == nil {
			return domain.ErrNotFound
		}
		if list.Terminal() {
			return domain.ErrInvalidState
		}
		var line *entity.PickListItem
		for i := range list.Items {
			it := &list.Items[i]
			if it.ItemID == itemID && it.Open() {
				line = it
				break
			}
		}
		if line == nil {
			return domain.ErrNotFound
		}
		out := line.OutstandingReservation()
		if !out.IsZero() {
			if err := o.ledger.ReleaseInTx(stockRepo, line.ItemID, line.Location, out, now); err != nil {
				return err
			}
		}
		line.Status = entity.PickItemSkipped
		line.SkippedBy = actor
		line.ReservedQty = line.PickedQty
		if err := pickRepo.UpdateItem(line); err != nil {
			return err
		}
		if item, err := itemRepo.GetByID(line.ItemID); err == nil && item != nil {
			skippedItem = item
		}
		lineCopy := *line
		skipped = &lineCopy
		return nil
	})
	if err != nil {
		return nil, err
	}
	if skippedItem != nil {
		o.ledger.NotifyStock(ctx, skippedItem, skipped.Location)
	}
	o.log.Info().
		Str("pick_list_id", pickListID).
		Str("item_id", itemID).
		Str("actor", actor).
		Msg("línea de picking omitida por supervisor")
	return toPickListItemResponse(skipped), nil
}

// Cancel libera todas las reservas pendientes de líneas no pickeadas y deja
// la lista en cancelled. Cancelar una lista ya terminal devuelve
// ErrInvalidState (no éxito silencioso: el caller debe poder detectar una
// doble cancelación).
func (o *Orchestrator) Cancel(ctx context.Context, pickListID, actor string) (*dto.PickListResponse, error) {
	if pickListID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	var cancelled *entity.PickList
	touched := map[string]*entity.Item{}
	err := o.runner.RunPicking(ctx, func(
		_ repository.TransactionRepository,
		stockRepo repository.StockRepository,
		itemRepo repository.ItemRepository,
		_ repository.SerialRepository,
		pickRepo repository.PickListRepository,
		_ repository.BOMRepository,
	) error {
		list, err := pickRepo.GetForUpdate(pickListID)
		if err != nil || list == nil {
			return domain.ErrNotFound
		}
		if list.Terminal() {
			return domain.ErrInvalidState
		}
		for i := range list.Items {
			line := &list.Items[i]
			out := line.OutstandingReservation()
			if out.IsZero() {
				continue
			}
			if err := o.ledger.ReleaseInTx(stockRepo, line.ItemID, line.Location, out, now); err != nil {
				return err
			}
			line.ReservedQty = line.PickedQty
			if err := pickRepo.UpdateItem(line); err != nil {
				return err
			}
			if item, err := itemRepo.GetByID(line.ItemID); err == nil && item != nil {
				touched[item.ID] = item
			}
		}
		list.Status = entity.PickListCancelled
		list.UpdatedAt = now
		if err := pickRepo.Update(list); err != nil {
			return err
		}
		cancelled = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.notifyLines(ctx, touched, cancelled)
	o.log.Info().
		Str("pick_list_id", cancelled.ID).
		Str("actor", actor).
		Msg("lista de picking cancelada")
	return toPickListResponse(cancelled), nil
}

// GetByID obtiene una lista con sus líneas.
func (o *Orchestrator) GetByID(ctx context.Context, pickListID string) (*dto.PickListResponse, error) {
	list, err := o.pickRepo.GetByID(pickListID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, nil
	}
	return toPickListResponse(list), nil
}

// ListByOrder lista las listas de picking de una orden.
func (o *Orchestrator) ListByOrder(ctx context.Context, orderID string) ([]*dto.PickListResponse, error) {
	lists, err := o.pickRepo.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PickListResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, toPickListResponse(l))
	}
	return out, nil
}

// notifyLines dispara caché/alertas para los ítems tocados por la operación.
func (o *Orchestrator) notifyLines(ctx context.Context, touched map[string]*entity.Item, list *entity.PickList) {
	if list == nil {
		return
	}
	for i := range list.Items {
		line := &list.Items[i]
		if item, ok := touched[line.ItemID]; ok {
			o.ledger.NotifyStock(ctx, item, line.Location)
		}
	}
}

func toPickListItemResponse(it *entity.PickListItem) *dto.PickListItemResponse {
	return &dto.PickListItemResponse{
		ID:            it.ID,
		ItemID:        it.ItemID,
		Location:      it.Location,
		RequiredQty:   it.RequiredQty,
		ReservedQty:   it.ReservedQty,
		PickedQty:     it.PickedQty,
		QuantityShort: it.QuantityShort,
		Optional:      it.Optional,
		Status:        it.Status,
	}
}

func toPickListResponse(list *entity.PickList) *dto.PickListResponse {
	items := make([]dto.PickListItemResponse, 0, len(list.Items))
	for i := range list.Items {
		items = append(items, *toPickListItemResponse(&list.Items[i]))
	}
	return &dto.PickListResponse{
		ID:        list.ID,
		OrderID:   list.OrderID,
		BOMID:     list.BOMID,
		OrderQty:  list.OrderQty,
		Status:    list.Status,
		Items:     items,
		CreatedAt: list.CreatedAt,
	}
}
