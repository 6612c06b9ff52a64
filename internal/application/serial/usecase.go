package serial

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// RegistryUseCase registro de unidades con número de serie.
// Capa sobre el ledger para SKUs con seguimiento individual: el stock
// agregado vive en StockRecord, aquí vive la identidad de cada pieza.
type RegistryUseCase struct {
	serialRepo repository.SerialRepository
	itemRepo   repository.ItemRepository
}

// NewRegistryUseCase construye el caso de uso.
func NewRegistryUseCase(serialRepo repository.SerialRepository, itemRepo repository.ItemRepository) *RegistryUseCase {
	return &RegistryUseCase{serialRepo: serialRepo, itemRepo: itemRepo}
}

// RegisterUnit da de alta una unidad. Falla con ErrDuplicateSerial si la
// serie ya existe para cualquier ítem.
func (uc *RegistryUseCase) RegisterUnit(serial, itemID, location string, cost decimal.Decimal) (*dto.SerialResponse, error) {
	if serial == "" || itemID == "" || location == "" || cost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil || item == nil {
		return nil, domain.ErrNotFound
	}
	if !item.TrackIndividually {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	unit := &entity.SerialUnit{
		Serial:    serial,
		ItemID:    itemID,
		Location:  location,
		Status:    entity.SerialInStock,
		Cost:      cost,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.serialRepo.Create(unit); err != nil {
		return nil, err
	}
	return toSerialResponse(unit), nil
}

// Transition mueve la unidad al estado nuevo si la tabla de transiciones lo
// permite; falla con ErrInvalidTransition en caso contrario.
// Reservar liga la orden; volver a in_stock (liberación) limpia el vínculo.
func (uc *RegistryUseCase) Transition(serial, newStatus, orderID string) (*dto.SerialResponse, error) {
	if !entity.ValidSerialStatus(newStatus) {
		return nil, domain.ErrInvalidInput
	}
	unit, err := uc.serialRepo.Get(serial)
	if err != nil || unit == nil {
		return nil, domain.ErrNotFound
	}
	if !unit.CanTransition(newStatus) {
		return nil, domain.ErrInvalidTransition
	}
	switch newStatus {
	case entity.SerialReserved:
		if orderID == "" {
			return nil, domain.ErrInvalidInput
		}
		unit.OrderID = orderID
	case entity.SerialInStock:
		// Liberación: limpiar el vínculo con la orden.
		unit.OrderID = ""
	}
	unit.Status = newStatus
	unit.UpdatedAt = time.Now()
	if err := uc.serialRepo.Update(unit); err != nil {
		return nil, err
	}
	return toSerialResponse(unit), nil
}

// Get obtiene una unidad por su serie.
func (uc *RegistryUseCase) Get(serial string) (*dto.SerialResponse, error) {
	unit, err := uc.serialRepo.Get(serial)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, nil
	}
	return toSerialResponse(unit), nil
}

// ListByItem lista las unidades de un ítem.
func (uc *RegistryUseCase) ListByItem(itemID string, page dto.PageRequest) ([]*dto.SerialResponse, error) {
	page.DefaultPage()
	units, err := uc.serialRepo.ListByItem(itemID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SerialResponse, 0, len(units))
	for _, u := range units {
		out = append(out, toSerialResponse(u))
	}
	return out, nil
}

func toSerialResponse(unit *entity.SerialUnit) *dto.SerialResponse {
	return &dto.SerialResponse{
		Serial:    unit.Serial,
		ItemID:    unit.ItemID,
		Location:  unit.Location,
		Status:    unit.Status,
		OrderID:   unit.OrderID,
		Cost:      unit.Cost,
		UpdatedAt: unit.UpdatedAt,
	}
}
