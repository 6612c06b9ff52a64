package ledger

import (
	"context"

	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// CurrentStock devuelve el StockRecord de un (ítem, ubicación), pasando por
// el caché de lectura cuando está habilitado.
func (uc *LedgerUseCase) CurrentStock(ctx context.Context, itemID, location string) (*entity.StockRecord, error) {
	if itemID == "" || location == "" {
		return nil, domain.ErrInvalidInput
	}
	if uc.cache != nil {
		if rec, ok := uc.cache.Get(ctx, itemID, location); ok {
			return rec, nil
		}
	}
	rec, err := uc.stockRepo.Get(itemID, location)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, rec)
	}
	return rec, nil
}

// CurrentStockByItem devuelve todos los StockRecord del ítem (una fila por ubicación).
func (uc *LedgerUseCase) CurrentStockByItem(ctx context.Context, itemID string) ([]*entity.StockRecord, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.ListByItem(itemID)
}

// TransactionsForItem devuelve el log del ítem en orden de secuencia.
func (uc *LedgerUseCase) TransactionsForItem(ctx context.Context, itemID string, limit, offset int) ([]*entity.Transaction, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.txRepo.ListByItem(itemID, limit, offset)
}

// TransactionsForPickList devuelve las transacciones ligadas a una lista de picking.
func (uc *LedgerUseCase) TransactionsForPickList(ctx context.Context, pickListID string) ([]*entity.Transaction, error) {
	if pickListID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.txRepo.ListByPickList(pickListID)
}

// TransactionsForOrder devuelve las transacciones ligadas a una orden.
func (uc *LedgerUseCase) TransactionsForOrder(ctx context.Context, orderID string) ([]*entity.Transaction, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.txRepo.ListByOrder(orderID)
}
