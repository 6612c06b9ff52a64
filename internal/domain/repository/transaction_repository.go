package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// TransactionRepository define el puerto del log de transacciones.
// Append-only: no existen Update ni Delete. Append asigna la secuencia
// monotónica (tx.Seq) al persistir.
type TransactionRepository interface {
	Append(tx *entity.Transaction) error
	GetByID(id string) (*entity.Transaction, error)
	ListByItem(itemID string, limit, offset int) ([]*entity.Transaction, error)
	ListByPickList(pickListID string) ([]*entity.Transaction, error)
	ListByOrder(orderID string) ([]*entity.Transaction, error)
	// ListAll devuelve el log completo en orden de secuencia (para replay/auditoría).
	ListAll() ([]*entity.Transaction, error)
}
