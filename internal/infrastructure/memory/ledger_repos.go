package memory

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)
var _ repository.TransactionRepository = (*TransactionRepo)(nil)
var _ repository.SerialRepository = (*SerialRepo)(nil)

// StockRepo implementación en memoria de StockRepository.
// El aislamiento por fila lo da el TxRunner (un callback a la vez).
type StockRepo struct {
	store *Store
}

// NewStockRepository construye el adaptador sobre el store.
func NewStockRepository(store *Store) *StockRepo {
	return &StockRepo{store: store}
}

func (r *StockRepo) Get(itemID, location string) (*entity.StockRecord, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.stock[stockKey{itemID, location}]
	if !ok {
		return &entity.StockRecord{
			ItemID:   itemID,
			Location: location,
			Quantity: decimal.Zero,
			Reserved: decimal.Zero,
		}, nil
	}
	return cloneStock(rec), nil
}

// GetForUpdate equivale a Get: el TxRunner serializa los escritores.
func (r *StockRepo) GetForUpdate(itemID, location string) (*entity.StockRecord, error) {
	return r.Get(itemID, location)
}

func (r *StockRepo) Upsert(record *entity.StockRecord) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	key := stockKey{record.ItemID, record.Location}
	next := cloneStock(record)
	if cur, ok := s.stock[key]; ok {
		next.Version = cur.Version + 1
	} else {
		next.Version = 1
	}
	next.UpdatedAt = nowUTC()
	s.stock[key] = next
	return nil
}

func (r *StockRepo) ListByItem(itemID string) ([]*entity.StockRecord, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*entity.StockRecord
	for key, rec := range s.stock {
		if key.itemID == itemID {
			list = append(list, cloneStock(rec))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Location < list[j].Location })
	return list, nil
}

func (r *StockRepo) ListAll() ([]*entity.StockRecord, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*entity.StockRecord, 0, len(s.stock))
	for _, rec := range s.stock {
		list = append(list, cloneStock(rec))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ItemID != list[j].ItemID {
			return list[i].ItemID < list[j].ItemID
		}
		return list[i].Location < list[j].Location
	})
	return list, nil
}

// TransactionRepo implementación en memoria del log append-only.
type TransactionRepo struct {
	store *Store
}

// NewTransactionRepository construye el adaptador sobre el store.
func NewTransactionRepository(store *Store) *TransactionRepo {
	return &TransactionRepo{store: store}
}

// Append asigna la siguiente secuencia y agrega al log.
func (r *TransactionRepo) Append(tx *entity.Transaction) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	tx.Seq = s.seq
	s.txs = append(s.txs, cloneTransaction(tx))
	return nil
}

func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.txs {
		if t.ID == id {
			return cloneTransaction(t), nil
		}
	}
	return nil, nil
}

func (r *TransactionRepo) ListByItem(itemID string, limit, offset int) ([]*entity.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*entity.Transaction
	for i := len(s.txs) - 1; i >= 0; i-- { // seq descendente
		if s.txs[i].ItemID == itemID {
			list = append(list, cloneTransaction(s.txs[i]))
		}
	}
	return paginate(list, limit, offset), nil
}

func (r *TransactionRepo) ListByPickList(pickListID string) ([]*entity.Transaction, error) {
	return r.filter(func(t *entity.Transaction) bool { return t.PickListID == pickListID })
}

func (r *TransactionRepo) ListByOrder(orderID string) ([]*entity.Transaction, error) {
	return r.filter(func(t *entity.Transaction) bool { return t.OrderID == orderID })
}

func (r *TransactionRepo) ListAll() ([]*entity.Transaction, error) {
	return r.filter(func(t *entity.Transaction) bool { return true })
}

func (r *TransactionRepo) filter(keep func(*entity.Transaction) bool) ([]*entity.Transaction, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*entity.Transaction
	for _, t := range s.txs {
		if keep(t) {
			list = append(list, cloneTransaction(t))
		}
	}
	return list, nil
}

// SerialRepo implementación en memoria de SerialRepository.
type SerialRepo struct {
	store *Store
}

// NewSerialRepository construye el adaptador sobre el store.
func NewSerialRepository(store *Store) *SerialRepo {
	return &SerialRepo{store: store}
}

func (r *SerialRepo) Create(unit *entity.SerialUnit) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.serials[unit.Serial]; exists {
		return domain.ErrDuplicateSerial
	}
	s.serials[unit.Serial] = cloneSerial(unit)
	return nil
}

func (r *SerialRepo) Get(serial string) (*entity.SerialUnit, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.serials[serial]
	if !ok {
		return nil, nil
	}
	return cloneSerial(u), nil
}

func (r *SerialRepo) Update(unit *entity.SerialUnit) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.serials[unit.Serial]; !ok {
		return domain.ErrNotFound
	}
	next := cloneSerial(unit)
	next.UpdatedAt = nowUTC()
	s.serials[unit.Serial] = next
	return nil
}

func (r *SerialRepo) ListByItem(itemID string, limit, offset int) ([]*entity.SerialUnit, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*entity.SerialUnit
	for _, u := range s.serials {
		if u.ItemID == itemID {
			list = append(list, cloneSerial(u))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Serial < list[j].Serial })
	return paginate(list, limit, offset), nil
}
