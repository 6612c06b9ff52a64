package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

type stockKey struct {
	itemID   string
	location string
}

// Store guarda todo el estado en mapas protegidos por un RWMutex.
// Pensado para tests y demos: mismo contrato que los adaptadores de
// PostgreSQL, sin dependencias externas.
type Store struct {
	mu sync.RWMutex

	items     map[string]*entity.Item
	itemsSKU  map[string]string // sku -> id
	locations map[string]*entity.Location
	stock     map[stockKey]*entity.StockRecord
	txs       []*entity.Transaction
	seq       int64
	serials   map[string]*entity.SerialUnit
	boms      map[string]*entity.BillOfMaterials
	pickLists map[string]*entity.PickList
	alerts    map[string]*entity.StockAlert
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		items:     make(map[string]*entity.Item),
		itemsSKU:  make(map[string]string),
		locations: make(map[string]*entity.Location),
		stock:     make(map[stockKey]*entity.StockRecord),
		serials:   make(map[string]*entity.SerialUnit),
		boms:      make(map[string]*entity.BillOfMaterials),
		pickLists: make(map[string]*entity.PickList),
		alerts:    make(map[string]*entity.StockAlert),
	}
}

// snapshot copia profunda de todo el estado, para el rollback del TxRunner.
type snapshot struct {
	items     map[string]*entity.Item
	itemsSKU  map[string]string
	locations map[string]*entity.Location
	stock     map[stockKey]*entity.StockRecord
	txs       []*entity.Transaction
	seq       int64
	serials   map[string]*entity.SerialUnit
	boms      map[string]*entity.BillOfMaterials
	pickLists map[string]*entity.PickList
	alerts    map[string]*entity.StockAlert
}

func (s *Store) snapshot() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &snapshot{
		items:     make(map[string]*entity.Item, len(s.items)),
		itemsSKU:  make(map[string]string, len(s.itemsSKU)),
		locations: make(map[string]*entity.Location, len(s.locations)),
		stock:     make(map[stockKey]*entity.StockRecord, len(s.stock)),
		txs:       make([]*entity.Transaction, len(s.txs)),
		seq:       s.seq,
		serials:   make(map[string]*entity.SerialUnit, len(s.serials)),
		boms:      make(map[string]*entity.BillOfMaterials, len(s.boms)),
		pickLists: make(map[string]*entity.PickList, len(s.pickLists)),
		alerts:    make(map[string]*entity.StockAlert, len(s.alerts)),
	}
	for k, v := range s.items {
		snap.items[k] = cloneItem(v)
	}
	for k, v := range s.itemsSKU {
		snap.itemsSKU[k] = v
	}
	for k, v := range s.locations {
		snap.locations[k] = cloneLocation(v)
	}
	for k, v := range s.stock {
		snap.stock[k] = cloneStock(v)
	}
	for i, v := range s.txs {
		snap.txs[i] = cloneTransaction(v)
	}
	for k, v := range s.serials {
		snap.serials[k] = cloneSerial(v)
	}
	for k, v := range s.boms {
		snap.boms[k] = cloneBOM(v)
	}
	for k, v := range s.pickLists {
		snap.pickLists[k] = clonePickList(v)
	}
	for k, v := range s.alerts {
		snap.alerts[k] = cloneAlert(v)
	}
	return snap
}

func (s *Store) restore(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = snap.items
	s.itemsSKU = snap.itemsSKU
	s.locations = snap.locations
	s.stock = snap.stock
	s.txs = snap.txs
	s.seq = snap.seq
	s.serials = snap.serials
	s.boms = snap.boms
	s.pickLists = snap.pickLists
	s.alerts = snap.alerts
}

func cloneItem(v *entity.Item) *entity.Item {
	c := *v
	return &c
}

func cloneLocation(v *entity.Location) *entity.Location {
	c := *v
	return &c
}

func cloneStock(v *entity.StockRecord) *entity.StockRecord {
	c := *v
	return &c
}

func cloneTransaction(v *entity.Transaction) *entity.Transaction {
	c := *v
	return &c
}

func cloneSerial(v *entity.SerialUnit) *entity.SerialUnit {
	c := *v
	return &c
}

func cloneBOM(v *entity.BillOfMaterials) *entity.BillOfMaterials {
	c := *v
	c.Components = make([]entity.BOMComponent, len(v.Components))
	copy(c.Components, v.Components)
	return &c
}

func clonePickList(v *entity.PickList) *entity.PickList {
	c := *v
	c.Items = make([]entity.PickListItem, len(v.Items))
	copy(c.Items, v.Items)
	return &c
}

func cloneAlert(v *entity.StockAlert) *entity.StockAlert {
	c := *v
	if v.AcknowledgedAt != nil {
		t := *v.AcknowledgedAt
		c.AcknowledgedAt = &t
	}
	return &c
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
