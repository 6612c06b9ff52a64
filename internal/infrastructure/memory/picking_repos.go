package memory

import (
	"sort"

	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.BOMRepository = (*BOMRepo)(nil)
var _ repository.PickListRepository = (*PickListRepo)(nil)
var _ repository.AlertRepository = (*AlertRepo)(nil)

// BOMRepo implementación en memoria de BOMRepository.
type BOMRepo struct {
	store *Store
}

// NewBOMRepository construye el adaptador sobre el store.
func NewBOMRepository(store *Store) *BOMRepo {
	return &BOMRepo{store: store}
}

func (r *BOMRepo) Create(bom *entity.BillOfMaterials) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.boms[bom.ID]; exists {
		return domain.ErrDuplicate
	}
	s.boms[bom.ID] = cloneBOM(bom)
	return nil
}

func (r *BOMRepo) GetByID(id string) (*entity.BillOfMaterials, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boms[id]
	if !ok {
		return nil, nil
	}
	return cloneBOM(b), nil
}

func (r *BOMRepo) GetDefault(productType, variant string) (*entity.BillOfMaterials, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.boms {
		if b.ProductType == productType && b.Variant == variant && b.IsDefault && b.Active {
			return cloneBOM(b), nil
		}
	}
	return nil, nil
}

func (r *BOMRepo) Update(bom *entity.BillOfMaterials) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boms[bom.ID]; !ok {
		return domain.ErrNotFound
	}
	next := cloneBOM(bom)
	next.UpdatedAt = nowUTC()
	s.boms[bom.ID] = next
	return nil
}

func (r *BOMRepo) Lock(id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boms[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Locked = true
	b.UpdatedAt = nowUTC()
	return nil
}

func (r *BOMRepo) ListByProductType(productType string) ([]*entity.BillOfMaterials, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*entity.BillOfMaterials
	for _, b := range s.boms {
		if b.ProductType == productType {
			list = append(list, cloneBOM(b))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Variant != list[j].Variant {
			return list[i].Variant < list[j].Variant
		}
		return list[i].Version > list[j].Version
	})
	return list, nil
}

// PickListRepo implementación en memoria de PickListRepository.
type PickListRepo struct {
	store *Store
}

// NewPickListRepository construye el adaptador sobre el store.
func NewPickListRepository(store *Store) *PickListRepo {
	return &PickListRepo{store: store}
}

func (r *PickListRepo) Create(list *entity.PickList) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pickLists[list.ID]; exists {
		return domain.ErrDuplicate
	}
	s.pickLists[list.ID] = clonePickList(list)
	return nil
}

func (r *PickListRepo) GetByID(id string) (*entity.PickList, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pickLists[id]
	if !ok {
		return nil, nil
	}
	return clonePickList(p), nil
}

// GetForUpdate equivale a GetByID: el TxRunner serializa los escritores.
func (r *PickListRepo) GetForUpdate(id string) (*entity.PickList, error) {
	return r.GetByID(id)
}

func (r *PickListRepo) Update(list *entity.PickList) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.pickLists[list.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = list.Status
	cur.UpdatedAt = nowUTC()
	return nil
}

func (r *PickListRepo) UpdateItem(item *entity.PickListItem) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pickLists[item.PickListID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range p.Items {
		if p.Items[i].ID == item.ID {
			p.Items[i] = *item
			p.UpdatedAt = nowUTC()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *PickListRepo) ListByOrder(orderID string) ([]*entity.PickList, error) {
	return r.filter(func(p *entity.PickList) bool { return p.OrderID == orderID })
}

func (r *PickListRepo) ListOpen() ([]*entity.PickList, error) {
	return r.filter(func(p *entity.PickList) bool {
		return p.Status == entity.PickListPending || p.Status == entity.PickListInProgress
	})
}

func (r *PickListRepo) filter(keep func(*entity.PickList) bool) ([]*entity.PickList, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*entity.PickList
	for _, p := range s.pickLists {
		if keep(p) {
			list = append(list, clonePickList(p))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// AlertRepo implementación en memoria de AlertRepository.
type AlertRepo struct {
	store *Store
}

// NewAlertRepository construye el adaptador sobre el store.
func NewAlertRepository(store *Store) *AlertRepo {
	return &AlertRepo{store: store}
}

func (r *AlertRepo) Create(alert *entity.StockAlert) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.alerts[alert.ID]; exists {
		return domain.ErrDuplicate
	}
	s.alerts[alert.ID] = cloneAlert(alert)
	return nil
}

func (r *AlertRepo) GetByID(id string) (*entity.StockAlert, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.alerts[id]
	if !ok {
		return nil, nil
	}
	return cloneAlert(a), nil
}

func (r *AlertRepo) GetOpenByItem(itemID string) (*entity.StockAlert, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alerts {
		if a.ItemID == itemID && a.Open() {
			return cloneAlert(a), nil
		}
	}
	return nil, nil
}

func (r *AlertRepo) Update(alert *entity.StockAlert) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.alerts[alert.ID]; !ok {
		return domain.ErrNotFound
	}
	s.alerts[alert.ID] = cloneAlert(alert)
	return nil
}

func (r *AlertRepo) ListOpen() ([]*entity.StockAlert, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var list []*entity.StockAlert
	for _, a := range s.alerts {
		if a.Open() {
			list = append(list, cloneAlert(a))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}
