package memory

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)
var _ repository.LocationRepository = (*LocationRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	store *Store
}

// NewItemRepository construye el adaptador sobre el store.
func NewItemRepository(store *Store) *ItemRepo {
	return &ItemRepo{store: store}
}

func (r *ItemRepo) Create(item *entity.Item) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.itemsSKU[item.SKU]; exists {
		return domain.ErrDuplicate
	}
	if _, exists := s.items[item.ID]; exists {
		return domain.ErrDuplicate
	}
	s.items[item.ID] = cloneItem(item)
	s.itemsSKU[item.SKU] = item.ID
	return nil
}

func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return cloneItem(it), nil
}

func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.itemsSKU[sku]
	if !ok {
		return nil, nil
	}
	return cloneItem(s.items[id]), nil
}

func (r *ItemRepo) Update(item *entity.Item) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneItem(item)
	next.SKU = cur.SKU // el SKU es inmutable
	next.AverageCost = cur.AverageCost
	next.UpdatedAt = nowUTC()
	s.items[item.ID] = next
	return nil
}

func (r *ItemRepo) UpdateCost(itemID string, cost decimal.Decimal) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	it.AverageCost = cost
	it.UpdatedAt = nowUTC()
	return nil
}

func (r *ItemRepo) Deactivate(id string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Active = false
	it.UpdatedAt = nowUTC()
	return nil
}

func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*entity.Item, 0, len(s.items))
	for _, it := range s.items {
		all = append(all, cloneItem(it))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
	return paginate(all, limit, offset), nil
}

// LocationRepo implementación en memoria de LocationRepository.
type LocationRepo struct {
	store *Store
}

// NewLocationRepository construye el adaptador sobre el store.
func NewLocationRepository(store *Store) *LocationRepo {
	return &LocationRepo{store: store}
}

func (r *LocationRepo) Create(location *entity.Location) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.locations[location.Code]; exists {
		return domain.ErrDuplicate
	}
	s.locations[location.Code] = cloneLocation(location)
	return nil
}

func (r *LocationRepo) GetByCode(code string) (*entity.Location, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locations[code]
	if !ok {
		return nil, nil
	}
	return cloneLocation(loc), nil
}

func (r *LocationRepo) Deactivate(code string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := s.locations[code]
	if !ok {
		return domain.ErrNotFound
	}
	loc.Active = false
	return nil
}

func (r *LocationRepo) List() ([]*entity.Location, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*entity.Location, 0, len(s.locations))
	for _, loc := range s.locations {
		all = append(all, cloneLocation(loc))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
