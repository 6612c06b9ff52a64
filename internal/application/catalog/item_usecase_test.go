package catalog_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Planta-api/internal/application/catalog"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests catálogo de ítems
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newItemUC(t *testing.T) (*catalog.ItemUseCase, *memory.ItemRepo) {
	t.Helper()
	store := memory.NewStore()
	itemRepo := memory.NewItemRepository(store)
	locationRepo := memory.NewLocationRepository(store)
	require.NoError(t, locationRepo.Create(&entity.Location{
		Code: "almacen", Name: "Almacén", Type: entity.LocationStorage, Active: true, CreatedAt: time.Now(),
	}))
	return catalog.NewItemUseCase(itemRepo, locationRepo), itemRepo
}

func crearTornillo() dto.CreateItemRequest {
	return dto.CreateItemRequest{
		SKU: "TOR-M8", Name: "Tornillo M8", Category: entity.CategoryComponent,
		UnitMeasure: "unidad", DefaultLocation: "almacen",
		ReorderPoint: dec("20"), ReorderQty: dec("100"),
	}
}

// Caso 1: Crear ítem arranca activo con costo promedio cero; SKU duplicado se rechaza.
func TestItemCreate_SKUUnico(t *testing.T) {
	uc, _ := newItemUC(t)

	created, err := uc.Create(crearTornillo())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.Active)
	assert.True(t, created.AverageCost.IsZero(), "el costo inicia en cero")

	_, err = uc.Create(crearTornillo())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Caso 2: Categoría desconocida, umbrales negativos o ubicación default
// inexistente se rechazan.
func TestItemCreate_Validaciones(t *testing.T) {
	uc, _ := newItemUC(t)

	in := crearTornillo()
	in.Category = "otra"
	_, err := uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = crearTornillo()
	in.ReorderPoint = dec("-1")
	_, err = uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = crearTornillo()
	in.DefaultLocation = "nave-x"
	_, err = uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Caso 3: Update no puede tocar SKU ni costo promedio.
func TestItemUpdate_CamposInmutables(t *testing.T) {
	uc, repo := newItemUC(t)
	created, err := uc.Create(crearTornillo())
	require.NoError(t, err)

	// Simular una recepción que fijó el costo.
	require.NoError(t, repo.UpdateCost(created.ID, dec("12")))

	updated, err := uc.Update(created.ID, dto.UpdateItemRequest{
		Name: "Tornillo M8 zincado", ReorderPoint: dec("30"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tornillo M8 zincado", updated.Name)
	assert.True(t, updated.ReorderPoint.Equal(dec("30")))
	assert.Equal(t, "TOR-M8", updated.SKU)

	item, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.True(t, item.AverageCost.Equal(dec("12")),
		"el update de catálogo no toca el costo promedio")
}

// Caso 4: Desactivar es suave y el ítem sigue siendo legible.
func TestItemDeactivate_Suave(t *testing.T) {
	uc, _ := newItemUC(t)
	created, err := uc.Create(crearTornillo())
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(created.ID))
	got, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "el ítem desactivado sigue siendo legible")
	assert.False(t, got.Active)

	err = uc.Deactivate("fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Caso 5: Resolución por SKU (camino del escaneo de código de barras).
func TestItemGetBySKU(t *testing.T) {
	uc, _ := newItemUC(t)
	created, err := uc.Create(crearTornillo())
	require.NoError(t, err)

	got, err := uc.GetBySKU("TOR-M8")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	got, err = uc.GetBySKU("XX-NADA")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// Caso 6: Listado paginado ordenado por SKU.
func TestItemList_Paginado(t *testing.T) {
	uc, _ := newItemUC(t)
	for _, sku := range []string{"C-3", "A-1", "B-2"} {
		in := crearTornillo()
		in.SKU = sku
		in.Name = sku
		_, err := uc.Create(in)
		require.NoError(t, err)
	}

	page, err := uc.List(dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "A-1", page[0].SKU)
	assert.Equal(t, "B-2", page[1].SKU)

	page, err = uc.List(dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "C-3", page[0].SKU)
}
