package repository

import "github.com/jhoicas/Planta-api/internal/domain/entity"

// BOMRepository define el puerto de persistencia para BillOfMaterials
// (incluye sus componentes).
type BOMRepository interface {
	Create(bom *entity.BillOfMaterials) error
	GetByID(id string) (*entity.BillOfMaterials, error)
	// GetDefault devuelve la BOM default activa para (tipo, variante) exactos,
	// o nil si no hay (la búsqueda por prioridad vive en el caso de uso).
	GetDefault(productType, variant string) (*entity.BillOfMaterials, error)
	Update(bom *entity.BillOfMaterials) error
	// Lock congela la BOM (referenciada por un picking completado).
	Lock(id string) error
	ListByProductType(productType string) ([]*entity.BillOfMaterials, error)
}
