package catalog

import (
	"time"

	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
)

// LocationUseCase registro de ubicaciones de la planta. El conjunto es fijo
// tras el setup: solo desactivación, nunca borrado (las transacciones las
// referencian de forma permanente).
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create registra una ubicación nueva (setup).
func (uc *LocationUseCase) Create(in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Code == "" || in.Name == "" || !entity.ValidLocationType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCode(in.Code)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	loc := &entity.Location{
		Code:      in.Code,
		Name:      in.Name,
		Type:      in.Type,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetByCode obtiene una ubicación.
func (uc *LocationUseCase) GetByCode(code string) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, nil
	}
	return toLocationResponse(loc), nil
}

// Deactivate desactiva una ubicación.
func (uc *LocationUseCase) Deactivate(code string) error {
	loc, err := uc.repo.GetByCode(code)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Deactivate(code)
}

// List lista todas las ubicaciones.
func (uc *LocationUseCase) List() ([]*dto.LocationResponse, error) {
	locations, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.LocationResponse, 0, len(locations))
	for _, loc := range locations {
		out = append(out, toLocationResponse(loc))
	}
	return out, nil
}

func toLocationResponse(loc *entity.Location) *dto.LocationResponse {
	return &dto.LocationResponse{
		Code:   loc.Code,
		Name:   loc.Name,
		Type:   loc.Type,
		Active: loc.Active,
	}
}
