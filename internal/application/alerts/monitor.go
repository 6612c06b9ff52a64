package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Planta-api/internal/application/dto"
	"github.com/jhoicas/Planta-api/internal/domain"
	"github.com/jhoicas/Planta-api/internal/domain/entity"
	"github.com/jhoicas/Planta-api/internal/domain/repository"
	"github.com/jhoicas/Planta-api/pkg/logger"
)

// Monitor deriva alertas de stock bajo/agotado a partir del disponible
// agregado de cada ítem tras las mutaciones del ledger. Las alertas no se
// auto-resuelven al subir el stock: solo se cierran con reconocimiento
// explícito, y no se duplican mientras haya una abierta del mismo tipo.
type Monitor struct {
	repo repository.AlertRepository
	log  *logger.Logger
}

// NewMonitor construye el monitor.
func NewMonitor(repo repository.AlertRepository, log *logger.Logger) *Monitor {
	return &Monitor{repo: repo, log: log}
}

// Evaluate compara el disponible con el punto de reorden del ítem y crea la
// alerta que corresponda. out_of_stock sustituye (en sitio) una low_stock
// abierta del mismo ítem.
func (m *Monitor) Evaluate(ctx context.Context, item *entity.Item, available decimal.Decimal) error {
	if item == nil {
		return domain.ErrInvalidInput
	}
	var alertType string
	switch {
	case available.LessThanOrEqual(decimal.Zero):
		alertType = entity.AlertOutOfStock
	case item.ReorderPoint.GreaterThan(decimal.Zero) && available.LessThan(item.ReorderPoint):
		alertType = entity.AlertLowStock
	default:
		return nil
	}

	open, err := m.repo.GetOpenByItem(item.ID)
	if err != nil {
		return err
	}
	if open != nil {
		if open.Type == alertType {
			return nil
		}
		if open.Type == entity.AlertLowStock && alertType == entity.AlertOutOfStock {
			// Escalar la alerta abierta en lugar de duplicar.
			open.Type = entity.AlertOutOfStock
			open.Available = available
			return m.repo.Update(open)
		}
		// Ya hay out_of_stock abierta; una low_stock nueva no aporta.
		return nil
	}

	alert := &entity.StockAlert{
		ID:        uuid.New().String(),
		ItemID:    item.ID,
		Type:      alertType,
		Available: available,
		CreatedAt: time.Now(),
	}
	if err := m.repo.Create(alert); err != nil {
		return err
	}
	m.log.Warn().
		Str("item_id", item.ID).
		Str("sku", item.SKU).
		Str("type", alertType).
		Str("available", available.String()).
		Msg("alerta de stock creada")
	return nil
}

// Acknowledge cierra una alerta. Es la única forma de resolverla.
func (m *Monitor) Acknowledge(ctx context.Context, alertID, actor string) (*dto.AlertResponse, error) {
	if alertID == "" || actor == "" {
		return nil, domain.ErrInvalidInput
	}
	alert, err := m.repo.GetByID(alertID)
	if err != nil || alert == nil {
		return nil, domain.ErrNotFound
	}
	if !alert.Open() {
		return nil, domain.ErrConflict
	}
	now := time.Now()
	alert.AcknowledgedAt = &now
	alert.AcknowledgedBy = actor
	if err := m.repo.Update(alert); err != nil {
		return nil, err
	}
	return toAlertResponse(alert), nil
}

// ListOpen lista las alertas sin reconocer.
func (m *Monitor) ListOpen(ctx context.Context) ([]*dto.AlertResponse, error) {
	alerts, err := m.repo.ListOpen()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertResponse(a))
	}
	return out, nil
}

func toAlertResponse(a *entity.StockAlert) *dto.AlertResponse {
	return &dto.AlertResponse{
		ID:             a.ID,
		ItemID:         a.ItemID,
		Type:           a.Type,
		Available:      a.Available,
		CreatedAt:      a.CreatedAt,
		AcknowledgedAt: a.AcknowledgedAt,
		AcknowledgedBy: a.AcknowledgedBy,
	}
}
