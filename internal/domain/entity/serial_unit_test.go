package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Planta-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests máquina de estados de SerialUnit
// ──────────────────────────────────────────────────────────────────────────────

func TestSerialUnit_TransicionesPermitidas(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		// Flujo nominal
		{entity.SerialInStock, entity.SerialReserved, true},
		{entity.SerialReserved, entity.SerialInUse, true},
		{entity.SerialInUse, entity.SerialShipped, true},
		// Liberación de reserva
		{entity.SerialReserved, entity.SerialInStock, true},
		// Scrapped desde cualquier estado no terminal
		{entity.SerialInStock, entity.SerialScrapped, true},
		{entity.SerialReserved, entity.SerialScrapped, true},
		{entity.SerialInUse, entity.SerialScrapped, true},
		// Retrocesos prohibidos
		{entity.SerialInUse, entity.SerialInStock, false},
		{entity.SerialInUse, entity.SerialReserved, false},
		// Estados terminales: sin salida
		{entity.SerialShipped, entity.SerialInStock, false},
		{entity.SerialShipped, entity.SerialScrapped, false},
		{entity.SerialScrapped, entity.SerialInStock, false},
		{entity.SerialScrapped, entity.SerialShipped, false},
	}
	for _, tc := range cases {
		unit := &entity.SerialUnit{Serial: "SN-1", Status: tc.from}
		assert.Equal(t, tc.ok, unit.CanTransition(tc.to),
			"transición %s → %s", tc.from, tc.to)
	}
}

func TestSerialUnit_EstadoDesconocido(t *testing.T) {
	unit := &entity.SerialUnit{Serial: "SN-1", Status: "limbo"}
	assert.False(t, unit.CanTransition(entity.SerialInStock),
		"un estado desconocido no debe permitir transiciones")
	assert.False(t, entity.ValidSerialStatus("limbo"))
	assert.True(t, entity.ValidSerialStatus(entity.SerialInStock))
}
