package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los primeros son resultados operativos esperados que la UI debe mostrar;
// ErrInsufficientReservation indica inconsistencia del ledger y se escala.
var (
	ErrNotFound                = errors.New("recurso no encontrado")
	ErrInvalidInput            = errors.New("entrada inválida")
	ErrDuplicate               = errors.New("recurso duplicado")
	ErrConflict                = errors.New("conflicto con el estado actual")
	ErrForbidden               = errors.New("acceso denegado")
	ErrInsufficientStock       = errors.New("stock disponible insuficiente")
	ErrInsufficientReservation = errors.New("reserva insuficiente para el picking")
	ErrBarcodeMismatch         = errors.New("código de barras no corresponde a la lista")
	ErrInvalidTransition       = errors.New("transición de estado no permitida")
	ErrDuplicateSerial         = errors.New("número de serie ya registrado")
	ErrNoBOMFound              = errors.New("no hay BOM activa para el producto")
	ErrInvalidState            = errors.New("la lista de picking está en estado terminal")
	ErrIncompletePickList      = errors.New("la lista de picking tiene ítems pendientes")
	ErrBOMLocked               = errors.New("la BOM está congelada por un picking completado")
)
