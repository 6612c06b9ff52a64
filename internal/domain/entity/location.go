package entity

import "time"

// Tipos de ubicación física o lógica de la planta.
const (
	LocationProduction = "production"
	LocationStorage    = "storage"
	LocationShipping   = "shipping"
	LocationReceiving  = "receiving"
)

// Location representa una ubicación (departamento) donde reside stock.
// El conjunto se siembra en el setup; solo se desactiva, nunca se borra,
// porque las transacciones la referencian de forma permanente.
type Location struct {
	Code      string // identidad única
	Name      string
	Type      string
	Active    bool
	CreatedAt time.Time
}

// ValidLocationType indica si el tipo es uno de los conocidos.
func ValidLocationType(t string) bool {
	switch t {
	case LocationProduction, LocationStorage, LocationShipping, LocationReceiving:
		return true
	}
	return false
}
