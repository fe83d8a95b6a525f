package entity

import "time"

// Company representa una organización/tenant del sistema.
// Currency es la moneda en la que se registran los costos de sus productos.
type Company struct {
	ID        string
	Name      string
	NIT       string // NIT colombiano (con o sin dígito de verificación)
	Currency  string // ISO 4217, ej. COP
	Timezone  string // IANA, ej. America/Bogota; vacío = zona por defecto de la app
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
