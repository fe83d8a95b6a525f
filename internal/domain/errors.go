package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Costeo de pedidos de venta.
	ErrInvalidQuantity    = errors.New("cantidad de línea inválida")
	ErrCostLookup         = errors.New("costo de producto no disponible")
	ErrCurrencyConversion = errors.New("conversión de moneda no disponible")
)

// InvalidQuantityError se retorna cuando una línea tiene cantidad cero, negativa o ausente
// y es necesario dividir por ella para obtener el costo unitario.
type InvalidQuantityError struct {
	LineID   string
	Quantity decimal.Decimal
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("línea %q: cantidad %s inválida para calcular costo unitario", e.LineID, e.Quantity.String())
}

// Is permite errors.Is(err, ErrInvalidQuantity).
func (e *InvalidQuantityError) Is(target error) bool {
	return target == ErrInvalidQuantity
}
