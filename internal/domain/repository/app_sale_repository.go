package repository

import "context"

// AppSaleRepository lee la configuración del módulo de ventas (tabla app_sale, fila única).
type AppSaleRepository interface {
	// GetNbDecimalDigitForUnitPrice devuelve (nil, nil) si no está configurado.
	GetNbDecimalDigitForUnitPrice(ctx context.Context) (*int32, error)
}
