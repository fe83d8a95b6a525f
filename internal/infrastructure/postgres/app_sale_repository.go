package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.AppSaleRepository = (*AppSaleRepo)(nil)

// AppSaleRepo lee la fila de configuración del módulo de ventas.
type AppSaleRepo struct {
	q Querier
}

// NewAppSaleRepository construye el adaptador.
func NewAppSaleRepository(q Querier) *AppSaleRepo {
	return &AppSaleRepo{q: q}
}

// GetNbDecimalDigitForUnitPrice lee la escala de precios unitarios en cada llamada.
func (r *AppSaleRepo) GetNbDecimalDigitForUnitPrice(ctx context.Context) (*int32, error) {
	var scale *int32
	err := r.q.QueryRow(ctx,
		`SELECT nb_decimal_digit_for_unit_price FROM app_sale ORDER BY id LIMIT 1`).Scan(&scale)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get app_sale scale: %w", err)
	}
	return scale, nil
}
