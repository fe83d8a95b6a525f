package costing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain"
	domcosting "github.com/jhoicas/Ventas-api/internal/domain/costing"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ domcosting.ScaleProvider = (*AppSaleScaleProvider)(nil)

// MaxUnitPriceScale límite de decimales aceptado para precios unitarios.
const MaxUnitPriceScale = 10

// AppSaleScaleProvider lee la escala de precio unitario de app_sale en cada llamada
// para reflejar cambios de configuración sin reiniciar.
type AppSaleScaleProvider struct {
	repo         repository.AppSaleRepository
	defaultScale int32
}

// NewAppSaleScaleProvider construye el proveedor con la escala por defecto de la configuración.
func NewAppSaleScaleProvider(repo repository.AppSaleRepository, defaultScale int32) *AppSaleScaleProvider {
	return &AppSaleScaleProvider{repo: repo, defaultScale: defaultScale}
}

// UnitPriceScale devuelve el número de decimales configurado.
func (p *AppSaleScaleProvider) UnitPriceScale(ctx context.Context) (int32, error) {
	v, err := p.repo.GetNbDecimalDigitForUnitPrice(ctx)
	if err != nil {
		return 0, fmt.Errorf("leer escala de precio unitario: %w", err)
	}
	if v == nil {
		return p.defaultScale, nil
	}
	if *v < 0 || *v > MaxUnitPriceScale {
		return 0, fmt.Errorf("%w: escala de precio unitario %d", domain.ErrInvalidInput, *v)
	}
	return *v, nil
}
