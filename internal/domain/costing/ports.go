package costing

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductCostLookup devuelve el costo base de un producto registrado para una empresa,
// en la moneda de esa empresa.
type ProductCostLookup interface {
	CostPrice(ctx context.Context, productID string, company *entity.Company) (decimal.Decimal, error)
}

// CurrencyConverter convierte un monto entre monedas a una fecha dada.
// Debe devolver el mismo monto cuando from == to.
type CurrencyConverter interface {
	Convert(ctx context.Context, from, to string, amount decimal.Decimal, date time.Time) (decimal.Decimal, error)
}

// ScaleProvider devuelve el número de decimales para precios unitarios.
type ScaleProvider interface {
	UnitPriceScale(ctx context.Context) (int32, error)
}

// DateProvider devuelve la fecha de "hoy" para una empresa.
type DateProvider interface {
	Today(ctx context.Context, company *entity.Company) (time.Time, error)
}

// LineFiller calcula los campos derivados de costo/precio de una línea (llenado de línea por producto).
// product puede ser nil cuando la línea no tiene producto.
type LineFiller interface {
	FillCostPrice(ctx context.Context, order *entity.SaleOrder, line *entity.SaleOrderLine, product *entity.Product) (map[string]any, error)
}
