// Package costing calcula el costo de las líneas de un pedido de venta (servicio de dominio).
//
// Una línea hoja se costea con el costo de su producto para la empresa, convertido a la
// moneda del pedido; una línea compuesta (kit) suma el costo total de sus sub-líneas.
// En ambos casos el costo unitario es CostoTotal / Cantidad redondeado HALF_UP.
package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OrderContext datos del pedido necesarios para costear sus líneas. Inmutable durante un cálculo.
type OrderContext struct {
	Currency       string          // moneda del pedido
	Company        *entity.Company // Company.Currency es la moneda de origen de los costos
	ConversionDate time.Time
}

// CostRollupCalculator servicio de costeo recursivo de líneas de pedido.
type CostRollupCalculator struct {
	costs     ProductCostLookup
	converter CurrencyConverter
	scales    ScaleProvider
	dates     DateProvider
	filler    LineFiller
}

// NewCostRollupCalculator construye el servicio con sus colaboradores.
func NewCostRollupCalculator(
	costs ProductCostLookup,
	converter CurrencyConverter,
	scales ScaleProvider,
	dates DateProvider,
	filler LineFiller,
) *CostRollupCalculator {
	return &CostRollupCalculator{
		costs:     costs,
		converter: converter,
		scales:    scales,
		dates:     dates,
		filler:    filler,
	}
}

// NewOrderContext arma el contexto de costeo: moneda del pedido, empresa y fecha de hoy de la empresa.
func (c *CostRollupCalculator) NewOrderContext(ctx context.Context, order *entity.SaleOrder, company *entity.Company) (OrderContext, error) {
	if order == nil || company == nil {
		return OrderContext{}, domain.ErrInvalidInput
	}
	today, err := c.dates.Today(ctx, company)
	if err != nil {
		return OrderContext{}, fmt.Errorf("fecha de conversión: %w", err)
	}
	return OrderContext{
		Currency:       order.Currency,
		Company:        company,
		ConversionDate: today,
	}, nil
}

// ComputeTotalCost calcula CostPrice y CostTotal de la línea y de todas sus descendientes (post-orden).
// Modifica el árbol en sitio. Ante un error se detiene: las líneas ya visitadas conservan sus valores.
func (c *CostRollupCalculator) ComputeTotalCost(ctx context.Context, oc OrderContext, line *entity.SaleOrderLine) error {
	if line == nil {
		return domain.ErrInvalidInput
	}

	costPrice := decimal.Zero
	costTotal := decimal.Zero

	if line.IsLeaf() {
		if line.HasProduct() {
			if oc.Company == nil {
				return domain.ErrInvalidInput
			}
			base, err := c.costs.CostPrice(ctx, *line.ProductID, oc.Company)
			if err != nil {
				return err
			}
			costPrice, err = c.converter.Convert(ctx, oc.Company.Currency, oc.Currency, base, oc.ConversionDate)
			if err != nil {
				return err
			}
			scale, err := c.scales.UnitPriceScale(ctx)
			if err != nil {
				return err
			}
			costTotal = costPrice.Mul(line.Quantity).Round(scale)
		}
		line.CostPrice = costPrice
		line.CostTotal = costTotal
	} else {
		for _, sub := range line.SubLines {
			if err := c.ComputeTotalCost(ctx, oc, sub); err != nil {
				return err
			}
			costTotal = sub.CostTotal.Add(costTotal)
		}
	}

	if !line.Quantity.IsPositive() {
		return &domain.InvalidQuantityError{LineID: line.ID, Quantity: line.Quantity}
	}
	scale, err := c.scales.UnitPriceScale(ctx)
	if err != nil {
		return err
	}
	line.CostTotal = costTotal
	line.CostPrice = costTotal.DivRound(line.Quantity, scale)
	return nil
}

// ComputeSubTotalCostPrice delega en el llenador de líneas y devuelve su resultado sin cambios.
func (c *CostRollupCalculator) ComputeSubTotalCostPrice(ctx context.Context, order *entity.SaleOrder, line *entity.SaleOrderLine, product *entity.Product) (map[string]any, error) {
	return c.filler.FillCostPrice(ctx, order, line, product)
}
