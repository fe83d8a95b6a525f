package costing

import (
	"context"
	"fmt"

	"github.com/jhoicas/Ventas-api/internal/domain"
	domcosting "github.com/jhoicas/Ventas-api/internal/domain/costing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ domcosting.LineFiller = (*CostPriceFiller)(nil)

// Claves del mapa devuelto por FillCostPrice.
const (
	FieldCostPrice           = "costPrice"
	FieldSubTotalCostPrice   = "subTotalCostPrice"
	FieldExTaxTotal          = "exTaxTotal"
	FieldSubTotalGrossMargin = "subTotalGrossMargin"
	FieldSubTotalMarginRate  = "subTotalMarginRate"
)

var hundred = decimal.NewFromInt(100)

// CostPriceFiller calcula costo, total sin impuestos y margen de una línea a partir de su producto.
type CostPriceFiller struct {
	companies repository.CompanyRepository
	costs     domcosting.ProductCostLookup
	converter domcosting.CurrencyConverter
	scales    domcosting.ScaleProvider
	dates     domcosting.DateProvider
}

// NewCostPriceFiller construye el llenador de líneas.
func NewCostPriceFiller(
	companies repository.CompanyRepository,
	costs domcosting.ProductCostLookup,
	converter domcosting.CurrencyConverter,
	scales domcosting.ScaleProvider,
	dates domcosting.DateProvider,
) *CostPriceFiller {
	return &CostPriceFiller{
		companies: companies,
		costs:     costs,
		converter: converter,
		scales:    scales,
		dates:     dates,
	}
}

// FillCostPrice devuelve los campos derivados de la línea. En líneas compuestas usa el costo
// ya consolidado (CostPrice/CostTotal) en lugar del producto.
func (f *CostPriceFiller) FillCostPrice(ctx context.Context, order *entity.SaleOrder, line *entity.SaleOrderLine, product *entity.Product) (map[string]any, error) {
	if order == nil || line == nil {
		return nil, domain.ErrInvalidInput
	}
	scale, err := f.scales.UnitPriceScale(ctx)
	if err != nil {
		return nil, err
	}

	costPrice := decimal.Zero
	subTotalCost := decimal.Zero
	switch {
	case !line.IsLeaf():
		costPrice = line.CostPrice
		subTotalCost = line.CostTotal
	case product != nil:
		company, err := f.companies.GetByID(ctx, order.CompanyID)
		if err != nil {
			return nil, fmt.Errorf("obtener empresa: %w", err)
		}
		if company == nil {
			return nil, domain.ErrNotFound
		}
		base, err := f.costs.CostPrice(ctx, product.ID, company)
		if err != nil {
			return nil, err
		}
		today, err := f.dates.Today(ctx, company)
		if err != nil {
			return nil, err
		}
		costPrice, err = f.converter.Convert(ctx, company.Currency, order.Currency, base, today)
		if err != nil {
			return nil, err
		}
		subTotalCost = costPrice.Mul(line.Quantity).Round(scale)
	}

	discount := decimal.NewFromInt(1).Sub(line.DiscountRate.Div(hundred))
	exTaxTotal := line.Price.Mul(line.Quantity).Mul(discount).Round(scale)
	grossMargin := exTaxTotal.Sub(subTotalCost)
	marginRate := decimal.Zero
	if !exTaxTotal.IsZero() {
		marginRate = grossMargin.Mul(hundred).DivRound(exTaxTotal, 2)
	}

	return map[string]any{
		FieldCostPrice:           costPrice,
		FieldSubTotalCostPrice:   subTotalCost,
		FieldExTaxTotal:          exTaxTotal,
		FieldSubTotalGrossMargin: grossMargin,
		FieldSubTotalMarginRate:  marginRate,
	}, nil
}
