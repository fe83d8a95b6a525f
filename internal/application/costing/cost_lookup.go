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

var _ domcosting.ProductCostLookup = (*ProductCompanyCostLookup)(nil)

// ProductCompanyCostLookup resuelve el costo de un producto para una empresa:
// primero el costo propio de la empresa (product_companies), luego el costo base del producto.
type ProductCompanyCostLookup struct {
	products repository.ProductRepository
}

// NewProductCompanyCostLookup construye el adaptador.
func NewProductCompanyCostLookup(products repository.ProductRepository) *ProductCompanyCostLookup {
	return &ProductCompanyCostLookup{products: products}
}

// CostPrice devuelve el costo en la moneda de la empresa. Errores envuelven domain.ErrCostLookup.
func (l *ProductCompanyCostLookup) CostPrice(ctx context.Context, productID string, company *entity.Company) (decimal.Decimal, error) {
	pc, err := l.products.GetCompanyCost(ctx, productID, company.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: costo por empresa de %s: %w", domain.ErrCostLookup, productID, err)
	}
	if pc != nil {
		return pc.CostPrice, nil
	}

	product, err := l.products.GetByID(ctx, productID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: producto %s: %w", domain.ErrCostLookup, productID, err)
	}
	if product == nil {
		return decimal.Zero, fmt.Errorf("%w: producto %s: %w", domain.ErrCostLookup, productID, domain.ErrNotFound)
	}
	if product.CompanyID != company.ID {
		return decimal.Zero, fmt.Errorf("%w: producto %s sin costo para la empresa %s", domain.ErrCostLookup, productID, company.ID)
	}
	return product.Cost, nil
}
