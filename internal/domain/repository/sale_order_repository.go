package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleOrderRepository puerto de persistencia de pedidos de venta con su árbol de líneas.
type SaleOrderRepository interface {
	// Create guarda la cabecera y todas las líneas (padres antes que hijas).
	Create(ctx context.Context, order *entity.SaleOrder) error
	// GetByID devuelve el pedido con Lines armado como árbol, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.SaleOrder, error)
	// UpdateLineCost guarda solo cost_price y cost_total de una línea.
	UpdateLineCost(ctx context.Context, line *entity.SaleOrderLine) error
	UpdateTotalCost(ctx context.Context, orderID string, totalCost decimal.Decimal) error
}
