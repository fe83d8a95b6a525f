package saleorder

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el repositorio de pedidos atado a esa tx.
// Garantiza que todas las líneas de un pedido queden costeadas o ninguna.
type TxRunner interface {
	RunSaleOrder(ctx context.Context, fn func(orderRepo repository.SaleOrderRepository) error) error
}

// CostSheetGenerator genera la hoja de costos (PDF) de un pedido ya costeado.
// products indexa por ID los productos referenciados por las líneas.
type CostSheetGenerator interface {
	GenerateCostSheet(
		ctx context.Context,
		order *entity.SaleOrder,
		company *entity.Company,
		products map[string]*entity.Product,
	) ([]byte, error)
}
