package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product y su costo por empresa (DIP).
// GetByID y GetCompanyCost devuelven (nil, nil) si no existe el registro.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCompanyAndSKU(ctx context.Context, companyID, sku string) (*entity.Product, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	GetCompanyCost(ctx context.Context, productID, companyID string) (*entity.ProductCompany, error)
	UpsertCompanyCost(ctx context.Context, pc *entity.ProductCompany) error
}
