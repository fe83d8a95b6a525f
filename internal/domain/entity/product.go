package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto vendible. Cost es el costo base en la moneda de la empresa dueña.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo base
	UnitMeasure string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductCompany guarda el costo de un producto para una empresa específica (multi-empresa).
// Si existe, tiene prioridad sobre Product.Cost.
type ProductCompany struct {
	ProductID string
	CompanyID string
	CostPrice decimal.Decimal
	UpdatedAt time.Time
}
