package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleOrderLineRequest línea de pedido; SubLines convierte la línea en un kit.
type SaleOrderLineRequest struct {
	ProductID    *string                `json:"product_id"`
	Description  string                 `json:"description"`
	Quantity     decimal.Decimal        `json:"quantity"`
	Price        decimal.Decimal        `json:"price"`
	DiscountRate decimal.Decimal        `json:"discount_rate"`
	SubLines     []SaleOrderLineRequest `json:"sub_lines"`
}

// CreateSaleOrderRequest entrada para crear un pedido de venta.
type CreateSaleOrderRequest struct {
	CustomerID string                 `json:"customer_id"`
	Reference  string                 `json:"reference"`
	Currency   string                 `json:"currency" validate:"required,len=3"`
	OrderDate  *time.Time             `json:"order_date"`
	Lines      []SaleOrderLineRequest `json:"lines" validate:"required,min=1"`
}

// SaleOrderLineResponse línea con su costo calculado.
type SaleOrderLineResponse struct {
	ID           string                  `json:"id,omitempty"`
	ParentLineID *string                 `json:"parent_line_id,omitempty"`
	ProductID    *string                 `json:"product_id,omitempty"`
	Sequence     int                     `json:"sequence"`
	Description  string                  `json:"description,omitempty"`
	Quantity     decimal.Decimal         `json:"quantity"`
	Price        decimal.Decimal         `json:"price"`
	DiscountRate decimal.Decimal         `json:"discount_rate"`
	CostPrice    decimal.Decimal         `json:"cost_price"`
	CostTotal    decimal.Decimal         `json:"cost_total"`
	SubLines     []SaleOrderLineResponse `json:"sub_lines,omitempty"`
}

// SaleOrderResponse salida de un pedido con su árbol de líneas.
type SaleOrderResponse struct {
	ID         string                  `json:"id"`
	CompanyID  string                  `json:"company_id"`
	CustomerID string                  `json:"customer_id,omitempty"`
	Reference  string                  `json:"reference"`
	Currency   string                  `json:"currency"`
	Status     string                  `json:"status"`
	OrderDate  time.Time               `json:"order_date"`
	TotalCost  decimal.Decimal         `json:"total_cost"`
	Lines      []SaleOrderLineResponse `json:"lines"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// CostPreviewRequest árbol de líneas a costear sin persistir.
type CostPreviewRequest struct {
	Currency string                 `json:"currency" validate:"required,len=3"`
	Lines    []SaleOrderLineRequest `json:"lines" validate:"required,min=1"`
}

// CostPreviewResponse resultado del costeo en vista previa.
type CostPreviewResponse struct {
	Currency       string                  `json:"currency"`
	ConversionDate string                  `json:"conversion_date"`
	TotalCost      decimal.Decimal         `json:"total_cost"`
	Lines          []SaleOrderLineResponse `json:"lines"`
}

// LineCostPriceResponse campos derivados de costo y margen de una línea.
type LineCostPriceResponse struct {
	OrderID string         `json:"order_id"`
	LineID  string         `json:"line_id"`
	Fields  map[string]any `json:"fields"`
}
