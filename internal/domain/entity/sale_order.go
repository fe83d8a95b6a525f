package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido de venta.
const (
	SaleOrderStatusDraft     = "DRAFT"
	SaleOrderStatusConfirmed = "CONFIRMED"
	SaleOrderStatusCancelled = "CANCELLED"
)

// SaleOrder cabecera de un pedido de venta. Lines contiene solo las líneas raíz;
// las líneas de kit cuelgan de SubLines.
type SaleOrder struct {
	ID         string
	CompanyID  string
	CustomerID string
	Reference  string
	Currency   string // moneda del pedido (ISO 4217)
	Status     string
	OrderDate  time.Time
	TotalCost  decimal.Decimal
	Lines      []*SaleOrderLine
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaleOrderLine nodo del árbol de líneas. Una línea con SubLines es compuesta (kit) y su
// costo es la suma de sus hijas; una línea sin SubLines es hoja y se costea con su producto.
type SaleOrderLine struct {
	ID           string
	SaleOrderID  string
	ParentLineID *string
	ProductID    *string
	Sequence     int
	Description  string
	Quantity     decimal.Decimal
	Price        decimal.Decimal // precio unitario de venta en moneda del pedido
	DiscountRate decimal.Decimal // porcentaje 0..100
	CostPrice    decimal.Decimal // calculado
	CostTotal    decimal.Decimal // calculado
	SubLines     []*SaleOrderLine
}

// IsLeaf indica si la línea no tiene sub-líneas.
func (l *SaleOrderLine) IsLeaf() bool {
	return len(l.SubLines) == 0
}

// HasProduct indica si la línea tiene producto asignado.
func (l *SaleOrderLine) HasProduct() bool {
	return l.ProductID != nil && *l.ProductID != ""
}

// Walk recorre la línea y sus descendientes en pre-orden.
func (l *SaleOrderLine) Walk(fn func(line *SaleOrderLine, depth int)) {
	l.walk(fn, 1)
}

func (l *SaleOrderLine) walk(fn func(line *SaleOrderLine, depth int), depth int) {
	fn(l, depth)
	for _, sub := range l.SubLines {
		sub.walk(fn, depth+1)
	}
}

// Depth profundidad del árbol cuya raíz es l (una hoja tiene profundidad 1).
func (l *SaleOrderLine) Depth() int {
	deepest := 0
	l.Walk(func(_ *SaleOrderLine, depth int) {
		if depth > deepest {
			deepest = depth
		}
	})
	return deepest
}

// FindLine busca una línea por ID en todo el árbol del pedido.
func (o *SaleOrder) FindLine(id string) *SaleOrderLine {
	var found *SaleOrderLine
	for _, root := range o.Lines {
		root.Walk(func(line *SaleOrderLine, _ int) {
			if found == nil && line.ID == id {
				found = line
			}
		})
	}
	return found
}

// Flatten devuelve todas las líneas del pedido en pre-orden (padres antes que hijas).
func (o *SaleOrder) Flatten() []*SaleOrderLine {
	var out []*SaleOrderLine
	for _, root := range o.Lines {
		root.Walk(func(line *SaleOrderLine, _ int) {
			out = append(out, line)
		})
	}
	return out
}
