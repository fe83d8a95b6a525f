package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.SaleOrderRepository = (*SaleOrderRepo)(nil)

const saleOrderLineColumns = `id, sale_order_id, parent_line_id, product_id, sequence, description,
	quantity, price, discount_rate, cost_price, cost_total`

// SaleOrderRepo pedidos de venta y su árbol de líneas (usable con pool o tx).
type SaleOrderRepo struct {
	q Querier
}

// NewSaleOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleOrderRepository(q Querier) *SaleOrderRepo {
	return &SaleOrderRepo{q: q}
}

// Create guarda la cabecera y luego las líneas en pre-orden, de modo que cada
// parent_line_id ya exista al insertar la hija.
func (r *SaleOrderRepo) Create(ctx context.Context, order *entity.SaleOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_orders (id, company_id, customer_id, reference, currency, status, order_date, total_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		order.ID, order.CompanyID, nullIfEmpty(order.CustomerID), order.Reference, order.Currency,
		order.Status, order.OrderDate, order.TotalCost, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale order: %w", err)
	}
	for _, line := range order.Flatten() {
		_, err := r.q.Exec(ctx, `INSERT INTO sale_order_lines (`+saleOrderLineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			line.ID, order.ID, line.ParentLineID, line.ProductID, line.Sequence, line.Description,
			line.Quantity, line.Price, line.DiscountRate, line.CostPrice, line.CostTotal,
		)
		if err != nil {
			return fmt.Errorf("insert sale order line %s: %w", line.ID, err)
		}
	}
	return nil
}

// GetByID devuelve el pedido con sus líneas armadas como árbol.
func (r *SaleOrderRepo) GetByID(ctx context.Context, id string) (*entity.SaleOrder, error) {
	var o entity.SaleOrder
	var customerID *string
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, customer_id, reference, currency, status, order_date, total_cost, created_at, updated_at
		FROM sale_orders WHERE id = $1`, id).Scan(
		&o.ID, &o.CompanyID, &customerID, &o.Reference, &o.Currency, &o.Status,
		&o.OrderDate, &o.TotalCost, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale order: %w", err)
	}
	o.CustomerID = emptyIfNull(customerID)

	rows, err := r.q.Query(ctx,
		`SELECT `+saleOrderLineColumns+` FROM sale_order_lines WHERE sale_order_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale order lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.SaleOrderLine
	for rows.Next() {
		var l entity.SaleOrderLine
		if err := rows.Scan(&l.ID, &l.SaleOrderID, &l.ParentLineID, &l.ProductID, &l.Sequence,
			&l.Description, &l.Quantity, &l.Price, &l.DiscountRate, &l.CostPrice, &l.CostTotal); err != nil {
			return nil, fmt.Errorf("scan sale order line: %w", err)
		}
		lines = append(lines, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	o.Lines = buildLineTree(lines)
	return &o, nil
}

// UpdateLineCost guarda cost_price y cost_total de la línea.
func (r *SaleOrderRepo) UpdateLineCost(ctx context.Context, line *entity.SaleOrderLine) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sale_order_lines SET cost_price = $2, cost_total = $3 WHERE id = $1`,
		line.ID, line.CostPrice, line.CostTotal)
	if err != nil {
		return fmt.Errorf("update line cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateTotalCost guarda el costo total del pedido.
func (r *SaleOrderRepo) UpdateTotalCost(ctx context.Context, orderID string, totalCost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sale_orders SET total_cost = $2, updated_at = now() WHERE id = $1`, orderID, totalCost)
	if err != nil {
		return fmt.Errorf("update order total cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// buildLineTree cuelga cada línea de su padre y devuelve las raíces, hermanas ordenadas por sequence.
// Una línea cuyo padre no está en la lista se trata como raíz.
func buildLineTree(lines []*entity.SaleOrderLine) []*entity.SaleOrderLine {
	byID := make(map[string]*entity.SaleOrderLine, len(lines))
	for _, l := range lines {
		l.SubLines = nil
		byID[l.ID] = l
	}
	var roots []*entity.SaleOrderLine
	for _, l := range lines {
		if l.ParentLineID != nil {
			if parent, ok := byID[*l.ParentLineID]; ok {
				parent.SubLines = append(parent.SubLines, l)
				continue
			}
		}
		roots = append(roots, l)
	}
	sortBySequence(roots)
	for _, l := range lines {
		sortBySequence(l.SubLines)
	}
	return roots
}

func sortBySequence(lines []*entity.SaleOrderLine) {
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].Sequence < lines[j].Sequence })
}
