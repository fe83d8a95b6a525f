package saleorder

import (
	"github.com/google/uuid"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// linesFromRequest arma el árbol de entidades desde el request asignando IDs, padre y secuencia.
func linesFromRequest(orderID string, parentID *string, in []dto.SaleOrderLineRequest) []*entity.SaleOrderLine {
	out := make([]*entity.SaleOrderLine, 0, len(in))
	for i, r := range in {
		line := &entity.SaleOrderLine{
			ID:           uuid.New().String(),
			SaleOrderID:  orderID,
			ParentLineID: parentID,
			ProductID:    r.ProductID,
			Sequence:     i + 1,
			Description:  r.Description,
			Quantity:     r.Quantity,
			Price:        r.Price,
			DiscountRate: r.DiscountRate,
		}
		if len(r.SubLines) > 0 {
			id := line.ID
			line.SubLines = linesFromRequest(orderID, &id, r.SubLines)
		}
		out = append(out, line)
	}
	return out
}

func toLineResponses(lines []*entity.SaleOrderLine) []dto.SaleOrderLineResponse {
	out := make([]dto.SaleOrderLineResponse, 0, len(lines))
	for _, l := range lines {
		resp := dto.SaleOrderLineResponse{
			ID:           l.ID,
			ParentLineID: l.ParentLineID,
			ProductID:    l.ProductID,
			Sequence:     l.Sequence,
			Description:  l.Description,
			Quantity:     l.Quantity,
			Price:        l.Price,
			DiscountRate: l.DiscountRate,
			CostPrice:    l.CostPrice,
			CostTotal:    l.CostTotal,
		}
		if !l.IsLeaf() {
			resp.SubLines = toLineResponses(l.SubLines)
		}
		out = append(out, resp)
	}
	return out
}

func toSaleOrderResponse(o *entity.SaleOrder) *dto.SaleOrderResponse {
	if o == nil {
		return nil
	}
	return &dto.SaleOrderResponse{
		ID:         o.ID,
		CompanyID:  o.CompanyID,
		CustomerID: o.CustomerID,
		Reference:  o.Reference,
		Currency:   o.Currency,
		Status:     o.Status,
		OrderDate:  o.OrderDate,
		TotalCost:  o.TotalCost,
		Lines:      toLineResponses(o.Lines),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}
