package saleorder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/application/costing"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	domcosting "github.com/jhoicas/Ventas-api/internal/domain/costing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// Config parámetros del caso de uso.
type Config struct {
	MaxDepth int // profundidad máxima del árbol de líneas
}

// CostUseCase casos de uso de pedidos de venta y su costeo.
type CostUseCase struct {
	txRunner    TxRunner
	orderRepo   repository.SaleOrderRepository
	companyRepo repository.CompanyRepository
	productRepo repository.ProductRepository
	calc        *domcosting.CostRollupCalculator
	generator   CostSheetGenerator
	log         *logger.Logger
	cfg         Config
}

// NewCostUseCase construye el caso de uso inyectando sus dependencias.
func NewCostUseCase(
	txRunner TxRunner,
	orderRepo repository.SaleOrderRepository,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	calc *domcosting.CostRollupCalculator,
	generator CostSheetGenerator,
	log *logger.Logger,
	cfg Config,
) *CostUseCase {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 16
	}
	return &CostUseCase{
		txRunner:    txRunner,
		orderRepo:   orderRepo,
		companyRepo: companyRepo,
		productRepo: productRepo,
		calc:        calc,
		generator:   generator,
		log:         log,
		cfg:         cfg,
	}
}

// CreateOrder valida y guarda un pedido con su árbol de líneas en estado DRAFT.
func (uc *CostUseCase) CreateOrder(ctx context.Context, companyID string, in dto.CreateSaleOrderRequest) (*dto.SaleOrderResponse, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: el pedido no tiene líneas", domain.ErrInvalidInput)
	}
	if err := costing.ValidateCurrency(in.Currency); err != nil {
		return nil, err
	}
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.validateLines(ctx, companyID, in.Lines, 1); err != nil {
		return nil, err
	}

	now := time.Now()
	orderDate := now
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}
	order := &entity.SaleOrder{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		CustomerID: in.CustomerID,
		Reference:  in.Reference,
		Currency:   in.Currency,
		Status:     entity.SaleOrderStatusDraft,
		OrderDate:  orderDate,
		TotalCost:  decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	order.Lines = linesFromRequest(order.ID, nil, in.Lines)

	err = uc.txRunner.RunSaleOrder(ctx, func(orderRepo repository.SaleOrderRepository) error {
		return orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("company_id", companyID).
		Str("order_id", order.ID).
		Int("lines", len(order.Flatten())).
		Msg("pedido de venta creado")
	return toSaleOrderResponse(order), nil
}

// GetOrder devuelve el pedido con sus líneas.
func (uc *CostUseCase) GetOrder(ctx context.Context, companyID, orderID string) (*dto.SaleOrderResponse, error) {
	order, err := uc.loadOrder(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	return toSaleOrderResponse(order), nil
}

// ComputeCosts recalcula el costo de todas las líneas del pedido y lo guarda en una sola transacción.
// Si el cálculo falla no se persiste nada.
func (uc *CostUseCase) ComputeCosts(ctx context.Context, companyID, orderID string) (*dto.SaleOrderResponse, error) {
	order, err := uc.loadOrder(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == entity.SaleOrderStatusCancelled {
		return nil, fmt.Errorf("%w: pedido cancelado", domain.ErrConflict)
	}
	company, err := uc.loadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	if _, err := uc.computeTree(ctx, order, company); err != nil {
		uc.log.Warn().Err(err).
			Str("company_id", companyID).
			Str("order_id", orderID).
			Msg("costeo de pedido fallido")
		return nil, err
	}

	lines := order.Flatten()
	err = uc.txRunner.RunSaleOrder(ctx, func(orderRepo repository.SaleOrderRepository) error {
		for _, line := range lines {
			if err := orderRepo.UpdateLineCost(ctx, line); err != nil {
				return err
			}
		}
		return orderRepo.UpdateTotalCost(ctx, order.ID, order.TotalCost)
	})
	if err != nil {
		return nil, fmt.Errorf("guardar costos del pedido: %w", err)
	}

	uc.log.Info().
		Str("company_id", companyID).
		Str("order_id", orderID).
		Int("lines", len(lines)).
		Str("total_cost", order.TotalCost.String()).
		Dur("elapsed", time.Since(started)).
		Msg("costo de pedido calculado")
	return toSaleOrderResponse(order), nil
}

// PreviewCosts costea un árbol de líneas recibido en el request sin persistir nada.
func (uc *CostUseCase) PreviewCosts(ctx context.Context, companyID string, in dto.CostPreviewRequest) (*dto.CostPreviewResponse, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: sin líneas", domain.ErrInvalidInput)
	}
	if err := costing.ValidateCurrency(in.Currency); err != nil {
		return nil, err
	}
	company, err := uc.loadCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	order := &entity.SaleOrder{CompanyID: companyID, Currency: in.Currency}
	order.Lines = linesFromRequest("", nil, in.Lines)

	oc, err := uc.computeTree(ctx, order, company)
	if err != nil {
		return nil, err
	}
	return &dto.CostPreviewResponse{
		Currency:       order.Currency,
		ConversionDate: oc.ConversionDate.Format("2006-01-02"),
		TotalCost:      order.TotalCost,
		Lines:          toLineResponses(order.Lines),
	}, nil
}

// LineCostPrice devuelve costo, total y margen de una línea del pedido.
func (uc *CostUseCase) LineCostPrice(ctx context.Context, companyID, orderID, lineID string) (*dto.LineCostPriceResponse, error) {
	order, err := uc.loadOrder(ctx, companyID, orderID)
	if err != nil {
		return nil, err
	}
	line := order.FindLine(lineID)
	if line == nil {
		return nil, domain.ErrNotFound
	}
	var product *entity.Product
	if line.HasProduct() {
		product, err = uc.productRepo.GetByID(ctx, *line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("obtener producto: %w", err)
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrCostLookup, *line.ProductID)
		}
	}
	fields, err := uc.calc.ComputeSubTotalCostPrice(ctx, order, line, product)
	if err != nil {
		return nil, err
	}
	return &dto.LineCostPriceResponse{OrderID: order.ID, LineID: line.ID, Fields: fields}, nil
}

// CostSheetPDF costea el pedido (sin persistir) y genera su hoja de costos en PDF.
func (uc *CostUseCase) CostSheetPDF(ctx context.Context, companyID, orderID string) (pdfBytes []byte, filename string, err error) {
	order, err := uc.loadOrder(ctx, companyID, orderID)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.loadCompany(ctx, companyID)
	if err != nil {
		return nil, "", err
	}
	if _, err := uc.computeTree(ctx, order, company); err != nil {
		return nil, "", err
	}

	products := make(map[string]*entity.Product)
	for _, line := range order.Flatten() {
		if !line.HasProduct() {
			continue
		}
		if _, ok := products[*line.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(ctx, *line.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("obtener producto: %w", err)
		}
		if p != nil {
			products[p.ID] = p
		}
	}

	pdfBytes, err = uc.generator.GenerateCostSheet(ctx, order, company, products)
	if err != nil {
		return nil, "", fmt.Errorf("generar hoja de costos: %w", err)
	}
	name := order.Reference
	if name == "" {
		name = order.ID
	}
	return pdfBytes, fmt.Sprintf("costos-%s.pdf", name), nil
}

// computeTree costea todas las líneas raíz y deja el total en order.TotalCost.
func (uc *CostUseCase) computeTree(ctx context.Context, order *entity.SaleOrder, company *entity.Company) (domcosting.OrderContext, error) {
	for _, root := range order.Lines {
		if depth := root.Depth(); depth > uc.cfg.MaxDepth {
			return domcosting.OrderContext{}, fmt.Errorf("%w: profundidad de kit %d supera el máximo %d",
				domain.ErrInvalidInput, depth, uc.cfg.MaxDepth)
		}
	}
	oc, err := uc.calc.NewOrderContext(ctx, order, company)
	if err != nil {
		return domcosting.OrderContext{}, err
	}
	total := decimal.Zero
	for _, root := range order.Lines {
		if err := uc.calc.ComputeTotalCost(ctx, oc, root); err != nil {
			return domcosting.OrderContext{}, err
		}
		total = total.Add(root.CostTotal)
	}
	order.TotalCost = total
	return oc, nil
}

func (uc *CostUseCase) loadOrder(ctx context.Context, companyID, orderID string) (*entity.SaleOrder, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("obtener pedido: %w", err)
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (uc *CostUseCase) loadCompany(ctx context.Context, companyID string) (*entity.Company, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa: %w", err)
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// validateLines verifica cantidades, productos de la empresa y profundidad del árbol.
func (uc *CostUseCase) validateLines(ctx context.Context, companyID string, lines []dto.SaleOrderLineRequest, depth int) error {
	if depth > uc.cfg.MaxDepth {
		return fmt.Errorf("%w: profundidad de kit supera el máximo %d", domain.ErrInvalidInput, uc.cfg.MaxDepth)
	}
	for _, l := range lines {
		if !l.Quantity.IsPositive() {
			return fmt.Errorf("%w: cantidad %s", domain.ErrInvalidQuantity, l.Quantity.String())
		}
		if l.Price.IsNegative() || l.DiscountRate.IsNegative() || l.DiscountRate.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: precio o descuento inválido", domain.ErrInvalidInput)
		}
		if l.ProductID != nil && *l.ProductID != "" {
			p, err := uc.productRepo.GetByID(ctx, *l.ProductID)
			if err != nil {
				return fmt.Errorf("obtener producto: %w", err)
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, *l.ProductID)
			}
			if p.CompanyID != companyID {
				pc, err := uc.productRepo.GetCompanyCost(ctx, p.ID, companyID)
				if err != nil {
					return fmt.Errorf("obtener costo por empresa: %w", err)
				}
				if pc == nil {
					return domain.ErrForbidden
				}
			}
		}
		if err := uc.validateLines(ctx, companyID, l.SubLines, depth+1); err != nil {
			return err
		}
	}
	return nil
}
