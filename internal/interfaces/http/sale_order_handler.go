package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/saleorder"
)

// SaleOrderHandler pedidos de venta y cálculo de costos (protegido).
type SaleOrderHandler struct {
	uc *saleorder.CostUseCase
}

// NewSaleOrderHandler construye el handler.
func NewSaleOrderHandler(uc *saleorder.CostUseCase) *SaleOrderHandler {
	return &SaleOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pedido de venta con árbol de líneas
// @Tags         sale-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.SaleOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/sale-orders [post]
func (h *SaleOrderHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return missingCompany(c)
	}
	var in dto.CreateSaleOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateOrder(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido de venta
// @Tags         sale-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.SaleOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id} [get]
func (h *SaleOrderHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return missingCompany(c)
	}
	out, err := h.uc.GetOrder(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ComputeCost godoc
// @Summary      Calcular y guardar el costo de todas las líneas del pedido
// @Description  Recorre cada árbol de líneas: las hojas se costean con su producto y los kits suman a sus hijas.
// @Tags         sale-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.SaleOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id}/compute-cost [post]
func (h *SaleOrderHandler) ComputeCost(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return missingCompany(c)
	}
	out, err := h.uc.ComputeCosts(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LineCostPrice godoc
// @Summary      Campos de costo y margen de una línea
// @Tags         sale-orders
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID del pedido"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      200     {object}  dto.LineCostPriceResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id}/lines/{lineId}/cost-price [get]
func (h *SaleOrderHandler) LineCostPrice(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return missingCompany(c)
	}
	out, err := h.uc.LineCostPrice(c.UserContext(), companyID, c.Params("id"), c.Params("lineId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CostSheet godoc
// @Summary      Descargar hoja de costos en PDF
// @Tags         sale-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/sale-orders/{id}/cost-sheet [get]
func (h *SaleOrderHandler) CostSheet(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return missingCompany(c)
	}
	pdfBytes, filename, err := h.uc.CostSheetPDF(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

// Preview godoc
// @Summary      Previsualizar costos de un árbol de líneas sin guardarlo
// @Tags         costing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CostPreviewRequest  true  "Moneda y líneas"
// @Success      200   {object}  dto.CostPreviewResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/costing/preview [post]
func (h *SaleOrderHandler) Preview(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return missingCompany(c)
	}
	var in dto.CostPreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PreviewCosts(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
