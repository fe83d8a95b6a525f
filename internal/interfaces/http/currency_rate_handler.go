package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
)

// CurrencyRateHandler tasas de cambio (protegido).
type CurrencyRateHandler struct {
	uc *usecase.CurrencyRateUseCase
}

// NewCurrencyRateHandler construye el handler.
func NewCurrencyRateHandler(uc *usecase.CurrencyRateUseCase) *CurrencyRateHandler {
	return &CurrencyRateHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar tasa de cambio
// @Tags         currency-rates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCurrencyRateRequest  true  "Tasa from→to vigente desde date"
// @Success      201   {object}  dto.CurrencyRateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/currency-rates [post]
func (h *CurrencyRateHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCurrencyRateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.FromCurrency = strings.ToUpper(strings.TrimSpace(in.FromCurrency))
	in.ToCurrency = strings.ToUpper(strings.TrimSpace(in.ToCurrency))
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar tasas de cambio
// @Tags         currency-rates
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Moneda origen"
// @Param        to      query  string  false  "Moneda destino"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.CurrencyRateListResponse
// @Router       /api/currency-rates [get]
func (h *CurrencyRateHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badQuery(c)
	}
	out, err := h.uc.List(c.UserContext(),
		strings.ToUpper(c.Query("from")), strings.ToUpper(c.Query("to")), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
