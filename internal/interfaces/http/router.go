package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/saleorder"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC      *usecase.CompanyUseCase
	ProductUC      *usecase.ProductUseCase
	CurrencyRateUC *usecase.CurrencyRateUseCase
	SaleOrderUC    *saleorder.CostUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Companies (público: alta inicial del tenant)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleVendedor)
	readers := RequireRole(jwt.RoleAdmin, jwt.RoleVendedor, jwt.RoleAuditor)

	protected.Get("/companies", RequireRole(jwt.RoleAdmin), companyHandler.List)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", writers, productHandler.Create)
	products.Get("/", readers, productHandler.List)
	products.Get("/:id", readers, productHandler.GetByID)
	products.Put("/:id/company-cost", RequireRole(jwt.RoleAdmin), productHandler.SetCompanyCost)

	rates := protected.Group("/currency-rates")
	rateHandler := NewCurrencyRateHandler(deps.CurrencyRateUC)
	rates.Post("/", RequireRole(jwt.RoleAdmin), rateHandler.Create)
	rates.Get("/", readers, rateHandler.List)

	orders := protected.Group("/sale-orders")
	orderHandler := NewSaleOrderHandler(deps.SaleOrderUC)
	orders.Post("/", writers, orderHandler.Create)
	orders.Get("/:id", readers, orderHandler.GetByID)
	orders.Post("/:id/compute-cost", writers, orderHandler.ComputeCost)
	orders.Get("/:id/lines/:lineId/cost-price", readers, orderHandler.LineCostPrice)
	orders.Get("/:id/cost-sheet", readers, orderHandler.CostSheet)

	costing := protected.Group("/costing")
	costing.Post("/preview", readers, orderHandler.Preview)
}
