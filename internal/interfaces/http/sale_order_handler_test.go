package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcosting "github.com/jhoicas/Ventas-api/internal/application/costing"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/saleorder"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	domcosting "github.com/jhoicas/Ventas-api/internal/domain/costing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memOrders struct {
	orders map[string]*entity.SaleOrder
}

func (m *memOrders) Create(_ context.Context, o *entity.SaleOrder) error {
	m.orders[o.ID] = o
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (*entity.SaleOrder, error) {
	return m.orders[id], nil
}

func (m *memOrders) UpdateLineCost(context.Context, *entity.SaleOrderLine) error { return nil }

func (m *memOrders) UpdateTotalCost(context.Context, string, decimal.Decimal) error { return nil }

type memTx struct{ repo *memOrders }

func (t *memTx) RunSaleOrder(_ context.Context, fn func(repository.SaleOrderRepository) error) error {
	return fn(t.repo)
}

type memCompanies struct{ items map[string]*entity.Company }

func (m *memCompanies) Create(_ context.Context, c *entity.Company) error {
	m.items[c.ID] = c
	return nil
}

func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m.items[id], nil
}

func (m *memCompanies) GetByNIT(context.Context, string) (*entity.Company, error) { return nil, nil }

func (m *memCompanies) List(context.Context, int, int) ([]*entity.Company, error) { return nil, nil }

type memProducts struct{ items map[string]*entity.Product }

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	m.items[p.ID] = p
	return nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return m.items[id], nil
}

func (m *memProducts) GetByCompanyAndSKU(context.Context, string, string) (*entity.Product, error) {
	return nil, nil
}

func (m *memProducts) ListByCompany(context.Context, string, int, int) ([]*entity.Product, error) {
	return nil, nil
}

func (m *memProducts) GetCompanyCost(context.Context, string, string) (*entity.ProductCompany, error) {
	return nil, nil
}

func (m *memProducts) UpsertCompanyCost(context.Context, *entity.ProductCompany) error { return nil }

type memRates struct{ items []*entity.CurrencyRate }

func (m *memRates) Create(_ context.Context, r *entity.CurrencyRate) error {
	m.items = append(m.items, r)
	return nil
}

func (m *memRates) FindLatest(_ context.Context, from, to string, date time.Time) (*entity.CurrencyRate, error) {
	for _, r := range m.items {
		if r.FromCurrency == from && r.ToCurrency == to && !r.Date.After(date) {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memRates) List(context.Context, string, string, int, int) ([]*entity.CurrencyRate, error) {
	return m.items, nil
}

type noScale struct{}

func (noScale) GetNbDecimalDigitForUnitPrice(context.Context) (*int32, error) { return nil, nil }

type stubSheet struct{}

func (stubSheet) GenerateCostSheet(context.Context, *entity.SaleOrder, *entity.Company, map[string]*entity.Product) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// App de prueba
// ──────────────────────────────────────────────────────────────────────────────

func buildSalesApp(t *testing.T) *fiber.App {
	t.Helper()
	companies := &memCompanies{items: map[string]*entity.Company{
		testCompanyID: {ID: testCompanyID, Name: "Acme", Currency: "COP", Timezone: "UTC"},
	}}
	products := &memProducts{items: map[string]*entity.Product{
		"p1": {ID: "p1", CompanyID: testCompanyID, SKU: "TOR", Cost: decimal.NewFromInt(10)},
		"p2": {ID: "p2", CompanyID: testCompanyID, SKU: "TUE", Cost: decimal.NewFromInt(15)},
	}}
	rates := &memRates{}
	orders := &memOrders{orders: map[string]*entity.SaleOrder{}}
	now := func() time.Time { return time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC) }

	costs := appcosting.NewProductCompanyCostLookup(products)
	converter := appcosting.NewRateConverter(rates, 2)
	scales := appcosting.NewAppSaleScaleProvider(noScale{}, 2)
	clock := appcosting.NewCompanyClock("UTC", now)
	filler := appcosting.NewCostPriceFiller(companies, costs, converter, scales, clock)
	calc := domcosting.NewCostRollupCalculator(costs, converter, scales, clock, filler)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CompanyUC:      usecase.NewCompanyUseCase(companies),
		ProductUC:      usecase.NewProductUseCase(products),
		CurrencyRateUC: usecase.NewCurrencyRateUseCase(rates),
		SaleOrderUC: saleorder.NewCostUseCase(&memTx{repo: orders}, orders, companies, products, calc,
			stubSheet{}, logger.Nop(), saleorder.Config{MaxDepth: 4}),
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func kitBody() map[string]any {
	return map[string]any{
		"reference": "SO-9",
		"currency":  "COP",
		"lines": []map[string]any{{
			"description": "Kit",
			"quantity":    "5",
			"price":       "40",
			"sub_lines": []map[string]any{
				{"product_id": "p1", "quantity": "3", "price": "12"},
				{"product_id": "p2", "quantity": "3", "price": "20"},
			},
		}},
	}
}

func createOrder(t *testing.T, app *fiber.App) dto.SaleOrderResponse {
	t.Helper()
	resp := call(t, app, http.MethodPost, "/api/sale-orders", "vendedor", kitBody())
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out dto.SaleOrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestSaleOrder_ComputeCost_DevuelveArbolCosteado(t *testing.T) {
	app := buildSalesApp(t)
	created := createOrder(t, app)

	resp := call(t, app, http.MethodPost, "/api/sale-orders/"+created.ID+"/compute-cost", "vendedor", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.SaleOrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Lines, 1)
	assert.True(t, decimal.RequireFromString("75").Equal(out.Lines[0].CostTotal))
	assert.True(t, decimal.RequireFromString("15").Equal(out.Lines[0].CostPrice))
	assert.True(t, decimal.RequireFromString("75").Equal(out.TotalCost))
}

func TestSaleOrder_ComputeCost_AuditorNoPuedeEscribir(t *testing.T) {
	app := buildSalesApp(t)
	created := createOrder(t, app)

	resp := call(t, app, http.MethodPost, "/api/sale-orders/"+created.ID+"/compute-cost", "auditor", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestSaleOrder_ComputeCost_PedidoInexistente(t *testing.T) {
	app := buildSalesApp(t)

	resp := call(t, app, http.MethodPost, "/api/sale-orders/nope/compute-cost", "admin", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "NOT_FOUND")
}

func TestSaleOrder_Create_CantidadCero(t *testing.T) {
	app := buildSalesApp(t)
	body := kitBody()
	body["lines"].([]map[string]any)[0]["quantity"] = "0"

	resp := call(t, app, http.MethodPost, "/api/sale-orders", "vendedor", body)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "INVALID_QUANTITY")
}

func TestCostingPreview_SinTasa_Retorna422(t *testing.T) {
	app := buildSalesApp(t)
	body := kitBody()
	body["currency"] = "USD"

	resp := call(t, app, http.MethodPost, "/api/costing/preview", "auditor", body)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "MISSING_RATE")
}

func TestCostingPreview_ConTasa(t *testing.T) {
	app := buildSalesApp(t)

	rate := call(t, app, http.MethodPost, "/api/currency-rates", "admin", map[string]any{
		"from_currency": "cop", "to_currency": "usd", "rate": "0.25", "date": "2025-03-01",
	})
	rate.Body.Close()
	require.Equal(t, http.StatusCreated, rate.StatusCode)

	body := kitBody()
	body["currency"] = "USD"
	resp := call(t, app, http.MethodPost, "/api/costing/preview", "auditor", body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.CostPreviewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "2025-04-01", out.ConversionDate)
	// 10 COP → 2.50 USD y 15 COP → 3.75 USD; kit = 3×2.50 + 3×3.75 = 18.75
	assert.True(t, decimal.RequireFromString("18.75").Equal(out.TotalCost), "total %s", out.TotalCost)
}

func TestSaleOrder_CostSheet_EntregaPDF(t *testing.T) {
	app := buildSalesApp(t)
	created := createOrder(t, app)

	resp := call(t, app, http.MethodGet, "/api/sale-orders/"+created.ID+"/cost-sheet", "auditor", nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "costos-SO-9.pdf")
}

func TestSaleOrder_LineCostPrice(t *testing.T) {
	app := buildSalesApp(t)
	created := createOrder(t, app)
	leaf := created.Lines[0].SubLines[0]

	resp := call(t, app, http.MethodGet,
		"/api/sale-orders/"+created.ID+"/lines/"+leaf.ID+"/cost-price", "vendedor", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.LineCostPriceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, leaf.ID, out.LineID)
	assert.Contains(t, out.Fields, appcosting.FieldCostPrice)
	assert.Contains(t, out.Fields, appcosting.FieldSubTotalCostPrice)
}

func TestSaleOrder_SinToken_Retorna401(t *testing.T) {
	app := buildSalesApp(t)

	resp := call(t, app, http.MethodGet, "/api/sale-orders/x", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
