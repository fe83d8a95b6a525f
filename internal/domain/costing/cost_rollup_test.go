package costing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/costing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de colaboradores
// ──────────────────────────────────────────────────────────────────────────────

type fakeCosts struct {
	costs map[string]decimal.Decimal
	calls []string
	err   error
}

func (f *fakeCosts) CostPrice(_ context.Context, productID string, _ *entity.Company) (decimal.Decimal, error) {
	f.calls = append(f.calls, productID)
	if f.err != nil {
		return decimal.Zero, f.err
	}
	c, ok := f.costs[productID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: producto %s", domain.ErrCostLookup, productID)
	}
	return c, nil
}

type conversionCall struct {
	from, to string
	amount   decimal.Decimal
	date     time.Time
}

type fakeConverter struct {
	rates map[string]decimal.Decimal // "FROM>TO"
	calls []conversionCall
	err   error
}

func (f *fakeConverter) Convert(_ context.Context, from, to string, amount decimal.Decimal, date time.Time) (decimal.Decimal, error) {
	f.calls = append(f.calls, conversionCall{from: from, to: to, amount: amount, date: date})
	if f.err != nil {
		return decimal.Zero, f.err
	}
	if from == to {
		return amount, nil
	}
	rate, ok := f.rates[from+">"+to]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s→%s", domain.ErrCurrencyConversion, from, to)
	}
	return amount.Mul(rate), nil
}

type fakeScale struct {
	scale int32
	calls int
}

func (f *fakeScale) UnitPriceScale(context.Context) (int32, error) {
	f.calls++
	return f.scale, nil
}

type fakeDates struct{ today time.Time }

func (f fakeDates) Today(context.Context, *entity.Company) (time.Time, error) { return f.today, nil }

type fakeFiller struct {
	out     map[string]any
	order   *entity.SaleOrder
	line    *entity.SaleOrderLine
	product *entity.Product
}

func (f *fakeFiller) FillCostPrice(_ context.Context, order *entity.SaleOrder, line *entity.SaleOrderLine, product *entity.Product) (map[string]any, error) {
	f.order, f.line, f.product = order, line, product
	return f.out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var conversionDate = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

type fixture struct {
	costs     *fakeCosts
	converter *fakeConverter
	scale     *fakeScale
	filler    *fakeFiller
	calc      *costing.CostRollupCalculator
	oc        costing.OrderContext
}

func newFixture(costs map[string]decimal.Decimal) *fixture {
	f := &fixture{
		costs:     &fakeCosts{costs: costs},
		converter: &fakeConverter{rates: map[string]decimal.Decimal{}},
		scale:     &fakeScale{scale: 2},
		filler:    &fakeFiller{},
	}
	f.calc = costing.NewCostRollupCalculator(f.costs, f.converter, f.scale, fakeDates{today: conversionDate}, f.filler)
	f.oc = costing.OrderContext{
		Currency:       "COP",
		Company:        &entity.Company{ID: "c1", Currency: "COP"},
		ConversionDate: conversionDate,
	}
	return f
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(s string) *string { return &s }

func leaf(id, productID, qty string) *entity.SaleOrderLine {
	l := &entity.SaleOrderLine{ID: id, Quantity: d(qty)}
	if productID != "" {
		l.ProductID = ptr(productID)
	}
	return l
}

func kit(id, qty string, subs ...*entity.SaleOrderLine) *entity.SaleOrderLine {
	return &entity.SaleOrderLine{ID: id, Quantity: d(qty), SubLines: subs}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%s: esperado %s, obtenido %s", msg, want, got.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas hoja
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotalCost_HojaMismaMoneda(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"p1": d("10.00")})
	line := leaf("l1", "p1", "3")

	require.NoError(t, f.calc.ComputeTotalCost(context.Background(), f.oc, line))

	assertDecimal(t, "30.00", line.CostTotal, "costTotal")
	assertDecimal(t, "10.00", line.CostPrice, "costPrice")
}

func TestComputeTotalCost_HojaSinProducto_CostoCero(t *testing.T) {
	f := newFixture(nil)
	line := leaf("l1", "", "7")
	line.CostPrice = d("99")
	line.CostTotal = d("99")

	require.NoError(t, f.calc.ComputeTotalCost(context.Background(), f.oc, line))

	assert.True(t, line.CostPrice.IsZero(), "costPrice debe ser 0")
	assert.True(t, line.CostTotal.IsZero(), "costTotal debe ser 0")
	assert.Empty(t, f.costs.calls, "no se consulta costo sin producto")
	assert.Empty(t, f.converter.calls, "no se convierte moneda sin producto")
}

func TestComputeTotalCost_HojaConvierteMoneda(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"p1": d("40000")})
	f.oc.Currency = "USD"
	f.converter.rates["COP>USD"] = d("0.00025")
	line := leaf("l1", "p1", "3")

	require.NoError(t, f.calc.ComputeTotalCost(context.Background(), f.oc, line))

	assertDecimal(t, "30.00", line.CostTotal, "costTotal")
	assertDecimal(t, "10.00", line.CostPrice, "costPrice")
	require.Len(t, f.converter.calls, 1)
	call := f.converter.calls[0]
	assert.Equal(t, "COP", call.from)
	assert.Equal(t, "USD", call.to)
	assert.True(t, call.date.Equal(conversionDate), "la conversión usa la fecha del contexto")
}

func TestComputeTotalCost_ConvierteAunConMismaMoneda(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"p1": d("10")})

	require.NoError(t, f.calc.ComputeTotalCost(context.Background(), f.oc, leaf("l1", "p1", "1")))

	require.Len(t, f.converter.calls, 1, "la conversión se invoca siempre")
	assert.Equal(t, f.converter.calls[0].from, f.converter.calls[0].to)
}

func TestComputeTotalCost_RedondeoHalfUp(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"p1": d("3.335"), "p2": d("0.025")})

	l1 := leaf("l1", "p1", "1")
	require.NoError(t, f.calc.ComputeTotalCost(context.Background(), f.oc, l1))
	assertDecimal(t, "3.34", l1.CostTotal, "subtotal redondeado hacia arriba")
	assertDecimal(t, "3.34", l1.CostPrice, "costo unitario")

	// 0.025 × 2 = 0.05; 0.05 / 4 = 0.0125 → 0.01
	parent := kit("k", "4", leaf("l2", "p2", "2"))
	require.NoError(t, f.calc.ComputeTotalCost(context.Background(), f.oc, parent))
	assertDecimal(t, "0.05", parent.CostTotal, "total del kit")
	assertDecimal(t, "0.01", parent.CostPrice, "unitario del kit")
}

func TestComputeTotalCost_DivisionRedondeaEscala(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"p1": d("10")})
	parent := kit("k", "3", leaf("l1", "p1", "1"))

	require.NoError(t, f.calc.ComputeTotalCost(context.Background(), f.oc, parent))

	assertDecimal(t, "10", parent.CostTotal, "total")
	assertDecimal(t, "3.33", parent.CostPrice, "10 / 3 a 2 decimales")
}

// ──────────────────────────────────────────────────────────────────────────────
// Líneas compuestas
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotalCost_KitSumaHijas(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"p1": d("10.00"), "p2": d("15.00")})
	parent := kit("k", "5", leaf("l1", "p1", "3"), leaf("l2", "p2", "3"))
	parent.ProductID = ptr("p-kit") // el producto propio del kit no se costea

	require.NoError(t, f.calc.ComputeTotalCost(context.Background(), f.oc, parent))

	assertDecimal(t, "30.00", parent.SubLines[0].CostTotal, "hija 1")
	assertDecimal(t, "45.00", parent.SubLines[1].CostTotal, "hija 2")
	assertDecimal(t, "75.00", parent.CostTotal, "total del kit")
	assertDecimal(t, "15.00", parent.CostPrice, "unitario del kit")
	assert.Equal(t, []string{"p1", "p2"}, f.costs.calls, "hijas en orden, sin consultar el producto del kit")
}

func TestComputeTotalCost_ArbolTresNiveles(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"a": d("1.50"), "b": d("2.25"), "c": d("4")})
	inner := kit("inner", "2", leaf("la", "a", "4"), leaf("lb", "b", "2"))
	root := kit("root", "1", inner, leaf("lc", "c", "3"), leaf("empty", "", "1"))

	require.NoError(t, f.calc.ComputeTotalCost(context.Background(), f.oc, root))

	assertDecimal(t, "6.00", inner.SubLines[0].CostTotal, "la")
	assertDecimal(t, "4.50", inner.SubLines[1].CostTotal, "lb")
	assertDecimal(t, "10.50", inner.CostTotal, "inner = la + lb")
	assertDecimal(t, "5.25", inner.CostPrice, "inner unitario")
	assertDecimal(t, "22.50", root.CostTotal, "root = suma de hojas")
	assertDecimal(t, "22.50", root.CostPrice, "root unitario")

	var leaves decimal.Decimal
	root.Walk(func(l *entity.SaleOrderLine, _ int) {
		if l.IsLeaf() {
			leaves = leaves.Add(l.CostTotal)
		}
	})
	assertDecimal(t, root.CostTotal.String(), leaves, "total raíz = suma de hojas descendientes")
	assert.Len(t, f.converter.calls, 3, "una conversión por hoja con producto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotalCost_CantidadCero(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"p1": d("10")})
	line := leaf("l1", "p1", "0")

	err := f.calc.ComputeTotalCost(context.Background(), f.oc, line)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidQuantity))
	var qErr *domain.InvalidQuantityError
	require.True(t, errors.As(err, &qErr))
	assert.Equal(t, "l1", qErr.LineID)
}

func TestComputeTotalCost_CantidadNegativaEnKit(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"p1": d("10")})
	parent := kit("k", "-1", leaf("l1", "p1", "2"))

	err := f.calc.ComputeTotalCost(context.Background(), f.oc, parent)

	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assertDecimal(t, "20", parent.SubLines[0].CostTotal, "la hija ya visitada conserva su cálculo")
}

func TestComputeTotalCost_ErrorDetieneRecorrido(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"p1": d("10"), "p2": d("20")})
	bad := leaf("bad", "p1", "0")
	next := leaf("next", "p2", "1")
	next.CostTotal = d("99")
	root := kit("root", "1", bad, next)

	err := f.calc.ComputeTotalCost(context.Background(), f.oc, root)

	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assertDecimal(t, "99", next.CostTotal, "la hermana posterior no se procesa")
	assert.Equal(t, []string{"p1"}, f.costs.calls)
}

func TestComputeTotalCost_PropagaErrorDeCosto(t *testing.T) {
	f := newFixture(nil)
	lookupErr := fmt.Errorf("%w: sin costo", domain.ErrCostLookup)
	f.costs.err = lookupErr

	err := f.calc.ComputeTotalCost(context.Background(), f.oc, kit("k", "1", leaf("l1", "p1", "1")))

	assert.Same(t, lookupErr, err, "el error del colaborador se propaga sin cambios")
	assert.ErrorIs(t, err, domain.ErrCostLookup)
	assert.Empty(t, f.converter.calls)
}

func TestComputeTotalCost_PropagaErrorDeConversion(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"p1": d("10")})
	f.oc.Currency = "EUR"

	err := f.calc.ComputeTotalCost(context.Background(), f.oc, leaf("l1", "p1", "1"))

	assert.ErrorIs(t, err, domain.ErrCurrencyConversion)
	assert.NotErrorIs(t, err, domain.ErrCostLookup)
}

func TestComputeTotalCost_LineaNil(t *testing.T) {
	f := newFixture(nil)
	assert.ErrorIs(t, f.calc.ComputeTotalCost(context.Background(), f.oc, nil), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escala y contexto
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotalCost_EscalaSeConsultaEnCadaCalculo(t *testing.T) {
	f := newFixture(map[string]decimal.Decimal{"p1": d("1.25")})
	line := leaf("l1", "p1", "1")

	require.NoError(t, f.calc.ComputeTotalCost(context.Background(), f.oc, line))
	assertDecimal(t, "1.25", line.CostTotal, "escala 2")
	callsBefore := f.scale.calls

	f.scale.scale = 1
	require.NoError(t, f.calc.ComputeTotalCost(context.Background(), f.oc, line))
	assertDecimal(t, "1.3", line.CostTotal, "escala 1 tomada en vivo")
	assert.Greater(t, f.scale.calls, callsBefore)
}

func TestNewOrderContext_UsaFechaDeLaEmpresa(t *testing.T) {
	f := newFixture(nil)
	company := &entity.Company{ID: "c1", Currency: "COP"}
	order := &entity.SaleOrder{ID: "o1", Currency: "USD"}

	oc, err := f.calc.NewOrderContext(context.Background(), order, company)

	require.NoError(t, err)
	assert.Equal(t, "USD", oc.Currency)
	assert.Same(t, company, oc.Company)
	assert.True(t, oc.ConversionDate.Equal(conversionDate))

	_, err = f.calc.NewOrderContext(context.Background(), nil, company)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComputeSubTotalCostPrice_Delega(t *testing.T) {
	f := newFixture(nil)
	want := map[string]any{"subTotalCostPrice": d("12.00")}
	f.filler.out = want
	order := &entity.SaleOrder{ID: "o1"}
	line := leaf("l1", "p1", "1")
	product := &entity.Product{ID: "p1"}

	got, err := f.calc.ComputeSubTotalCostPrice(context.Background(), order, line, product)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Same(t, order, f.filler.order)
	assert.Same(t, line, f.filler.line)
	assert.Same(t, product, f.filler.product)
}
