package costing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	domcosting "github.com/jhoicas/Ventas-api/internal/domain/costing"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var _ domcosting.CurrencyConverter = (*RateConverter)(nil)

// RateConverter convierte montos con la tabla currency_rates.
// Usa la tasa directa más reciente a la fecha; si no existe, la inversa.
type RateConverter struct {
	rates       repository.CurrencyRateRepository
	amountScale int32
}

// NewRateConverter construye el conversor. amountScale es el número de decimales del resultado.
func NewRateConverter(rates repository.CurrencyRateRepository, amountScale int32) *RateConverter {
	return &RateConverter{rates: rates, amountScale: amountScale}
}

// Convert es identidad cuando from == to o el monto es cero. Errores envuelven domain.ErrCurrencyConversion.
func (c *RateConverter) Convert(ctx context.Context, from, to string, amount decimal.Decimal, date time.Time) (decimal.Decimal, error) {
	if from == to || amount.IsZero() {
		return amount, nil
	}
	if err := ValidateCurrency(from); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", domain.ErrCurrencyConversion, err)
	}
	if err := ValidateCurrency(to); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", domain.ErrCurrencyConversion, err)
	}

	direct, err := c.rates.FindLatest(ctx, from, to, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: tasa %s→%s: %w", domain.ErrCurrencyConversion, from, to, err)
	}
	if direct != nil && direct.Rate.IsPositive() {
		return amount.Mul(direct.Rate).Round(c.amountScale), nil
	}

	inverse, err := c.rates.FindLatest(ctx, to, from, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: tasa %s→%s: %w", domain.ErrCurrencyConversion, to, from, err)
	}
	if inverse != nil && inverse.Rate.IsPositive() {
		return amount.DivRound(inverse.Rate, c.amountScale), nil
	}

	return decimal.Zero, fmt.Errorf("%w: sin tasa %s→%s al %s",
		domain.ErrCurrencyConversion, from, to, date.Format("2006-01-02"))
}

// ValidateCurrency verifica que code sea un código ISO 4217 reconocido (ej. COP, USD).
func ValidateCurrency(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("%w: moneda %q", domain.ErrInvalidInput, code)
	}
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("%w: moneda %q", domain.ErrInvalidInput, code)
	}
	return nil
}
