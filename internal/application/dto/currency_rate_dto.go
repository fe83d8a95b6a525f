package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCurrencyRateRequest registra una tasa: 1 from_currency = rate to_currency desde date (YYYY-MM-DD).
type CreateCurrencyRateRequest struct {
	FromCurrency string          `json:"from_currency" validate:"required,len=3"`
	ToCurrency   string          `json:"to_currency" validate:"required,len=3"`
	Rate         decimal.Decimal `json:"rate"`
	Date         string          `json:"date" validate:"required"`
}

// CurrencyRateResponse salida de una tasa de cambio.
type CurrencyRateResponse struct {
	ID           string          `json:"id"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
	Date         string          `json:"date"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CurrencyRateListResponse lista paginada de tasas.
type CurrencyRateListResponse struct {
	Items []CurrencyRateResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
