package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyRate tasa de cambio vigente desde Date: 1 FromCurrency = Rate ToCurrency.
type CurrencyRate struct {
	ID           string
	FromCurrency string
	ToCurrency   string
	Rate         decimal.Decimal
	Date         time.Time
	CreatedAt    time.Time
}
