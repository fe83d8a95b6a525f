package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// CurrencyRateRepository puerto de persistencia de tasas de cambio.
type CurrencyRateRepository interface {
	Create(ctx context.Context, rate *entity.CurrencyRate) error
	// FindLatest devuelve la tasa from→to más reciente con fecha <= date, o (nil, nil) si no hay.
	FindLatest(ctx context.Context, from, to string, date time.Time) (*entity.CurrencyRate, error)
	List(ctx context.Context, from, to string, limit, offset int) ([]*entity.CurrencyRate, error)
}
