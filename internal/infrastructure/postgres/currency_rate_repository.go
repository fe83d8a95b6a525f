package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

var _ repository.CurrencyRateRepository = (*CurrencyRateRepo)(nil)

const currencyRateColumns = `id, from_currency, to_currency, rate, date, created_at`

// CurrencyRateRepo tasas de cambio sobre PostgreSQL.
type CurrencyRateRepo struct {
	q Querier
}

// NewCurrencyRateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCurrencyRateRepository(q Querier) *CurrencyRateRepo {
	return &CurrencyRateRepo{q: q}
}

// Create persiste una tasa. Una segunda tasa para el mismo par y fecha es ErrDuplicate.
func (r *CurrencyRateRepo) Create(ctx context.Context, rate *entity.CurrencyRate) error {
	_, err := r.q.Exec(ctx, `INSERT INTO currency_rates (`+currencyRateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rate.ID, rate.FromCurrency, rate.ToCurrency, rate.Rate, rate.Date, rate.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert currency rate: %w", err)
	}
	return nil
}

// FindLatest devuelve la tasa from→to más reciente con fecha <= date.
func (r *CurrencyRateRepo) FindLatest(ctx context.Context, from, to string, date time.Time) (*entity.CurrencyRate, error) {
	rate, err := scanCurrencyRate(r.q.QueryRow(ctx, `
		SELECT `+currencyRateColumns+`
		FROM currency_rates
		WHERE from_currency = $1 AND to_currency = $2 AND date <= $3
		ORDER BY date DESC
		LIMIT 1`, from, to, date))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find currency rate %s/%s: %w", from, to, err)
	}
	return rate, nil
}

// List lista tasas, más recientes primero; from/to vacíos no filtran.
func (r *CurrencyRateRepo) List(ctx context.Context, from, to string, limit, offset int) ([]*entity.CurrencyRate, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+currencyRateColumns+`
		FROM currency_rates
		WHERE ($1::text = '' OR from_currency = $1) AND ($2::text = '' OR to_currency = $2)
		ORDER BY date DESC, from_currency, to_currency
		LIMIT $3 OFFSET $4`, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list currency rates: %w", err)
	}
	defer rows.Close()

	var list []*entity.CurrencyRate
	for rows.Next() {
		rate, err := scanCurrencyRate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan currency rate: %w", err)
		}
		list = append(list, rate)
	}
	return list, rows.Err()
}

func scanCurrencyRate(row rowScanner) (*entity.CurrencyRate, error) {
	var c entity.CurrencyRate
	if err := row.Scan(&c.ID, &c.FromCurrency, &c.ToCurrency, &c.Rate, &c.Date, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
