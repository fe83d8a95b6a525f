package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Ventas-api/internal/application/costing"
	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// CurrencyRateUseCase registra y consulta tasas de cambio.
type CurrencyRateUseCase struct {
	repo repository.CurrencyRateRepository
}

// NewCurrencyRateUseCase construye el caso de uso.
func NewCurrencyRateUseCase(repo repository.CurrencyRateRepository) *CurrencyRateUseCase {
	return &CurrencyRateUseCase{repo: repo}
}

// Create registra una tasa vigente desde la fecha indicada.
func (uc *CurrencyRateUseCase) Create(ctx context.Context, in dto.CreateCurrencyRateRequest) (*dto.CurrencyRateResponse, error) {
	if err := costing.ValidateCurrency(in.FromCurrency); err != nil {
		return nil, err
	}
	if err := costing.ValidateCurrency(in.ToCurrency); err != nil {
		return nil, err
	}
	if in.FromCurrency == in.ToCurrency || !in.Rate.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q (YYYY-MM-DD)", domain.ErrInvalidInput, in.Date)
	}
	rate := &entity.CurrencyRate{
		ID:           uuid.New().String(),
		FromCurrency: in.FromCurrency,
		ToCurrency:   in.ToCurrency,
		Rate:         in.Rate,
		Date:         date,
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.Create(ctx, rate); err != nil {
		return nil, err
	}
	return toCurrencyRateResponse(rate), nil
}

// List lista tasas; from/to vacíos no filtran.
func (uc *CurrencyRateUseCase) List(ctx context.Context, from, to string, page dto.PageRequest) (*dto.CurrencyRateListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CurrencyRateResponse, 0, len(list))
	for _, r := range list {
		items = append(items, *toCurrencyRateResponse(r))
	}
	return &dto.CurrencyRateListResponse{
		Items: items,
		Page:  dto.PageOf(page, len(items)),
	}, nil
}

func toCurrencyRateResponse(r *entity.CurrencyRate) *dto.CurrencyRateResponse {
	return &dto.CurrencyRateResponse{
		ID:           r.ID,
		FromCurrency: r.FromCurrency,
		ToCurrency:   r.ToCurrency,
		Rate:         r.Rate,
		Date:         r.Date.Format(dateLayout),
		CreatedAt:    r.CreatedAt,
	}
}
