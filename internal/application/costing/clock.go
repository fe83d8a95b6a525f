package costing

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata" // zonas horarias embebidas para contenedores sin tzdata

	domcosting "github.com/jhoicas/Ventas-api/internal/domain/costing"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

var _ domcosting.DateProvider = (*CompanyClock)(nil)

// CompanyClock devuelve la fecha de hoy en la zona horaria de la empresa.
type CompanyClock struct {
	defaultTZ string
	now       func() time.Time
}

// NewCompanyClock construye el reloj. now nil = time.Now.
func NewCompanyClock(defaultTZ string, now func() time.Time) *CompanyClock {
	if now == nil {
		now = time.Now
	}
	return &CompanyClock{defaultTZ: defaultTZ, now: now}
}

// Today devuelve la medianoche del día actual en la zona de la empresa.
func (c *CompanyClock) Today(_ context.Context, company *entity.Company) (time.Time, error) {
	tz := c.defaultTZ
	if company != nil && company.Timezone != "" {
		tz = company.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("zona horaria %q: %w", tz, err)
	}
	now := c.now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc), nil
}
