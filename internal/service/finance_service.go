package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/fleet-collections/internal/model"
)

type OverviewExcelGenerator interface {
	Generate(overview model.FinanceOverview) ([]byte, error)
}

// FinanceService aggregates finalized collection revenue across clients.
type FinanceService struct {
	clients ClientStore
	excel   OverviewExcelGenerator
	log     zerolog.Logger
}

func NewFinanceService(clients ClientStore, excel OverviewExcelGenerator, log zerolog.Logger) *FinanceService {
	return &FinanceService{clients: clients, excel: excel, log: log}
}

// Overview returns per-client revenue for the period. Admin only.
func (s *FinanceService) Overview(
	ctx context.Context,
	principal model.Principal,
	from, to time.Time,
) (*model.FinanceOverview, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if from.IsZero() || to.IsZero() {
		return nil, fmt.Errorf("%w: period dates are required", ErrInvalidInput)
	}

	periodStart := dateOnly(from)
	periodEnd := dateOnly(to)
	if periodStart.After(periodEnd) {
		return nil, fmt.Errorf("%w: period_start must be before or equal to period_end", ErrInvalidInput)
	}
	endExclusive := periodEnd.Add(24 * time.Hour)

	rows, err := s.clients.RevenueByClient(ctx, periodStart, endExclusive)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, row := range rows {
		total += row.TotalRevenue
	}

	return &model.FinanceOverview{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Rows:        rows,
		Total:       total,
	}, nil
}

// ExportOverview renders the overview as an XLSX workbook.
func (s *FinanceService) ExportOverview(
	ctx context.Context,
	principal model.Principal,
	from, to time.Time,
) (*ExportResult, error) {
	overview, err := s.Overview(ctx, principal, from, to)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(*overview)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf(
		"financeiro-%s-%s.xlsx",
		overview.PeriodStart.Format("20060102"),
		overview.PeriodEnd.Format("20060102"),
	)
	return &ExportResult{FileName: fileName, Content: content}, nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
