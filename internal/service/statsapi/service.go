package statsapi

import (
	"context"
	"fmt"
	"time"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	trendMonths         = 6
	recentDocumentLimit = 10
	recurringMinDocs    = 2
)

var documentTypeNames = map[string]string{
	"01": "Factura",
	"03": "Comprobante de Crédito Fiscal",
	"04": "Nota de Remisión",
	"05": "Nota de Crédito",
	"06": "Nota de Débito",
	"07": "Comprobante de Retención",
	"08": "Comprobante de Liquidación",
	"09": "Documento Contable de Liquidación",
	"11": "Factura de Exportación",
	"14": "Factura de Sujeto Excluido",
	"15": "Comprobante de Donación",
}

// DocumentTypeName maps a DTE code to its readable name, "Tipo NN" when unknown
func DocumentTypeName(code string) string {
	if name, ok := documentTypeNames[code]; ok {
		return name
	}
	return "Tipo " + code
}

type StatsServiceImpl struct {
	repo dashboard.StatsRepository
	now  func() time.Time
}

func NewStatsService(repo dashboard.StatsRepository) dashboard.StatsService {
	return &StatsServiceImpl{repo: repo, now: time.Now}
}

// GetDashboardStats runs the aggregate queries in parallel and shapes the payload
func (s *StatsServiceImpl) GetDashboardStats(ctx context.Context) (*dashboard.StatsResponse, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)
	trendSince := now.AddDate(0, -trendMonths, 0)

	var (
		totals       *dashboard.DocumentTotals
		byType       []dashboard.TypeCountRow
		currentMonth decimal.Decimal
		recurring    int64
		monthly      []dashboard.MonthlyTotalRow
		recent       []dashboard.DocumentRow
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		totals, err = s.repo.GetTotals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		byType, err = s.repo.GetCountsByType(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		currentMonth, err = s.repo.GetAmountBetween(gctx, monthStart, nextMonth)
		return err
	})
	g.Go(func() error {
		var err error
		recurring, err = s.repo.GetRecurringIssuerCount(gctx, recurringMinDocs)
		return err
	})
	g.Go(func() error {
		var err error
		monthly, err = s.repo.GetMonthlyTotals(gctx, trendSince)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.repo.GetRecentDocuments(gctx, recentDocumentLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate dashboard stats: %w", err)
	}

	resp := &dashboard.StatsResponse{
		Success:            true,
		TotalAmount:        totals.Amount.InexactFloat64(),
		TotalDocs:          totals.Count,
		RecurringCount:     recurring,
		CurrentMonthAmount: currentMonth.InexactFloat64(),
		ByType:             make([]dashboard.TypeCount, 0, len(byType)),
		Trends:             make([]dashboard.MonthlyTotal, 0, len(monthly)),
		RecentActivity:     make([]dashboard.ActivityItem, 0, len(recent)),
	}

	for _, row := range byType {
		resp.ByType = append(resp.ByType, dashboard.TypeCount{
			Tipo:  DocumentTypeName(row.TipoDTE),
			Count: row.Count,
		})
	}
	for _, row := range monthly {
		resp.Trends = append(resp.Trends, dashboard.MonthlyTotal{
			Month: row.Month,
			Total: row.Total.StringFixed(2),
		})
	}
	for _, row := range recent {
		item := dashboard.ActivityItem{
			Tipo:             DocumentTypeName(row.TipoDTE),
			CodigoGeneracion: row.CodigoGeneracion,
			NombreEmisor:     row.NombreEmisor,
			TotalPagar:       row.TotalPagar.InexactFloat64(),
		}
		if row.FechaEmision != nil {
			item.FechaEmision = row.FechaEmision.Format("2006-01-02")
		}
		resp.RecentActivity = append(resp.RecentActivity, item)
	}

	return resp, nil
}
