package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentTotals is the overall count and amount of stored documents
type DocumentTotals struct {
	Count  int64
	Amount decimal.Decimal
}

// TypeCountRow is a document count grouped by raw DTE code
type TypeCountRow struct {
	TipoDTE string
	Count   int64
}

// MonthlyTotalRow is the summed amount for one month
type MonthlyTotalRow struct {
	Month string // Format: "YYYY-MM"
	Total decimal.Decimal
}

// DocumentRow is one stored document as listed in recent activity
type DocumentRow struct {
	CodigoGeneracion string
	TipoDTE          string
	FechaEmision     *time.Time
	NombreEmisor     string
	TotalPagar       decimal.Decimal
}

// StatsRepository defines the data access behind the statistics endpoint
type StatsRepository interface {
	// GetTotals returns document count and summed amount
	GetTotals(ctx context.Context) (*DocumentTotals, error)

	// GetCountsByType returns counts grouped by DTE code
	GetCountsByType(ctx context.Context) ([]TypeCountRow, error)

	// GetAmountBetween sums amounts issued in [from, to)
	GetAmountBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)

	// GetRecurringIssuerCount counts issuers with more than minDocs documents
	GetRecurringIssuerCount(ctx context.Context, minDocs int) (int64, error)

	// GetMonthlyTotals returns per-month totals since a date, oldest first
	GetMonthlyTotals(ctx context.Context, since time.Time) ([]MonthlyTotalRow, error)

	// GetRecentDocuments returns the newest documents by issue date
	GetRecentDocuments(ctx context.Context, limit int) ([]DocumentRow, error)

	// InsertDocuments stores documents, skipping codes that already exist, and
	// returns how many rows were inserted
	InsertDocuments(ctx context.Context, docs []DocumentRow) (int64, error)
}
