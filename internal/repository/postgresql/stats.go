package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type statsRepositoryImpl struct {
	db *database.DB
}

func NewStatsRepository(db *database.DB) dashboard.StatsRepository {
	return &statsRepositoryImpl{db: db}
}

func (r *statsRepositoryImpl) GetTotals(ctx context.Context) (*dashboard.DocumentTotals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*), COALESCE(SUM(total_pagar), 0)
		FROM facturas
	`

	var totals dashboard.DocumentTotals
	if err := q.QueryRow(ctx, query).Scan(&totals.Count, &totals.Amount); err != nil {
		return nil, fmt.Errorf("failed to get document totals: %w", err)
	}
	return &totals, nil
}

func (r *statsRepositoryImpl) GetCountsByType(ctx context.Context) ([]dashboard.TypeCountRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(tipo_dte, ''), COUNT(*)
		FROM facturas
		GROUP BY tipo_dte
		ORDER BY COUNT(*) DESC, tipo_dte
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get counts by type: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (dashboard.TypeCountRow, error) {
		var tc dashboard.TypeCountRow
		err := row.Scan(&tc.TipoDTE, &tc.Count)
		return tc, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan counts by type: %w", err)
	}
	return result, nil
}

func (r *statsRepositoryImpl) GetAmountBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(total_pagar), 0)
		FROM facturas
		WHERE fecha_emision >= $1 AND fecha_emision < $2
	`

	var amount decimal.Decimal
	if err := q.QueryRow(ctx, query, from, to).Scan(&amount); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum amount between dates: %w", err)
	}
	return amount, nil
}

func (r *statsRepositoryImpl) GetRecurringIssuerCount(ctx context.Context, minDocs int) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM (
			SELECT nombre_emisor
			FROM facturas
			WHERE nombre_emisor IS NOT NULL
			GROUP BY nombre_emisor
			HAVING COUNT(*) > $1
		) AS recurrentes
	`

	var count int64
	if err := q.QueryRow(ctx, query, minDocs).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recurring issuers: %w", err)
	}
	return count, nil
}

func (r *statsRepositoryImpl) GetMonthlyTotals(ctx context.Context, since time.Time) ([]dashboard.MonthlyTotalRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT to_char(date_trunc('month', fecha_emision), 'YYYY-MM') AS month,
			COALESCE(SUM(total_pagar), 0)
		FROM facturas
		WHERE fecha_emision >= $1
		GROUP BY month
		ORDER BY month ASC
	`

	rows, err := q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly totals: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (dashboard.MonthlyTotalRow, error) {
		var mt dashboard.MonthlyTotalRow
		err := row.Scan(&mt.Month, &mt.Total)
		return mt, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan monthly totals: %w", err)
	}
	return result, nil
}

func (r *statsRepositoryImpl) GetRecentDocuments(ctx context.Context, limit int) ([]dashboard.DocumentRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT codigo_generacion, COALESCE(tipo_dte, ''), fecha_emision,
			COALESCE(nombre_emisor, ''), COALESCE(total_pagar, 0)
		FROM facturas
		ORDER BY fecha_emision DESC NULLS LAST, id DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent documents: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (dashboard.DocumentRow, error) {
		var d dashboard.DocumentRow
		err := row.Scan(&d.CodigoGeneracion, &d.TipoDTE, &d.FechaEmision, &d.NombreEmisor, &d.TotalPagar)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan recent documents: %w", err)
	}
	return result, nil
}

func (r *statsRepositoryImpl) InsertDocuments(ctx context.Context, docs []dashboard.DocumentRow) (int64, error) {
	var inserted int64

	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		query := `
			INSERT INTO facturas (codigo_generacion, tipo_dte, fecha_emision, nombre_emisor, total_pagar)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (codigo_generacion) DO NOTHING
		`

		for _, d := range docs {
			tag, err := q.Exec(ctx, query, d.CodigoGeneracion, d.TipoDTE, d.FechaEmision, d.NombreEmisor, d.TotalPagar)
			if err != nil {
				return fmt.Errorf("failed to insert document %s: %w", d.CodigoGeneracion, err)
			}
			inserted += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
