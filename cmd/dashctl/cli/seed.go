package cli

import (
	"fmt"
	"time"

	"github.com/facturaflow/dashboard/internal/config"
	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/database"
	"github.com/facturaflow/dashboard/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the documents table and load example documents",
	Long: `Create the facturas table when missing and insert a small set of
example documents spread over the last months. Existing generation codes
are left untouched, so running it twice is harmless.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgresql.EnsureSchema(ctx, db); err != nil {
		return err
	}

	repo := postgresql.NewStatsRepository(db)
	inserted, err := repo.InsertDocuments(ctx, exampleDocuments(time.Now()))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d documents\n", inserted)
	return nil
}

func exampleDocuments(now time.Time) []dashboard.DocumentRow {
	type example struct {
		code, tipo, emisor, total string
		daysAgo                   int
	}
	examples := []example{
		{"SEED-0001", "01", "Distribuidora Central", "1250.00", 0},
		{"SEED-0002", "03", "Ferretería El Martillo", "845.30", 1},
		{"SEED-0003", "05", "Gasolinera Los Pinos", "120.00", 3},
		{"SEED-0004", "01", "Ferretería El Martillo", "310.75", 12},
		{"SEED-0005", "01", "Ferretería El Martillo", "98.40", 40},
		{"SEED-0006", "14", "Transportes Rápidos", "450.00", 75},
		{"SEED-0007", "03", "Distribuidora Central", "2210.10", 110},
		{"SEED-0008", "06", "Gasolinera Los Pinos", "35.60", 150},
	}

	docs := make([]dashboard.DocumentRow, 0, len(examples))
	for _, e := range examples {
		issued := now.AddDate(0, 0, -e.daysAgo)
		docs = append(docs, dashboard.DocumentRow{
			CodigoGeneracion: e.code,
			TipoDTE:          e.tipo,
			FechaEmision:     &issued,
			NombreEmisor:     e.emisor,
			TotalPagar:       decimal.RequireFromString(e.total),
		})
	}
	return docs
}
