package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/facturaflow/dashboard/internal/config"
	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/chart"
	"github.com/facturaflow/dashboard/internal/pkg/jwt"
	"github.com/facturaflow/dashboard/internal/pkg/statsclient"
	dashboardService "github.com/facturaflow/dashboard/internal/service/dashboard"
	"github.com/spf13/cobra"
)

var (
	snapshotJSON     bool
	snapshotEndpoint string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch the statistics once and print the rendered dashboard",
	Long: `Fetch the statistics endpoint once, render it exactly as the dashboard
would and print the summary cards, chart legends and recent activity.

Examples:
  dashctl snapshot
  dashctl snapshot --json
  dashctl snapshot --endpoint http://localhost:8080/api/dashboard-stats`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print the snapshot as JSON")
	snapshotCmd.Flags().StringVar(&snapshotEndpoint, "endpoint", "", "statistics endpoint (default STATS_ENDPOINT)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	endpoint := cfg.Stats.Endpoint
	if snapshotEndpoint != "" {
		endpoint = snapshotEndpoint
	}

	tokens := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.ServiceExpiration)
	client := statsclient.NewClient(endpoint, cfg.Stats.Timeout, tokens)
	controller := dashboardService.NewController(client, nil)

	if err := controller.LoadDashboardData(cmd.Context()); err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}

	snap := controller.Snapshot()
	out := cmd.OutOrStdout()
	if snapshotJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return printSnapshot(out, snap)
}

func printSnapshot(out io.Writer, snap dashboard.Snapshot) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "RESUMEN\t")
	for _, card := range snap.Summary {
		fmt.Fprintf(w, "%s\t%s\n", card.Label, card.Value)
	}

	for _, view := range snap.Charts {
		fmt.Fprintf(w, "\nGRÁFICO %s\t\n", view.ID)
		data := view.Config.Data
		for _, entry := range view.Legend {
			value := ""
			if view.Config.Type == chart.TypeDoughnut && len(data.Datasets) == 1 && entry.Index < len(data.Datasets[0].Data) {
				value = fmt.Sprintf("%g", data.Datasets[0].Data[entry.Index])
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Text, entry.Color, value)
		}
	}

	fmt.Fprintln(w, "\nACTIVIDAD RECIENTE\t")
	for _, row := range snap.Activity {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Title, row.Issuer, row.TimeLabel, row.Amount)
	}

	return w.Flush()
}
