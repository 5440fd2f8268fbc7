package dashboard

import (
	"fmt"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/chart"
	"github.com/facturaflow/dashboard/internal/pkg/format"
)

// Palette is cycled over the category slices
var Palette = []string{
	"#4361ee", "#4cc9f0", "#f72585", "#7209b7",
	"#3a0ca3", "#f15bb5", "#00bbf9", "#00f5d4",
}

const (
	trendSeriesLabel = "Gastos Mensuales"
	trendBorder      = "#4361ee"
	trendFill        = "rgba(67, 97, 238, 0.1)"
)

// PaletteColors returns n colors taken from Palette by index mod 8
func PaletteColors(n int) chart.Colors {
	colors := make(chart.Colors, n)
	for i := range colors {
		colors[i] = Palette[i%len(Palette)]
	}
	return colors
}

func categoryTooltip(ctx chart.TooltipContext) string {
	return fmt.Sprintf("%s: %s (%d%%)", ctx.Label, formatCount(ctx.Value), format.Percent(ctx.Value, ctx.Total))
}

func trendTooltip(ctx chart.TooltipContext) string {
	return fmt.Sprintf("%s: %s", ctx.DatasetLabel, format.CurrencyFloat(ctx.Value))
}

func formatCount(v float64) string {
	return format.Integer(int64(v))
}

func newCategoryChart() *chart.Chart {
	labels := []string{"Materiales e Insumos", "Equipos y Herramientas", "Gasolina", "Otros"}
	return chart.New(chart.TypeDoughnut, chart.Data{
		Labels: labels,
		Datasets: []chart.Dataset{{
			Data:            []float64{45, 30, 15, 10},
			BackgroundColor: PaletteColors(len(labels)),
			BorderWidth:     0,
		}},
	}, chart.Options{
		Cutout:  "65%",
		Tooltip: categoryTooltip,
	})
}

func newTrendChart() *chart.Chart {
	return chart.New(chart.TypeLine, chart.Data{
		Labels:   []string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul"},
		Datasets: []chart.Dataset{trendDataset([]float64{65, 59, 80, 81, 56, 55, 70})},
	}, chart.Options{
		BeginAtZero: true,
		TickPrefix:  "$",
		Tooltip:     trendTooltip,
	})
}

func trendDataset(values []float64) chart.Dataset {
	return chart.Dataset{
		Label:           trendSeriesLabel,
		Data:            values,
		BackgroundColor: chart.Colors{trendFill},
		BorderColor:     trendBorder,
		BorderWidth:     3,
		Tension:         0.4,
		Fill:            true,
	}
}

// CategoryData builds the doughnut data for the given counts
func CategoryData(counts []dashboard.CategoryCount) chart.Data {
	labels := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, c := range counts {
		labels[i] = c.Category
		values[i] = float64(c.Count)
	}
	return chart.Data{
		Labels: labels,
		Datasets: []chart.Dataset{{
			Data:            values,
			BackgroundColor: PaletteColors(len(counts)),
		}},
	}
}

// TrendData builds the single-series line data, months in server order
func TrendData(points []dashboard.TrendPoint) chart.Data {
	labels := make([]string, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.Month
		values[i] = p.Total.InexactFloat64()
	}
	return chart.Data{
		Labels:   labels,
		Datasets: []chart.Dataset{trendDataset(values)},
	}
}

// renderCharts updates the charts in place and regenerates their legends.
// Empty arrays leave the corresponding chart alone. Expects c.mu held.
func (c *ControllerImpl) renderCharts(stats *dashboard.DashboardStats) {
	if len(stats.ByType) > 0 {
		c.categoryChart.Update(CategoryData(stats.ByType))
		c.legends[ChartDocType] = GenerateLegend(c.categoryChart)
	}
	if len(stats.Trends) > 0 {
		c.trendChart.Update(TrendData(stats.Trends))
		c.legends[ChartTrend] = GenerateLegend(c.trendChart)
	}
}
