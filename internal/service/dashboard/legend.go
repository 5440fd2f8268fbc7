package dashboard

import (
	"fmt"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/chart"
)

// GenerateLegend rebuilds a chart's legend from its current data and
// visibility. Line charts get one entry per dataset, doughnuts one per slice.
func GenerateLegend(c *chart.Chart) []dashboard.LegendEntry {
	data := c.Data()

	if c.Type() == chart.TypeLine {
		entries := make([]dashboard.LegendEntry, len(data.Datasets))
		for i, ds := range data.Datasets {
			entries[i] = dashboard.LegendEntry{
				Index:  i,
				Text:   ds.Label,
				Color:  ds.BorderColor,
				Hidden: !c.DatasetVisible(i),
			}
		}
		return entries
	}

	var fills chart.Colors
	if len(data.Datasets) > 0 {
		fills = data.Datasets[0].BackgroundColor
	}
	entries := make([]dashboard.LegendEntry, len(data.Labels))
	for i, label := range data.Labels {
		var color string
		if len(fills) > 0 {
			color = fills[i%len(fills)]
		}
		entries[i] = dashboard.LegendEntry{
			Index:  i,
			Text:   label,
			Color:  color,
			Hidden: !c.DataVisible(i),
		}
	}
	return entries
}

// ToggleLegend flips the series (line) or slice (doughnut) behind a legend entry
func ToggleLegend(c *chart.Chart, index int) error {
	var err error
	if c.Type() == chart.TypeLine {
		err = c.ToggleDatasetVisibility(index)
	} else {
		err = c.ToggleDataVisibility(index)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", dashboard.ErrLegendIndexOutOfRange, err)
	}
	return nil
}
