package dashboard

import (
	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/format"
)

const summarySlots = 4

func placeholderSummary() []dashboard.SummaryCard {
	return []dashboard.SummaryCard{
		{Key: "total_amount", Label: "Salidas Totales", Icon: "fa-money-bill-wave", Value: "$24,580.00"},
		{Key: "total_docs", Label: "Documentos Procesados", Icon: "fa-file-invoice", Value: "156"},
		{Key: "recurring_count", Label: "Cargos Recurrentes", Icon: "fa-redo", Value: "12"},
		{Key: "current_month_amount", Label: "Gasto en Materiales", Icon: "fa-tools", Value: "$8,450.00"},
	}
}

// RenderSummary writes the four formatted values into the slots in place.
// Fewer than four slots is a no-op.
func RenderSummary(slots []dashboard.SummaryCard, stats *dashboard.DashboardStats) {
	if len(slots) < summarySlots || stats == nil {
		return
	}

	slots[0].Value = format.Currency(stats.TotalAmount)
	slots[1].Value = format.Integer(stats.TotalDocs)
	slots[2].Value = format.Integer(stats.RecurringCount)
	slots[3].Value = format.Currency(stats.CurrentMonthAmount)
}
