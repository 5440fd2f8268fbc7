package dashboard

import (
	"strings"
	"time"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/format"
	"github.com/facturaflow/dashboard/internal/pkg/sanitize"
)

// CategoryAll disables the type filter
const CategoryAll = "all"

// EmptyStateMessage is shown once when no row passes the filter
const EmptyStateMessage = "No se encontraron resultados"

const referencePrefixLen = 8

func placeholderActivity() []dashboard.ActivityRow {
	return []dashboard.ActivityRow{
		{Type: "factura", Title: "Factura - FAC-2024...", Issuer: "Distribuidora Central", TimeLabel: "Hoy", Amount: "$1,250.00", Visible: true},
		{Type: "comprobante", Title: "Comprobante de Crédito Fiscal - CCF-0891...", Issuer: "Ferretería El Martillo", TimeLabel: "Hace 1 día", Amount: "$845.30", Visible: true},
		{Type: "nota", Title: "Nota de Crédito - NC-00045...", Issuer: "Gasolinera Los Pinos", TimeLabel: "Hace 3 días", Amount: "$120.00", Visible: true},
	}
}

// RowType is the filter key of a document type: its first word, lowercased
func RowType(documentType string) string {
	fields := strings.Fields(sanitize.Text(documentType))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// ActivityRowFrom renders one record relative to now
func ActivityRowFrom(rec dashboard.ActivityRecord, now time.Time) dashboard.ActivityRow {
	docType := sanitize.Text(rec.DocumentType)
	return dashboard.ActivityRow{
		Type:      RowType(docType),
		Title:     docType + " - " + format.Truncate(sanitize.Text(rec.ReferenceCode), referencePrefixLen),
		Issuer:    sanitize.Text(rec.IssuerName),
		TimeLabel: format.RelativeDate(rec.IssueDate, now),
		Amount:    format.Currency(rec.TotalAmount),
		Visible:   true,
	}
}

// RenderActivity replaces the rows with records in order. Empty input keeps current.
func RenderActivity(current []dashboard.ActivityRow, records []dashboard.ActivityRecord, now time.Time) []dashboard.ActivityRow {
	if len(records) == 0 {
		return current
	}

	rows := make([]dashboard.ActivityRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, ActivityRowFrom(rec, now))
	}
	return rows
}

// FilterActivity marks which rows are visible for a category and search text.
// It works on a copy and never changes the rows passed in.
func FilterActivity(rows []dashboard.ActivityRow, category, search string) dashboard.ActivityView {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = CategoryAll
	}
	needle := strings.ToLower(search)

	view := dashboard.ActivityView{
		Rows:     make([]dashboard.ActivityRow, len(rows)),
		Category: category,
		Search:   search,
	}

	for i, row := range rows {
		typeMatch := category == CategoryAll || row.Type == category
		searchMatch := needle == "" ||
			strings.Contains(strings.ToLower(row.Title), needle) ||
			strings.Contains(strings.ToLower(row.Issuer), needle)

		row.Visible = typeMatch && searchMatch
		if row.Visible {
			view.VisibleCount++
		}
		view.Rows[i] = row
	}

	view.EmptyState = view.VisibleCount == 0
	return view
}
