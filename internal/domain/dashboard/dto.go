package dashboard

import (
	"time"

	"github.com/facturaflow/dashboard/internal/pkg/chart"
)

// ========== STATISTICS ENDPOINT (wire format) ==========

// StatsResponse is the body of GET /api/dashboard-stats
type StatsResponse struct {
	Success            bool           `json:"success"`
	TotalAmount        float64        `json:"total_amount"`
	TotalDocs          int64          `json:"total_docs"`
	RecurringCount     int64          `json:"recurring_count"`
	CurrentMonthAmount float64        `json:"current_month_amount"`
	ByType             []TypeCount    `json:"by_type"`
	Trends             []MonthlyTotal `json:"trends"`
	RecentActivity     []ActivityItem `json:"recent_activity"`
}

// StatsErrorResponse is the failure body of the statistics endpoint
type StatsErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type TypeCount struct {
	Tipo  string `json:"tipo"`
	Count int64  `json:"count"`
}

// MonthlyTotal carries the month total as a decimal string
type MonthlyTotal struct {
	Month string `json:"month"` // Format: "YYYY-MM"
	Total string `json:"total"`
}

type ActivityItem struct {
	Tipo             string  `json:"tipo"`
	CodigoGeneracion string  `json:"codigo_generacion"`
	NombreEmisor     string  `json:"nombre_emisor"`
	FechaEmision     string  `json:"fecha_emision"` // Format: "YYYY-MM-DD"
	TotalPagar       float64 `json:"total_pagar"`
}

// ========== DASHBOARD VIEW ==========

// SummaryCard is one of the four summary slots
type SummaryCard struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Value string `json:"value"`
}

// LegendEntry is one clickable row of a custom chart legend
type LegendEntry struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Color  string `json:"color"`
	Hidden bool   `json:"hidden"`
}

// ChartView is a chart's Chart.js config together with its custom legend
type ChartView struct {
	ID     string        `json:"id"`
	Config chart.Config  `json:"config"`
	Legend []LegendEntry `json:"legend"`
}

// ActivityRow is one rendered row of the recent-activity list
type ActivityRow struct {
	Type      string `json:"type"` // filter key, e.g. "factura"
	Title     string `json:"title"`
	Issuer    string `json:"issuer"`
	TimeLabel string `json:"time_label"`
	Amount    string `json:"amount"`
	Visible   bool   `json:"visible"`
}

// ActivityView is the activity list after filtering
type ActivityView struct {
	Rows         []ActivityRow `json:"rows"`
	VisibleCount int           `json:"visible_count"`
	EmptyState   bool          `json:"empty_state"`
	Category     string        `json:"category"`
	Search       string        `json:"search"`
}

// Toast is the singleton notification element
type Toast struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	Visible    bool   `json:"visible"`
	DurationMs int64  `json:"duration_ms"`
}

// SidebarState is the sidebar/overlay pair as CSS classes would see it
type SidebarState struct {
	Collapsed     bool `json:"collapsed"`
	OverlayActive bool `json:"overlay_active"`
}

// Snapshot is the full dashboard as last rendered
type Snapshot struct {
	Summary     []SummaryCard `json:"summary"`
	Charts      []ChartView   `json:"charts"`
	Activity    []ActivityRow `json:"activity"`
	Toast       Toast         `json:"toast"`
	LastUpdated *time.Time    `json:"last_updated,omitempty"`
	Sequence    uint64        `json:"sequence"`
}

// SessionView is returned when a page view registers
type SessionView struct {
	ID      string       `json:"id"`
	Sidebar SidebarState `json:"sidebar"`
}

// SelectorChangeRequest is the body of POST /dashboard/selectors/{name}
type SelectorChangeRequest struct {
	Label string `json:"label"`
}
