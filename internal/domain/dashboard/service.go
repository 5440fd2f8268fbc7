package dashboard

import (
	"context"
	"time"
)

// StatsSource fetches and validates one statistics payload
type StatsSource interface {
	FetchStats(ctx context.Context) (*DashboardStats, error)
}

// Controller owns the rendered dashboard state
type Controller interface {
	// LoadDashboardData fetches, validates and renders; failures become a toast
	LoadDashboardData(ctx context.Context) error

	// Snapshot returns the whole dashboard as last rendered
	Snapshot() Snapshot

	// Summary returns the four summary slots
	Summary() []SummaryCard

	// Chart returns a chart config and its legend by id ("docType" or "trend")
	Chart(id string) (*ChartView, error)

	// ToggleLegendEntry flips visibility of a series or slice and returns the regenerated legend
	ToggleLegendEntry(id string, index int) ([]LegendEntry, error)

	// Activity filters the rendered rows without touching the dataset
	Activity(category, search string) ActivityView

	// SelectorChanged emits the toast for a time-range or doc-type selector change
	SelectorChanged(name, label string) error

	// Welcome schedules the welcome toast
	Welcome(delay time.Duration)

	// Toast returns the current notification state
	Toast() Toast
}

// SessionService tracks per page view UI state
type SessionService interface {
	Create() SessionView
	Get(id string) (SessionView, error)
	ToggleSidebar(id string, viewportWidth int) (SidebarState, error)
	CloseSidebar(id string) (SidebarState, error)
	RememberFilter(id, category, search string) error
	Filter(id string) (category, search string, err error)
	// Sweep drops sessions idle for longer than the TTL and returns how many were removed
	Sweep(now time.Time) int
}

// StatsService builds the statistics endpoint payload
type StatsService interface {
	GetDashboardStats(ctx context.Context) (*StatsResponse, error)
}
