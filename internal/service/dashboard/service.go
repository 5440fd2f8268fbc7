package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/chart"
	"github.com/facturaflow/dashboard/internal/pkg/sse"
)

// Chart ids as used by the page containers
const (
	ChartDocType = "docType"
	ChartTrend   = "trend"
)

// Toast texts
const (
	msgLoadSucceeded = "Datos cargados correctamente"
	msgLoadFailed    = "Error al cargar datos. Usando datos de ejemplo."
	msgWelcome       = "Bienvenido al Dashboard de FacturaFlow"
)

// FailureToastDuration is how long the load-failure toast stays visible
const FailureToastDuration = 5 * time.Second

// Server-sent event names
const (
	EventDashboardUpdated = "dashboard.updated"
	EventNotificationShow = "notification.show"
	EventNotificationHide = "notification.hide"
)

// EventPublisher delivers events to every connected dashboard
type EventPublisher interface {
	Broadcast(event sse.Event)
}

type ControllerImpl struct {
	source   dashboard.StatsSource
	notifier *Notifier
	events   EventPublisher
	now      func() time.Time

	categoryChart *chart.Chart
	trendChart    *chart.Chart

	mu          sync.RWMutex
	summary     []dashboard.SummaryCard
	activity    []dashboard.ActivityRow
	legends     map[string][]dashboard.LegendEntry
	lastUpdated *time.Time
	applied     uint64

	requested atomic.Uint64
}

// NewController creates the controller with placeholder data and both charts
func NewController(source dashboard.StatsSource, events EventPublisher) dashboard.Controller {
	return newController(source, events, time.Now)
}

func newController(source dashboard.StatsSource, events EventPublisher, now func() time.Time) *ControllerImpl {
	c := &ControllerImpl{
		source:        source,
		notifier:      NewNotifier(events),
		events:        events,
		now:           now,
		categoryChart: newCategoryChart(),
		trendChart:    newTrendChart(),
		summary:       placeholderSummary(),
		activity:      placeholderActivity(),
		legends:       make(map[string][]dashboard.LegendEntry),
	}
	c.legends[ChartDocType] = GenerateLegend(c.categoryChart)
	c.legends[ChartTrend] = GenerateLegend(c.trendChart)
	return c
}

// LoadDashboardData fetches the statistics and renders them. Any failure
// leaves the rendered state untouched and becomes the same generic toast.
// Responses older than the last applied one are dropped.
func (c *ControllerImpl) LoadDashboardData(ctx context.Context) error {
	seq := c.requested.Add(1)

	stats, err := c.source.FetchStats(ctx)
	if err != nil {
		if c.superseded(seq) {
			slog.Debug("Ignoring failure of superseded dashboard load", "sequence", seq, "error", err)
			return fmt.Errorf("%w: %v", dashboard.ErrStaleResponse, err)
		}
		slog.Warn("Dashboard data load failed",
			"sequence", seq,
			"network", errors.Is(err, dashboard.ErrNetwork),
			"error", err,
		)
		c.notifier.Show(msgLoadFailed, FailureToastDuration)
		return fmt.Errorf("load dashboard data: %w", err)
	}

	if !c.apply(seq, stats) {
		slog.Info("Discarding superseded dashboard response", "sequence", seq)
		return dashboard.ErrStaleResponse
	}

	slog.Info("Dashboard data loaded",
		"sequence", seq,
		"categories", len(stats.ByType),
		"months", len(stats.Trends),
		"activity", len(stats.RecentActivity),
	)
	c.notifier.Show(msgLoadSucceeded, DefaultToastDuration)
	if c.events != nil {
		c.events.Broadcast(sse.Event{Event: EventDashboardUpdated, Data: map[string]uint64{"sequence": seq}})
	}
	return nil
}

func (c *ControllerImpl) superseded(seq uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return seq < c.applied
}

func (c *ControllerImpl) apply(seq uint64, stats *dashboard.DashboardStats) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.applied {
		return false
	}
	c.applied = seq

	now := c.now()
	RenderSummary(c.summary, stats)
	c.renderCharts(stats)
	c.activity = RenderActivity(c.activity, stats.RecentActivity, now)
	c.lastUpdated = &now
	return true
}

func (c *ControllerImpl) Snapshot() dashboard.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := dashboard.Snapshot{
		Summary:  append([]dashboard.SummaryCard(nil), c.summary...),
		Charts:   []dashboard.ChartView{c.chartView(ChartDocType), c.chartView(ChartTrend)},
		Activity: append([]dashboard.ActivityRow(nil), c.activity...),
		Toast:    c.notifier.Current(),
		Sequence: c.applied,
	}
	if c.lastUpdated != nil {
		ts := *c.lastUpdated
		snap.LastUpdated = &ts
	}
	return snap
}

func (c *ControllerImpl) Summary() []dashboard.SummaryCard {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]dashboard.SummaryCard(nil), c.summary...)
}

func (c *ControllerImpl) Chart(id string) (*dashboard.ChartView, error) {
	if c.chartByID(id) == nil {
		return nil, dashboard.ErrChartNotFound
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	view := c.chartView(id)
	return &view, nil
}

func (c *ControllerImpl) ToggleLegendEntry(id string, index int) ([]dashboard.LegendEntry, error) {
	target := c.chartByID(id)
	if target == nil {
		return nil, dashboard.ErrChartNotFound
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := ToggleLegend(target, index); err != nil {
		return nil, err
	}
	c.legends[id] = GenerateLegend(target)
	return append([]dashboard.LegendEntry(nil), c.legends[id]...), nil
}

func (c *ControllerImpl) Activity(category, search string) dashboard.ActivityView {
	c.mu.RLock()
	rows := append([]dashboard.ActivityRow(nil), c.activity...)
	c.mu.RUnlock()

	return FilterActivity(rows, category, search)
}

func (c *ControllerImpl) SelectorChanged(name, label string) error {
	msg, err := selectorMessage(name, label)
	if err != nil {
		return err
	}
	c.notifier.Show(msg, DefaultToastDuration)
	return nil
}

func (c *ControllerImpl) Welcome(delay time.Duration) {
	time.AfterFunc(delay, func() {
		c.notifier.Show(msgWelcome, DefaultToastDuration)
	})
}

func (c *ControllerImpl) Toast() dashboard.Toast {
	return c.notifier.Current()
}

func (c *ControllerImpl) chartByID(id string) *chart.Chart {
	switch id {
	case ChartDocType:
		return c.categoryChart
	case ChartTrend:
		return c.trendChart
	default:
		return nil
	}
}

// chartView expects c.mu to be held
func (c *ControllerImpl) chartView(id string) dashboard.ChartView {
	return dashboard.ChartView{
		ID:     id,
		Config: c.chartByID(id).Config(),
		Legend: append([]dashboard.LegendEntry(nil), c.legends[id]...),
	}
}
