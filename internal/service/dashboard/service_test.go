package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/sse"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	fetch func(ctx context.Context) (*dashboard.DashboardStats, error)
}

func (f *fakeSource) FetchStats(ctx context.Context) (*dashboard.DashboardStats, error) {
	return f.fetch(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []sse.Event
}

func (p *recordingPublisher) Broadcast(event sse.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event
	}
	return out
}

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func sampleStats() *dashboard.DashboardStats {
	return &dashboard.DashboardStats{
		TotalAmount:        decimal.RequireFromString("1234567.891"),
		TotalDocs:          2048,
		RecurringCount:     7,
		CurrentMonthAmount: decimal.RequireFromString("999.5"),
		ByType: []dashboard.CategoryCount{
			{Category: "Factura", Count: 12},
			{Category: "Nota de Crédito", Count: 3},
		},
		Trends: []dashboard.TrendPoint{
			{Month: "2026-09", Total: decimal.RequireFromString("1500.25")},
			{Month: "2026-10", Total: decimal.RequireFromString("800")},
		},
		RecentActivity: []dashboard.ActivityRecord{{
			DocumentType:  "Factura",
			ReferenceCode: "ABCDEF1234567890",
			IssuerName:    "<b>Distribuidora</b> Central",
			IssueDate:     fixedNow.Add(-36 * time.Hour),
			TotalAmount:   decimal.RequireFromString("1250"),
		}},
	}
}

func newTestController(fetch func(ctx context.Context) (*dashboard.DashboardStats, error)) (*ControllerImpl, *recordingPublisher) {
	pub := &recordingPublisher{}
	c := newController(&fakeSource{fetch: fetch}, pub, func() time.Time { return fixedNow })
	return c, pub
}

func TestLoadDashboardData_Success(t *testing.T) {
	c, pub := newTestController(func(ctx context.Context) (*dashboard.DashboardStats, error) {
		return sampleStats(), nil
	})
	categoryBefore, trendBefore := c.categoryChart, c.trendChart

	require.NoError(t, c.LoadDashboardData(context.Background()))

	summary := c.Summary()
	assert.Equal(t, "$1,234,567.89", summary[0].Value)
	assert.Equal(t, "2,048", summary[1].Value)
	assert.Equal(t, "7", summary[2].Value)
	assert.Equal(t, "$999.50", summary[3].Value)

	// Charts are updated in place
	assert.Same(t, categoryBefore, c.categoryChart)
	assert.Same(t, trendBefore, c.trendChart)
	assert.Equal(t, uint64(1), c.categoryChart.Updates())
	assert.Equal(t, uint64(1), c.trendChart.Updates())

	view, err := c.Chart(ChartDocType)
	require.NoError(t, err)
	assert.Equal(t, []string{"Factura", "Nota de Crédito"}, view.Config.Data.Labels)
	require.Len(t, view.Legend, 2)
	assert.Equal(t, "Nota de Crédito", view.Legend[1].Text)
	assert.Equal(t, Palette[1], view.Legend[1].Color)

	snap := c.Snapshot()
	require.Len(t, snap.Activity, 1)
	row := snap.Activity[0]
	assert.Equal(t, "factura", row.Type)
	assert.Equal(t, "Factura - ABCDEF12...", row.Title)
	assert.Equal(t, "Distribuidora Central", row.Issuer)
	assert.Equal(t, "Hace 2 días", row.TimeLabel)
	assert.Equal(t, "$1,250.00", row.Amount)
	require.NotNil(t, snap.LastUpdated)
	assert.Equal(t, fixedNow, *snap.LastUpdated)
	assert.Equal(t, uint64(1), snap.Sequence)

	toast := c.Toast()
	assert.Equal(t, msgLoadSucceeded, toast.Message)
	assert.True(t, toast.Visible)
	assert.Equal(t, int64(3000), toast.DurationMs)
	assert.Equal(t, []string{EventNotificationShow, EventDashboardUpdated}, pub.names())
}

func TestLoadDashboardData_FailureKeepsState(t *testing.T) {
	for _, fetchErr := range []error{
		&dashboard.NetworkError{StatusCode: 500},
		&dashboard.ApplicationError{Message: dashboard.DefaultApplicationMessage},
	} {
		c, pub := newTestController(func(ctx context.Context) (*dashboard.DashboardStats, error) {
			return nil, fetchErr
		})
		before := c.Snapshot()

		err := c.LoadDashboardData(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, fetchErr))

		after := c.Snapshot()
		assert.Equal(t, before.Summary, after.Summary)
		assert.Equal(t, before.Activity, after.Activity)
		assert.Equal(t, uint64(0), c.categoryChart.Updates())
		assert.Nil(t, after.LastUpdated)

		toast := c.Toast()
		assert.Equal(t, msgLoadFailed, toast.Message)
		assert.Equal(t, int64(5000), toast.DurationMs)
		assert.Equal(t, []string{EventNotificationShow}, pub.names())
	}
}

func TestLoadDashboardData_EmptyArraysSkipUpdates(t *testing.T) {
	c, _ := newTestController(func(ctx context.Context) (*dashboard.DashboardStats, error) {
		stats := sampleStats()
		stats.ByType = nil
		stats.Trends = nil
		stats.RecentActivity = nil
		return stats, nil
	})
	activityBefore := c.Snapshot().Activity

	require.NoError(t, c.LoadDashboardData(context.Background()))

	assert.Equal(t, uint64(0), c.categoryChart.Updates())
	assert.Equal(t, uint64(0), c.trendChart.Updates())
	assert.Equal(t, activityBefore, c.Snapshot().Activity)
	assert.Equal(t, "2,048", c.Summary()[1].Value)
}

func TestLoadDashboardData_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	var calls sync.Mutex
	call := 0

	c, _ := newTestController(func(ctx context.Context) (*dashboard.DashboardStats, error) {
		calls.Lock()
		call++
		n := call
		calls.Unlock()

		stats := sampleStats()
		if n == 1 {
			<-release
			stats.TotalDocs = 1
			return stats, nil
		}
		stats.TotalDocs = 2
		return stats, nil
	})

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.LoadDashboardData(context.Background()) }()
	require.Eventually(t, func() bool {
		calls.Lock()
		defer calls.Unlock()
		return call == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, c.LoadDashboardData(context.Background()))
	close(release)

	assert.ErrorIs(t, <-firstDone, dashboard.ErrStaleResponse)
	assert.Equal(t, "2", c.Summary()[1].Value)
	assert.Equal(t, uint64(2), c.Snapshot().Sequence)
}

func TestLoadDashboardData_StaleFailureIsSilent(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	first := true
	var mu sync.Mutex

	c, pub := newTestController(func(ctx context.Context) (*dashboard.DashboardStats, error) {
		mu.Lock()
		isFirst := first
		first = false
		mu.Unlock()

		if isFirst {
			close(started)
			<-release
			return nil, &dashboard.NetworkError{StatusCode: 502}
		}
		return sampleStats(), nil
	})

	firstDone := make(chan error, 1)
	go func() { firstDone <- c.LoadDashboardData(context.Background()) }()
	<-started

	require.NoError(t, c.LoadDashboardData(context.Background()))
	close(release)

	assert.ErrorIs(t, <-firstDone, dashboard.ErrStaleResponse)
	assert.Equal(t, msgLoadSucceeded, c.Toast().Message)
	assert.Equal(t, []string{EventNotificationShow, EventDashboardUpdated}, pub.names())
}

func TestController_ChartNotFound(t *testing.T) {
	c, _ := newTestController(nil)

	_, err := c.Chart("pie")
	assert.ErrorIs(t, err, dashboard.ErrChartNotFound)

	_, err = c.ToggleLegendEntry("pie", 0)
	assert.ErrorIs(t, err, dashboard.ErrChartNotFound)
}

func TestController_ToggleLegendEntry(t *testing.T) {
	c, _ := newTestController(nil)

	legend, err := c.ToggleLegendEntry(ChartDocType, 2)
	require.NoError(t, err)
	assert.True(t, legend[2].Hidden)
	assert.False(t, c.categoryChart.DataVisible(2))

	view, err := c.Chart(ChartDocType)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, view.Config.HiddenIndices)
	assert.True(t, view.Legend[2].Hidden)

	legend, err = c.ToggleLegendEntry(ChartTrend, 0)
	require.NoError(t, err)
	require.Len(t, legend, 1)
	assert.Equal(t, trendSeriesLabel, legend[0].Text)
	assert.True(t, legend[0].Hidden)

	_, err = c.ToggleLegendEntry(ChartTrend, 1)
	assert.ErrorIs(t, err, dashboard.ErrLegendIndexOutOfRange)
}

func TestController_Activity(t *testing.T) {
	c, _ := newTestController(nil)

	view := c.Activity("factura", "")
	assert.Equal(t, 1, view.VisibleCount)
	assert.False(t, view.EmptyState)

	// Stored rows are not touched by filtering
	for _, row := range c.Snapshot().Activity {
		assert.True(t, row.Visible)
	}
}

func TestController_SelectorChanged(t *testing.T) {
	c, _ := newTestController(nil)

	require.NoError(t, c.SelectorChanged(SelectorTimeRange, "Últimos 30 días"))
	assert.Equal(t, "Período cambiado a: Últimos 30 días", c.Toast().Message)

	require.NoError(t, c.SelectorChanged(SelectorDocType, "Facturas"))
	assert.Equal(t, "Filtro aplicado: Facturas", c.Toast().Message)

	err := c.SelectorChanged("colour", "")
	var verrs interface{ ToMap() map[string]string }
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, map[string]string{"label": "required", "name": "unknown selector"}, verrs.ToMap())
}

func TestController_Welcome(t *testing.T) {
	c, _ := newTestController(nil)

	c.Welcome(10 * time.Millisecond)
	require.Eventually(t, func() bool {
		return c.Toast().Message == msgWelcome
	}, time.Second, 5*time.Millisecond)
}
