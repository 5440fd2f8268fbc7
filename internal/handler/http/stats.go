package http

import (
	"log/slog"
	"net/http"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/handler/http/response"
)

type StatsHandler interface {
	// GetDashboardStats returns the statistics payload consumed by the dashboard
	GetDashboardStats(w http.ResponseWriter, r *http.Request)
}

type statsHandlerImpl struct {
	statsService dashboard.StatsService
}

func NewStatsHandler(statsService dashboard.StatsService) StatsHandler {
	return &statsHandlerImpl{statsService: statsService}
}

// GetDashboardStats handles GET /api/dashboard-stats. The body is flat, not
// enveloped, because the dashboard reads its top-level fields directly.
func (h *statsHandlerImpl) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetDashboardStats(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build dashboard stats", "error", err)
		response.JSON(w, http.StatusInternalServerError, dashboard.StatsErrorResponse{
			Success: false,
			Error:   "Error obteniendo estadísticas",
		})
		return
	}

	response.JSON(w, http.StatusOK, stats)
}
