package response

import (
	"errors"
	"net/http"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && !errors.Is(err, dashboard.ErrApplication) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, dashboard.ErrChartNotFound):
		NotFound(w, "Chart not found")
	case errors.Is(err, dashboard.ErrSessionNotFound):
		NotFound(w, "Dashboard session not found")
	case errors.Is(err, dashboard.ErrLegendIndexOutOfRange):
		BadRequest(w, "Legend index out of range", nil)
	case errors.Is(err, dashboard.ErrInvalidViewport):
		BadRequest(w, "Viewport width must be a positive integer", nil)
	case errors.Is(err, dashboard.ErrStaleResponse):
		Conflict(w, "A newer refresh has already been applied")

	// Statistics endpoint failures
	case errors.Is(err, dashboard.ErrNetwork), errors.Is(err, dashboard.ErrApplication):
		BadGateway(w, "Error al cargar datos. Usando datos de ejemplo.")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
