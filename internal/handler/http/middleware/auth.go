package middleware

import (
	"net/http"

	"github.com/facturaflow/dashboard/internal/handler/http/response"
	"github.com/facturaflow/dashboard/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// unauthorizedBody is the flat error body the statistics endpoint has always returned
var unauthorizedBody = map[string]string{"error": "No autorizado"}

// ServiceTokenRequired lets through requests verified by jwtauth.Verifier
// whose token carries the service type claim
func ServiceTokenRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.JSON(w, http.StatusUnauthorized, unauthorizedBody)
			return
		}

		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != jwt.TokenTypeService {
			response.JSON(w, http.StatusUnauthorized, unauthorizedBody)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hfn)
}
