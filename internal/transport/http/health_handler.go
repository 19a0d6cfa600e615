package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthCheck handles GET /healthz.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
