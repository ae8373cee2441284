// Package httptransport assembles the public HTTP surface: the gate-facing
// verify endpoint, the authority-facing audit, alert, and registry
// endpoints, and the operational probes. Business logic lives in the
// feature services; this layer only wires them to routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campusgate/pkg/platform/httputil"
	"campusgate/pkg/platform/middleware/auth"
	"campusgate/pkg/platform/middleware/metadata"
	"campusgate/pkg/platform/middleware/requestid"
	"campusgate/pkg/platform/middleware/requesttime"
)

// Registrar mounts a feature's routes on a router group.
type Registrar interface {
	Register(r chi.Router)
}

// HealthChecker reports readiness of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthFunc adapts a plain function to HealthChecker.
type HealthFunc func(ctx context.Context) error

func (f HealthFunc) Health(ctx context.Context) error { return f(ctx) }

// Deps carries everything the router mounts.
type Deps struct {
	Verification Registrar
	Audit        Registrar
	Alerts       Registrar
	Registry     Registrar
	Dashboard    Registrar

	TokenValidator auth.TokenValidator
	Logger         *slog.Logger

	// HealthCheckers are probed by /healthz, keyed by dependency name.
	HealthCheckers map[string]HealthChecker
}

// NewRouter builds the full route tree. The verify endpoint is open to
// gate devices; everything else under /api/v1 requires an authenticated
// authority.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", healthHandler(deps))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		deps.Verification.Register(api)

		api.Group(func(protected chi.Router) {
			protected.Use(auth.RequireAuthority(deps.TokenValidator, deps.Logger))

			deps.Audit.Register(protected)
			deps.Alerts.Register(protected)
			deps.Registry.Register(protected)
			deps.Dashboard.Register(protected)
		})
	})

	return r
}

func healthHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := http.StatusOK
		checks := make(map[string]string, len(deps.HealthCheckers))

		for name, checker := range deps.HealthCheckers {
			if err := checker.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				checks[name] = "unavailable"
				deps.Logger.WarnContext(ctx, "health check failed",
					"dependency", name,
					"error", err,
				)
				continue
			}
			checks[name] = "ok"
		}

		body := map[string]any{"status": "ok", "checks": checks}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		httputil.WriteJSON(w, status, body)
	}
}
