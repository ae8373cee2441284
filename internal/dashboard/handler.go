// Package dashboard serves the operator summary: recent traffic numbers
// from the audit log combined with the unresolved alert backlog. Read-only
// aggregation over the other modules; it owns no state of its own.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"campusgate/internal/alert"
	"campusgate/internal/audit"
	"campusgate/pkg/platform/httputil"
	"campusgate/pkg/requestcontext"
)

// AuditStats is the slice of the audit module the dashboard reads.
type AuditStats interface {
	Stats(ctx context.Context, period time.Duration) (audit.Stats, error)
}

// AlertList is the slice of the alert module the dashboard reads.
type AlertList interface {
	List(ctx context.Context, resolved *bool) ([]alert.Alert, error)
}

// Handler serves GET /api/v1/dashboard/summary.
type Handler struct {
	audits AuditStats
	alerts AlertList
	logger *slog.Logger
}

func New(audits AuditStats, alerts AlertList, logger *slog.Logger) *Handler {
	return &Handler{audits: audits, alerts: alerts, logger: logger}
}

// Register mounts dashboard endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard/summary", h.HandleSummary)
}

// SummaryResponse is the HTTP response for GET /api/v1/dashboard/summary.
type SummaryResponse struct {
	PeriodHours      float64        `json:"period_hours"`
	TotalAttempts    int            `json:"total_attempts"`
	Granted          int            `json:"granted"`
	Denied           int            `json:"denied"`
	ByMethod         map[string]int `json:"by_method"`
	ByGate           map[string]int `json:"by_gate"`
	UnresolvedAlerts int            `json:"unresolved_alerts"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

// HandleSummary aggregates the trailing 24 hours of audit activity with
// the current unresolved alert count.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	period := 24 * time.Hour

	stats, err := h.audits.Stats(ctx, period)
	if err != nil {
		h.logger.ErrorContext(ctx, "dashboard stats failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	unresolved := false
	open, err := h.alerts.List(ctx, &unresolved)
	if err != nil {
		h.logger.ErrorContext(ctx, "dashboard alert listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	byMethod := make(map[string]int, len(stats.ByMethod))
	for method, n := range stats.ByMethod {
		byMethod[string(method)] = n
	}
	byGate := make(map[string]int, len(stats.ByGate))
	for gate, n := range stats.ByGate {
		byGate[string(gate)] = n
	}

	httputil.WriteJSON(w, http.StatusOK, &SummaryResponse{
		PeriodHours:      period.Hours(),
		TotalAttempts:    stats.Total,
		Granted:          stats.Granted,
		Denied:           stats.Denied,
		ByMethod:         byMethod,
		ByGate:           byGate,
		UnresolvedAlerts: len(open),
		GeneratedAt:      requestcontext.Now(ctx),
	})
}
