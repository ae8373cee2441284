package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"campusgate/internal/alert"
	dErrors "campusgate/pkg/domain-errors"
	"campusgate/pkg/platform/httputil"
	"campusgate/pkg/requestcontext"
)

// Service defines the interface for alert queries and resolution.
type Service interface {
	List(ctx context.Context, resolved *bool) ([]alert.Alert, error)
	Resolve(ctx context.Context, alertID int64) error
}

// Handler wires alert endpoints to the alert dispatcher.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an alert handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts alert endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/alerts", h.HandleList)
	r.Post("/alerts/{alertID}/resolve", h.HandleResolve)
}

// HandleList handles GET /api/v1/alerts requests. The optional resolved
// query parameter narrows the listing; alerts come back newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var resolved *bool
	if raw := r.URL.Query().Get("resolved"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "resolved must be true or false"))
			return
		}
		resolved = &parsed
	}

	alerts, err := h.service.List(ctx, resolved)
	if err != nil {
		h.logger.ErrorContext(ctx, "alert listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromAlerts(alerts))
}

// HandleResolve handles POST /api/v1/alerts/{alertID}/resolve requests.
// Resolving an already-resolved alert is a no-op success.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	alertID, err := strconv.ParseInt(chi.URLParam(r, "alertID"), 10, 64)
	if err != nil || alertID <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "alert id must be a positive integer"))
		return
	}

	if err := h.service.Resolve(ctx, alertID); err != nil {
		h.logger.ErrorContext(ctx, "alert resolution failed",
			"request_id", requestID,
			"alert_id", alertID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "alert resolved",
		"request_id", requestID,
		"alert_id", alertID,
		"authority_id", requestcontext.AuthorityID(ctx),
	)

	httputil.WriteJSON(w, http.StatusOK, &ResolveResponse{AlertID: alertID, Resolved: true})
}
