package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"campusgate/internal/audit"
	id "campusgate/pkg/domain"
	dErrors "campusgate/pkg/domain-errors"
	"campusgate/pkg/platform/httputil"
	"campusgate/pkg/requestcontext"
)

// Service defines the interface for audit log queries and maintenance.
type Service interface {
	Query(ctx context.Context, filter audit.Filter) ([]audit.Entry, error)
	Stats(ctx context.Context, period time.Duration) (audit.Stats, error)
	CleanupBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Handler wires audit endpoints to the audit log.
type Handler struct {
	service       Service
	retentionDays int
	logger        *slog.Logger
}

// New constructs an audit handler. retentionDays is the default cleanup
// horizon when the request does not name one.
func New(service Service, retentionDays int, logger *slog.Logger) *Handler {
	return &Handler{
		service:       service,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Register mounts audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/logs", h.HandleQuery)
	r.Get("/logs/stats", h.HandleStats)
	r.Post("/logs/cleanup", h.HandleCleanup)
}

// HandleQuery handles GET /api/v1/logs requests. Entries come back newest
// first; filters combine conjunctively.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := filterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	entries, err := h.service.Query(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit query failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromEntries(entries, filter))
}

// HandleStats handles GET /api/v1/logs/stats requests. The period defaults
// to 24 hours.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period := 24 * time.Hour
	if raw := r.URL.Query().Get("period"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "period must be a positive duration"))
			return
		}
		period = parsed
	}

	stats, err := h.service.Stats(ctx, period)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit stats failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromStats(stats))
}

// HandleCleanup handles POST /api/v1/logs/cleanup requests. Maintenance
// only; requires an authenticated authority.
func (h *Handler) HandleCleanup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CleanupRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	days := req.OlderThanDays
	if days == 0 {
		days = h.retentionDays
	}
	cutoff := requestcontext.Now(ctx).AddDate(0, 0, -days)

	removed, err := h.service.CleanupBefore(ctx, cutoff)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit cleanup failed",
			"request_id", requestID,
			"cutoff", cutoff,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &CleanupResponse{
		Removed: removed,
		Cutoff:  cutoff,
	})
}

func filterFromQuery(r *http.Request) (audit.Filter, error) {
	q := r.URL.Query()
	var filter audit.Filter

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return audit.Filter{}, dErrors.New(dErrors.CodeValidation, "from must be RFC 3339")
		}
		filter.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return audit.Filter{}, dErrors.New(dErrors.CodeValidation, "to must be RFC 3339")
		}
		filter.To = t
	}

	filter.GateID = id.GateID(q.Get("gate_id"))

	if raw := q.Get("person_id"); raw != "" {
		personID, err := id.ParsePersonID(raw)
		if err != nil {
			return audit.Filter{}, err
		}
		filter.PersonID = personID
	}
	if raw := q.Get("license_plate"); raw != "" {
		plate, err := id.ParsePlate(raw)
		if err != nil {
			return audit.Filter{}, err
		}
		filter.Plate = plate
	}

	if raw := q.Get("granted"); raw != "" {
		granted, err := strconv.ParseBool(raw)
		if err != nil {
			return audit.Filter{}, dErrors.New(dErrors.CodeValidation, "granted must be true or false")
		}
		filter.Granted = &granted
	}
	if raw := q.Get("alert"); raw != "" {
		hasAlert, err := strconv.ParseBool(raw)
		if err != nil {
			return audit.Filter{}, dErrors.New(dErrors.CodeValidation, "alert must be true or false")
		}
		filter.HasAlert = &hasAlert
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return audit.Filter{}, dErrors.New(dErrors.CodeValidation, "limit must be a non-negative integer")
		}
		filter.Limit = limit
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return audit.Filter{}, dErrors.New(dErrors.CodeValidation, "offset must be a non-negative integer")
		}
		filter.Offset = offset
	}

	return filter, nil
}
