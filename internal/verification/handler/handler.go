package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"campusgate/internal/recognition"
	"campusgate/internal/verification"
	id "campusgate/pkg/domain"
	"campusgate/pkg/platform/httputil"
	"campusgate/pkg/requestcontext"
)

// Service defines the interface for verification operations.
type Service interface {
	Verify(ctx context.Context, attempt verification.Attempt) (verification.Result, error)
}

// Handler wires the verify endpoint to the verification service.
type Handler struct {
	service Service
	gate    *recognition.ThresholdGate
	logger  *slog.Logger
}

// New constructs a verification handler with its dependencies.
func New(service Service, gate *recognition.ThresholdGate, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		gate:    gate,
		logger:  logger,
	}
}

// Register mounts verification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verify", h.HandleVerify)
}

// HandleVerify handles POST /api/v1/verify requests.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	attempt := verification.Attempt{
		PersonID:   req.ParsedPersonID(),
		Plate:      req.ParsedPlate(),
		Method:     req.ParsedMethod(),
		GateID:     id.GateID(req.GateID).OrDefault(),
		ObservedAt: requestcontext.Now(ctx),
	}

	// OCR readings pass the confidence gate before the engine sees them.
	// A below-threshold plate becomes an absent signal, and any declared
	// method is re-derived from what actually remains.
	if attempt.Plate != "" && req.PlateConfidence != nil {
		accepted := h.gate.Accept(ctx, recognition.Reading{
			Plate:      string(attempt.Plate),
			Confidence: *req.PlateConfidence,
		})
		if accepted == "" {
			attempt.Plate = ""
			attempt.Method = ""
		} else {
			attempt.Plate = accepted
		}
	}

	result, err := h.service.Verify(ctx, attempt)
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed",
			"request_id", requestID,
			"gate_id", attempt.GateID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "verification settled",
		"request_id", requestID,
		"gate_id", attempt.GateID,
		"entry_id", result.AuditEntryID,
		"granted", result.Decision.Granted,
		"reason", result.Decision.Reason,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}
