package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campusgate/internal/registry/models"
	"campusgate/internal/registry/service"
	id "campusgate/pkg/domain"
	"campusgate/pkg/platform/httputil"
	"campusgate/pkg/requestcontext"
)

// Service defines the interface for registry write operations.
type Service interface {
	RegisterVehicle(ctx context.Context, req service.RegisterVehicleRequest) (models.Vehicle, error)
	TransferOwnership(ctx context.Context, plate id.Plate, newOwnerID id.PersonID) (models.Vehicle, error)
	DeactivateVehicle(ctx context.Context, plate id.Plate) (models.Vehicle, error)
}

// Handler wires registry write endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a registry handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/vehicles", h.HandleRegisterVehicle)
	r.Post("/vehicles/{plate}/transfer", h.HandleTransfer)
	r.Post("/vehicles/{plate}/deactivate", h.HandleDeactivate)
}

// HandleRegisterVehicle handles POST /api/v1/vehicles requests.
func (h *Handler) HandleRegisterVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterVehicleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	vehicle, err := h.service.RegisterVehicle(ctx, service.RegisterVehicleRequest{
		Plate:   req.ParsedPlate(),
		OwnerID: req.ParsedOwnerID(),
		Type:    req.ParsedType(),
		Color:   req.Color,
		Model:   req.Model,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, FromVehicle(vehicle))
}

// HandleTransfer handles POST /api/v1/vehicles/{plate}/transfer requests.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	plate, err := id.ParsePlate(chi.URLParam(r, "plate"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[TransferRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	vehicle, err := h.service.TransferOwnership(ctx, plate, req.ParsedOwnerID())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromVehicle(vehicle))
}

// HandleDeactivate handles POST /api/v1/vehicles/{plate}/deactivate
// requests. Deactivating an already-inactive vehicle is a no-op success.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plate, err := id.ParsePlate(chi.URLParam(r, "plate"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	vehicle, err := h.service.DeactivateVehicle(ctx, plate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromVehicle(vehicle))
}
