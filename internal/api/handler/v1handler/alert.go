package v1handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/serrors"
)

type createAlertRequest struct {
	ProductID   uuid.UUID `json:"productId"`
	TargetPrice *float64  `json:"targetPrice,omitempty"`
	RadiusKm    float64   `json:"radiusKm"`
}

// CreateAlert registers a standing price alert for the caller.
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)

		return
	}
	if req.ProductID == uuid.Nil {
		writeError(w, r, serrors.With(serrors.ErrBadRequest, "productId is required"))

		return
	}

	alert, err := h.deps.Catalog.CreateAlert(r.Context(),
		GetUserIDFromContext(r.Context()),
		domain.ProductID(req.ProductID),
		req.TargetPrice,
		req.RadiusKm)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusCreated, alert)
}

// ListAlerts returns the caller's alerts, newest first.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.deps.Catalog.UserAlerts(r.Context(), GetUserIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, alerts)
}

// DeleteAlert deactivates one of the caller's alerts.
func (h *Handler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid alert id"))

		return
	}

	if _, err := h.deps.Catalog.DeactivateAlert(r.Context(),
		GetUserIDFromContext(r.Context()), domain.AlertID(id)); err != nil {
		writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
