package v1handler

import (
	"net/http"
	"strconv"

	"github.com/vaskito85/buscador-precios/pkg/serrors"
)

// ListNotifications returns the caller's notifications, newest first.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit := uint(DefaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, r, serrors.Wrap(serrors.ErrBadRequest, err, "invalid limit"))

			return
		}
		limit = uint(parsed)
	}

	notifications, err := h.deps.Pipeline.UserNotifications(r.Context(),
		GetUserIDFromContext(r.Context()), limit)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, notifications)
}
