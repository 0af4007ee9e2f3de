// Package v1handler implements the v1 HTTP API: JSON request decoding,
// response encoding, bearer token authentication and the mapping from
// semantic error kinds to HTTP status codes.
package v1handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vaskito85/buscador-precios/internal/catalog"
	"github.com/vaskito85/buscador-precios/internal/pipeline"
	"github.com/vaskito85/buscador-precios/pkg/logger"
	"github.com/vaskito85/buscador-precios/pkg/serrors"
)

// DefaultLimit bounds list responses when the client does not ask for a limit.
const DefaultLimit = 20

// Deps carries the services the handlers delegate to.
type Deps struct {
	Pipeline pipeline.Pipeline
	Catalog  catalog.Catalog
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Register mounts all v1 routes on the mux behind the given authentication
// middleware.
func (h *Handler) Register(mux *http.ServeMux, sec *SecHandler) {
	auth := sec.Middleware

	mux.Handle("POST /v1/sightings", auth(http.HandlerFunc(h.CreateSighting)))

	mux.Handle("POST /v1/products", auth(http.HandlerFunc(h.CreateProduct)))
	mux.Handle("POST /v1/stores", auth(http.HandlerFunc(h.CreateStore)))
	mux.Handle("GET /v1/stores/nearby", auth(http.HandlerFunc(h.NearbyStores)))
	mux.Handle("GET /v1/prices/nearby", auth(http.HandlerFunc(h.NearbyPrices)))

	mux.Handle("POST /v1/alerts", auth(http.HandlerFunc(h.CreateAlert)))
	mux.Handle("GET /v1/alerts", auth(http.HandlerFunc(h.ListAlerts)))
	mux.Handle("DELETE /v1/alerts/{id}", auth(http.HandlerFunc(h.DeleteAlert)))

	mux.Handle("GET /v1/notifications", auth(http.HandlerFunc(h.ListNotifications)))
}

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps semantic error kinds to HTTP status codes. Unknown errors
// are logged and reported as opaque internal errors.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var serr *serrors.Error
	if errors.As(err, &serr) {
		writeJSON(w, statusForKind(serr.Kind()), errorResponse{Error: serr.Message()})

		return
	}

	logger.Error(r.Context(), "request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func statusForKind(k serrors.Kind) int {
	switch k {
	case serrors.ErrNotFound:
		return http.StatusNotFound
	case serrors.ErrBadRequest:
		return http.StatusBadRequest
	case serrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case serrors.ErrConflict:
		return http.StatusConflict
	case serrors.ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes the request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}

	return nil
}
