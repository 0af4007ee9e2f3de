package v1handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vaskito85/buscador-precios/internal/pipeline"
	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/geo"
	"github.com/vaskito85/buscador-precios/pkg/serrors"
)

type createSightingRequest struct {
	ProductID uuid.UUID `json:"productId"`
	StoreID   uuid.UUID `json:"storeId"`
	Price     float64   `json:"price"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
}

type createSightingResponse struct {
	Sighting      domain.Sighting       `json:"sighting"`
	Notifications []domain.Notification `json:"notifications,omitempty"`
}

// CreateSighting submits one price observation through the ingestion
// pipeline and reports its final state.
func (h *Handler) CreateSighting(w http.ResponseWriter, r *http.Request) {
	var req createSightingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)

		return
	}
	if req.ProductID == uuid.Nil || req.StoreID == uuid.Nil {
		writeError(w, r, serrors.With(serrors.ErrBadRequest, "productId and storeId are required"))

		return
	}

	res, err := h.deps.Pipeline.Submit(r.Context(), pipeline.SubmitRequest{
		UserID:    GetUserIDFromContext(r.Context()),
		ProductID: domain.ProductID(req.ProductID),
		StoreID:   domain.StoreID(req.StoreID),
		Price:     req.Price,
		Location:  geo.Point{Lat: req.Lat, Lon: req.Lon},
	})
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusCreated, createSightingResponse{
		Sighting:      res.Sighting,
		Notifications: res.Notifications,
	})
}
