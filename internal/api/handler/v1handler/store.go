package v1handler

import (
	"net/http"
	"strconv"

	"github.com/vaskito85/buscador-precios/pkg/geo"
	"github.com/vaskito85/buscador-precios/pkg/serrors"
)

type createProductRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// CreateProduct resolves a product by name and currency, creating it when
// missing. The response carries the canonical product either way.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)

		return
	}

	product, err := h.deps.Catalog.FindOrCreateProduct(r.Context(), req.Name, req.Currency)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, product)
}

type createStoreRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CreateStore registers a new store.
func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req createStoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)

		return
	}

	store, err := h.deps.Catalog.CreateStore(r.Context(), req.Name, req.Address,
		geo.Point{Lat: req.Lat, Lon: req.Lon})
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusCreated, store)
}

// geoQuery extracts the lat, lon and radiusKm query parameters shared by the
// nearby endpoints.
func geoQuery(r *http.Request) (geo.Point, float64, error) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		return geo.Point{}, 0, serrors.Wrap(serrors.ErrBadRequest, err, "invalid lat")
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		return geo.Point{}, 0, serrors.Wrap(serrors.ErrBadRequest, err, "invalid lon")
	}

	radiusKm := 1.0
	if raw := r.URL.Query().Get("radiusKm"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return geo.Point{}, 0, serrors.Wrap(serrors.ErrBadRequest, err, "invalid radiusKm")
		}
	}

	return geo.Point{Lat: lat, Lon: lon}, radiusKm, nil
}

// NearbyStores lists the stores within the requested radius, closest first.
func (h *Handler) NearbyStores(w http.ResponseWriter, r *http.Request) {
	origin, radiusKm, err := geoQuery(r)
	if err != nil {
		writeError(w, r, err)

		return
	}

	stores, err := h.deps.Catalog.NearbyStores(r.Context(), origin, radiusKm)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, stores)
}

// NearbyPrices lists the latest reported price per product and store within
// the requested radius, cheapest first. The optional product query parameter
// narrows the list by product name.
func (h *Handler) NearbyPrices(w http.ResponseWriter, r *http.Request) {
	origin, radiusKm, err := geoQuery(r)
	if err != nil {
		writeError(w, r, err)

		return
	}

	prices, err := h.deps.Catalog.NearbyPrices(r.Context(), origin, radiusKm, r.URL.Query().Get("product"))
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, prices)
}
