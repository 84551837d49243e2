package rest

import (
	"net/http"

	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/pkg/web"
)

// RecordSale handles POST /api/sales.
func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req service.SaleCreateDto
	if !web.DecodeJSON(w, r, mLogger, &req) {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to record sale", "client_id", req.ClientID, "lines", len(req.Items))

	sale, err := h.services.Sales.RecordSale(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, mLogger, err, "Sale", "", "Failed to record sale")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusCreated, sale)
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sales, err := h.services.Sales.List(r.Context())
	if err != nil {
		respondServiceError(w, r, mLogger, err, "Sale", "", "Failed to fetch sales")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, sales)
}

func (h *Handler) GetSale(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	sale, err := h.services.Sales.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, mLogger, err, "Sale", id, "Failed to retrieve sale")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, sale)
}
