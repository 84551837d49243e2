package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abgdnv/storefront/internal/model"
	"github.com/abgdnv/storefront/internal/service"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
)

// recordHandler serves list, get, create, update and delete for one record kind.
type recordHandler[T model.Record] struct {
	service service.RecordService[T]
	label   string
	logger  *slog.Logger
}

func newRecordHandler[T model.Record](svc service.RecordService[T], label string, logger *slog.Logger) *recordHandler[T] {
	return &recordHandler[T]{service: svc, label: label, logger: logger}
}

func (h *recordHandler[T]) routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

func (h *recordHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	mLogger := requestLogger(h.logger, r)
	list, err := h.service.List(r.Context())
	if err != nil {
		respondServiceError(w, r, mLogger, err, h.label, "", "Failed to fetch records")
		return
	}
	mLogger.DebugContext(r.Context(), "Listed records", "label", h.label, "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

func (h *recordHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	mLogger := requestLogger(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, mLogger, err, h.label, id, "Failed to retrieve record")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

func (h *recordHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := requestLogger(h.logger, r)
	var rec T
	if !web.DecodeJSON(w, r, mLogger, &rec) {
		return
	}
	created, err := h.service.Create(r.Context(), rec)
	if err != nil {
		respondServiceError(w, r, mLogger, err, h.label, "", "Failed to create record")
		return
	}
	mLogger.InfoContext(r.Context(), "Record created", "label", h.label, "ID", (*created).RecordID())
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// Update merges the request body into the stored record.
func (h *recordHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := requestLogger(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var patch json.RawMessage
	if !web.DecodeJSON(w, r, mLogger, &patch) {
		return
	}
	updated, err := h.service.Update(r.Context(), id, patch)
	if err != nil {
		respondServiceError(w, r, mLogger, err, h.label, id, "Failed to update record")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

func (h *recordHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	mLogger := requestLogger(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, mLogger, err, h.label, id, "Failed to delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
