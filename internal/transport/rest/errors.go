package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/pkg/web"
)

// respondServiceError maps a service error to a status code and body.
// label names the record kind in messages, failure describes the attempted action for 500s.
func respondServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, label, id, failure string) {
	var structural *apperrors.StructuralError
	var validation *apperrors.ValidationError
	switch {
	case errors.As(err, &structural):
		logger.WarnContext(r.Context(), "Validation errors occurred", "errors", structural.Fields)
		web.RespondValidationErrors(w, logger, "Missing or invalid fields", structural.Fields)
	case errors.As(err, &validation):
		logger.WarnContext(r.Context(), "Sale rejected", "details", validation.Details)
		web.RespondDetails(w, logger, http.StatusBadRequest, "Sale validation failed.", validation.Details)
	case errors.Is(err, apperrors.ErrNotFound):
		logger.WarnContext(r.Context(), "Record not found", "label", label, "ID", id)
		web.RespondError(w, logger, http.StatusNotFound, fmt.Sprintf("%s with ID %s not found", label, id))
	case errors.Is(err, apperrors.ErrUnknownCategory):
		web.RespondError(w, logger, http.StatusBadRequest, "Referenced category does not exist")
	case errors.Is(err, apperrors.ErrCategoryInUse):
		web.RespondError(w, logger, http.StatusConflict, fmt.Sprintf("Category with ID %s is still used by products", id))
	case errors.Is(err, apperrors.ErrUsernameTaken):
		web.RespondError(w, logger, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, apperrors.ErrProtectedUser):
		web.RespondError(w, logger, http.StatusForbidden, "The primary administrator cannot be deleted")
	case errors.Is(err, apperrors.ErrInvalidInput):
		logger.WarnContext(r.Context(), "Invalid input", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
	default:
		logger.ErrorContext(r.Context(), failure, "label", label, "ID", id, "error", err)
		web.RespondError(w, logger, http.StatusInternalServerError, failure)
	}
}
