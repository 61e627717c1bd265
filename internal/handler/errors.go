package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/Credence_Go/internal/domain"
	"github.com/osse101/Credence_Go/internal/logger"
)

// respondServiceError maps a service error to its status code. Classified
// domain errors are shown as they are; anything internal is logged and
// replaced by a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := kind.HTTPStatus()

	var de *domain.Error
	if kind == domain.KindInternal || !errors.As(err, &de) {
		logger.FromContext(r.Context()).Error(LogMsgServiceError, "path", r.URL.Path, "error", err)
		respondJSON(w, status, ErrorResponse{Error: ErrMsgGenericServerError, Kind: string(domain.KindInternal)})
		return
	}
	respondJSON(w, status, ErrorResponse{Error: err.Error(), Kind: string(kind)})
}
