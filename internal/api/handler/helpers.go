package handler

import (
	"errors"
	"net/http"

	"github.com/zxrrcpandey/rahulops/internal/api/response"
	"github.com/zxrrcpandey/rahulops/internal/core"
)

// writeServiceError maps core errors onto HTTP statuses. Missing resources
// are 404, invariant violations 409, everything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		response.WriteError(w, http.StatusNotFound, err.Error())
	case core.IsConflict(err):
		response.WriteError(w, http.StatusConflict, err.Error())
	default:
		response.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
