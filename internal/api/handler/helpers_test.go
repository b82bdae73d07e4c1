package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zxrrcpandey/rahulops/internal/core"
)

func TestWriteServiceError_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, fmt.Errorf("site %q: %w", "test-site-1", core.ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteServiceError_Conflict(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, &core.ConflictError{Resource: "site test-site-1", Reason: "deployment already running"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeErrorResponse(rec)
	assert.Contains(t, body["error"], "deployment already running")
}

func TestWriteServiceError_AlreadyActive(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, core.ErrAlreadyActive)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWriteServiceError_Internal(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
